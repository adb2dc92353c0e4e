package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onlyonestudio/onlyone/pkg/validate"
)

// validateCommand creates the input validation command.
func (c *CLI) validateCommand() *cobra.Command {
	var cleanBorder bool

	cmd := &cobra.Command{
		Use:   "validate [images...]",
		Short: "Check artwork files against the print requirements",
		Long: `Validate inspects each file for format, transparency, resolution, and
size. With --clean-border, files that pass get their outermost pixel frame
made transparent in place, removing upscaler halo artifacts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			invalid := 0
			for _, path := range args {
				report, err := validate.ValidateImage(path, cfg.Image)
				if err != nil {
					printError("%s: %v", path, err)
					invalid++
					continue
				}

				if report.Valid {
					printSuccess("%s", path)
				} else {
					printError("%s", path)
					invalid++
				}
				printDetail("%dx%d px · %s", report.Width, report.Height, describeDPI(report.DPI))
				for _, issue := range report.Issues {
					printDetail("issue: %s", issue)
				}
				for _, warning := range report.Warnings {
					printWarning("%s", warning)
				}

				if cleanBorder && report.Valid {
					if _, err := validate.CleanBorder(path, cfg.Image.BorderThreshold, ""); err != nil {
						printError("border cleanup: %v", err)
					} else {
						printDetail("border cleaned (%dpx)", cfg.Image.BorderThreshold)
					}
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d files failed validation", invalid, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cleanBorder, "clean-border", false, "make the outer pixel frame transparent in place")
	return cmd
}

func describeDPI(dpi int) string {
	if dpi == 0 {
		return "no DPI metadata"
	}
	return fmt.Sprintf("%d DPI", dpi)
}
