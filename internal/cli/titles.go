package cli

import (
	"github.com/spf13/cobra"

	"github.com/onlyonestudio/onlyone/pkg/config"
	"github.com/onlyonestudio/onlyone/pkg/render"
)

// titlesCommand creates the curved title rendering command.
func (c *CLI) titlesCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "titles [names...]",
		Short: "Render curved title rasters in both contrast colors",
		Long: `Titles rasterizes each name along the drop's title arc, once in the dark
ink for light garments and once in the light ink for dark garments. Names
may be artwork filenames; extensions and leading articles are stripped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = cfg.Assets.TitlesDir
			}

			settings := render.DefaultSettings(cfg.Font.Path)
			settings.FontSize = cfg.Font.Size
			settings.Curve = cfg.Font.Curve
			settings.Tracking = cfg.Font.Tracking
			settings.VerticalOffset = cfg.Font.VerticalOffset
			renderer, err := render.NewRenderer(settings)
			if err != nil {
				return err
			}
			if renderer.FontSource() != render.FontSourcePath {
				printWarning("configured font not found, using %s font", renderer.FontSource())
			}

			dark, err := config.ParseHexColor(cfg.Colors.DarkText)
			if err != nil {
				return err
			}
			light, err := config.ParseHexColor(cfg.Colors.LightText)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			for _, name := range args {
				set, err := renderer.RenderTitle(name, outputDir, dark, light)
				if err != nil {
					printError("%s: %v", name, err)
					continue
				}
				printSuccess("%s", set.Slug)
				printFile(set.DarkPath)
				printFile(set.LightPath)
			}
			prog.done("Titles rendered")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "title directory (default from config)")
	return cmd
}
