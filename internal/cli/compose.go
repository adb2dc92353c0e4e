package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/onlyonestudio/onlyone/pkg/compose"
	"github.com/onlyonestudio/onlyone/pkg/render"
	"github.com/onlyonestudio/onlyone/pkg/slug"
	"github.com/onlyonestudio/onlyone/pkg/validate"
)

// composeCommand creates the composition command.
func (c *CLI) composeCommand() *cobra.Command {
	var (
		productSlug string
		titlesDir   string
		outputDir   string
		runQA       bool
	)

	cmd := &cobra.Command{
		Use:   "compose [artwork]",
		Short: "Compose the print variants for one artwork",
		Long: `Compose builds the five print files for a product: front compositions for
light and dark garments, the shared back, and both sleeve logos. Title
rasters must exist already (see the titles command). Variants whose assets
are missing are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			artwork := args[0]
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if productSlug == "" {
				productSlug = slug.Generate(filepath.Base(artwork))
			}
			if titlesDir == "" {
				titlesDir = cfg.Assets.TitlesDir
			}
			if outputDir == "" {
				outputDir = cfg.Assets.ArtifactsDir
			}

			darkTitle, lightTitle := render.TitlePaths(productSlug, titlesDir)
			if !render.TitleFilesExist(productSlug, titlesDir) {
				printWarning("title rasters missing for %q, front variants will be skipped", productSlug)
				darkTitle, lightTitle = "", ""
			}

			assets := compose.Assets{
				TitleDark:     darkTitle,
				TitleLight:    lightTitle,
				WordmarkDark:  cfg.Assets.WordmarkDark,
				WordmarkLight: cfg.Assets.WordmarkLight,
				LogoDark:      cfg.Assets.LogoDark,
				LogoLight:     cfg.Assets.LogoLight,
			}

			spinner := newSpinnerWithContext(cmd.Context(), "composing variants")
			spinner.Start()
			set, err := compose.New(cfg).CreateAllVariants(productSlug, artwork, assets, outputDir)
			if err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("%d of %d variants composed", set.Produced(), len(compose.AllVariants)))

			for _, v := range compose.AllVariants {
				if path := set.Path(v); path != "" {
					printFile(path)
				} else if err := set.Errors[v]; err != nil {
					printError("%s: %v", v, err)
				} else {
					printDetail("%s skipped", v)
				}
			}

			if runQA {
				compositions := make(map[string]string, len(compose.AllVariants))
				for _, v := range compose.AllVariants {
					compositions[string(v)] = set.Path(v)
				}
				report := validate.RunQA(cfg, productSlug, artwork, compositions)
				if report.Valid {
					printSuccess("QA score %.0f", report.Score)
				} else {
					printWarning("QA failed with score %.0f (%d issues)", report.Score, report.Issues)
				}
				for _, rec := range report.Recommendations {
					printDetail("%s", rec)
				}
				if path, err := validate.SaveReport(report, outputDir); err == nil {
					printFile(path)
				}
			}

			printNextStep("Publish", fmt.Sprintf("onlyone run --mode complete %s", artwork))
			return nil
		},
	}

	cmd.Flags().StringVar(&productSlug, "slug", "", "product slug (default derived from the filename)")
	cmd.Flags().StringVar(&titlesDir, "titles-dir", "", "title raster directory (default from config)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "artifact directory (default from config)")
	cmd.Flags().BoolVar(&runQA, "qa", false, "score the compositions after composing")

	return cmd
}
