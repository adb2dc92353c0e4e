package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onlyonestudio/onlyone/pkg/imagehost"
	"github.com/onlyonestudio/onlyone/pkg/ledger"
	"github.com/onlyonestudio/onlyone/pkg/pipeline"
	"github.com/onlyonestudio/onlyone/pkg/printful"
)

// runCommand creates the main pipeline command.
func (c *CLI) runCommand() *cobra.Command {
	var (
		mode        string
		interactive bool
		outputDir   string
		titlesDir   string
		products    []string
		colors      []string
		skipQA      bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "run [images...]",
		Short: "Run the drop pipeline over artwork files",
		Long: `Run processes each artwork through the drop workflow. How far it goes
depends on the mode:

  validate   check input requirements only
  test       process the first artwork locally (default)
  batch      process every artwork locally
  complete   upload print files and publish store products

Complete mode needs PRINTFUL_API_KEY, PRINTFUL_STORE_ID, and IMGBB_CLIENT_ID
in the environment.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if interactive {
				picked, err := pickMode()
				if err != nil {
					return err
				}
				if picked == "" {
					printInfo("No mode selected")
					return nil
				}
				mode = picked
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			store, err := newLedgerStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("opening ledger: %w", err)
			}
			defer store.Close()

			var uploader pipeline.Uploader
			var market pipeline.Marketplace
			if mode == pipeline.ModeComplete {
				host, err := imagehost.NewClient(cfg.ImageHost)
				if err != nil {
					return err
				}
				uploadCache, err := newCache(ctx, cfg, noCache)
				if err != nil {
					return fmt.Errorf("opening cache: %w", err)
				}
				defer uploadCache.Close()
				uploader = &cachedUploader{client: host, cache: uploadCache}

				market, err = printful.NewClient(cfg.Printful)
				if err != nil {
					return err
				}
			}

			runner, err := pipeline.NewRunner(cfg, ledger.New(store), uploader, market, c.Logger)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			result, err := runner.Execute(ctx, pipeline.Options{
				Mode:         mode,
				Images:       args,
				OutputDir:    outputDir,
				TitlesDir:    titlesDir,
				ProductTypes: products,
				Colors:       colors,
				SkipQA:       skipQA,
				Logger:       c.Logger,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Run finished: %d processed, %d failed, %d skipped",
				result.Stats.Processed, result.Stats.Failed, result.Stats.Skipped))

			printRunResult(result)
			if result.Stats.Processed == 0 && result.Stats.Failed > 0 {
				return fmt.Errorf("every image failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", pipeline.ModeTest, "pipeline mode (validate, test, batch, complete)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the mode interactively")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "artifact directory (default from config)")
	cmd.Flags().StringVar(&titlesDir, "titles-dir", "", "title raster directory (default from config)")
	cmd.Flags().StringSliceVarP(&products, "product", "p", nil, "garment types to publish (tshirt, hoodie)")
	cmd.Flags().StringSliceVar(&colors, "color", nil, "garment colors (default Black, White)")
	cmd.Flags().BoolVar(&skipQA, "skip-qa", false, "skip composition QA")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the upload memo cache")

	return cmd
}

// printRunResult renders the per-image outcome.
func printRunResult(result *pipeline.Result) {
	printNewline()
	for _, img := range result.Images {
		switch {
		case img.Skipped:
			printInfo("%s already published, skipped", img.Slug)
		case img.Failed():
			printError("%s: %v", img.Slug, img.Err)
		default:
			printSuccess("%s (%s)", img.Slug, img.Duration.Round(time.Millisecond))
			if img.Variants != nil {
				printDetail("%d print variants", img.Variants.Produced())
			}
			if img.QA != nil {
				printDetail("QA score %.0f", img.QA.Score)
			}
			for _, p := range img.Products {
				printDetail("%s #%d · %d variants", p.Type, p.ID, p.Variants)
			}
			if img.QAReportPath != "" {
				printFile(img.QAReportPath)
			}
		}
	}
}
