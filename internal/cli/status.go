package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onlyonestudio/onlyone/pkg/ledger"
)

// statusCommand creates the ledger inspection command.
func (c *CLI) statusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [slug]",
		Short: "Show the tracking ledger",
		Long: `Status summarizes the drop ledger. With a slug it shows that product's
full record, including every uploaded URL.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := newLedgerStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("opening ledger: %w", err)
			}
			defer store.Close()
			led := ledger.New(store)

			if len(args) == 1 {
				return printEntry(cmd, led, args[0])
			}
			return printSummary(cmd, led)
		},
	}
	return cmd
}

func printEntry(cmd *cobra.Command, led *ledger.Ledger, slug string) error {
	e, err := led.Get(cmd.Context(), slug)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(e.Title))
	printKeyValue("slug", e.Slug)
	printKeyValue("status", string(e.Status))
	printKeyValue("created", e.Timestamp.Format(time.RFC3339))
	if e.ProductType != "" {
		printKeyValue("product", fmt.Sprintf("%s #%s · %s", e.ProductType, e.ProductID, e.Price))
		printKeyValue("colors", e.ColorsLight+" / "+e.ColorsDark)
		printKeyValue("sizes", e.Sizes)
	}
	if e.StoreURL != "" {
		printKeyValue("store", StyleLink.Render(e.StoreURL))
	}

	urls := []struct{ name, url string }{
		{"artwork", e.ArtworkURL},
		{"title dark", e.TitleDarkURL},
		{"title light", e.TitleLightURL},
		{"front light", e.FrontLightURL},
		{"front dark", e.FrontDarkURL},
		{"back", e.BackURL},
		{"sleeve dark", e.SleeveDarkURL},
		{"sleeve light", e.SleeveLightURL},
	}
	printNewline()
	for _, u := range urls {
		if u.url != "" {
			printKeyValue(u.name, u.url)
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, led *ledger.Ledger) error {
	sum, err := led.Summarize(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render("Drop Ledger"))
	printKeyValue("products", fmt.Sprintf("%d", sum.Total))
	for _, status := range []ledger.Status{ledger.StatusDraft, ledger.StatusPublished, ledger.StatusArchived} {
		if n := sum.ByStatus[status]; n > 0 {
			printKeyValue(string(status), fmt.Sprintf("%d", n))
		}
	}
	for ptype, n := range sum.ByProductType {
		printKeyValue(ptype, fmt.Sprintf("%d", n))
	}
	printKeyValue("assets done", fmt.Sprintf("%d", sum.AssetsComplete))

	drafts, err := led.ListByStatus(cmd.Context(), ledger.StatusDraft)
	if err != nil {
		return err
	}
	if len(drafts) > 0 {
		printNewline()
		printInfo("%d drafts waiting", len(drafts))
		for _, d := range drafts {
			printDetail("%s · %s", d.Slug, d.Timestamp.Format("2006-01-02"))
		}
	}
	return nil
}
