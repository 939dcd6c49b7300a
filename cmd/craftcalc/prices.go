package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

func (a *app) category(raw string) (models.Category, error) {
	line, err := a.svc.Catalog().Line(a.line())
	if err != nil {
		return "", err
	}
	c, ok := models.ParseCategory(raw, line.PrimaryKey)
	if !ok {
		return "", fmt.Errorf("unknown category %q (use %s or weapons)", raw, line.PrimaryKey)
	}
	return c, nil
}

func optionalTier(raw string) (*models.TierName, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := models.ParseTierName(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *app) pricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "List, refresh and edit stored prices",
	}
	cmd.AddCommand(a.pricesListCmd(), a.pricesRefreshCmd(), a.pricesQuoteCmd(), a.pricesSetCmd(), a.pricesResetCmd())
	return cmd
}

func (a *app) pricesListCmd() *cobra.Command {
	var category, tier string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the stored lowest prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.category(category)
			if err != nil {
				return err
			}
			t, err := optionalTier(tier)
			if err != nil {
				return err
			}
			st, err := a.svc.Store(a.line())
			if err != nil {
				return err
			}
			resolve := st.Line().Resolver(t)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("Name"), headerStyle.Render("Price"), headerStyle.Render("Market name"))
			for _, it := range st.Items(c) {
				market, err := resolve(it.Name)
				if err != nil {
					market = subtleStyle.Render("(not mapped)")
				}
				price := subtleStyle.Render("-")
				if it.MinPrice > 0 {
					price = fmt.Sprintf("%.2f", it.MinPrice)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", it.Name, price, market)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "item list (primary or weapons)")
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "exterior used for the market names")
	return cmd
}

func (a *app) pricesRefreshCmd() *cobra.Command {
	var category, tier, name string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch current lowest prices from the market API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.category(category)
			if err != nil {
				return err
			}
			t, err := optionalTier(tier)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if name != "" {
				res, err := a.svc.RefreshItem(cmd.Context(), a.line(), c, name, t)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s\n", res.Name, successStyle.Render(fmt.Sprintf("%.2f", res.Price)))
				return nil
			}

			st, err := a.svc.Store(a.line())
			if err != nil {
				return err
			}
			bar := progressbar.NewOptions(len(st.Names(c)),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetDescription("Fetching prices"),
			)
			report, err := a.svc.RefreshAll(cmd.Context(), a.line(), c, t, func(_, _ int) {
				_ = bar.Add(1)
			})
			_ = bar.Finish()
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s  %s  %s\n",
				successStyle.Render(fmt.Sprintf("updated %d", report.Updated)),
				errorStyle.Render(fmt.Sprintf("failed %d", report.Failed)),
				subtleStyle.Render(fmt.Sprintf("unmapped %d", report.Unmapped)))
			for _, r := range report.Results {
				if !r.Ok() {
					fmt.Fprintf(out, "  %s: %s\n", r.Name, subtleStyle.Render(r.Error))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "item list (primary or weapons)")
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "exterior to price at (default Field-Tested)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "refresh a single item")
	return cmd
}

func (a *app) pricesQuoteCmd() *cobra.Command {
	var category, tier string
	cmd := &cobra.Command{
		Use:   "quote <name>",
		Short: "Look up an item's current price without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.category(category)
			if err != nil {
				return err
			}
			t, err := optionalTier(tier)
			if err != nil {
				return err
			}
			res, err := a.svc.Quote(cmd.Context(), a.line(), c, args[0], t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", res.Name,
				successStyle.Render(fmt.Sprintf("%.2f", res.Price)), subtleStyle.Render(res.MarketHash))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "item list (primary or weapons)")
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "exterior to price at (default Field-Tested)")
	return cmd
}

func (a *app) pricesResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the line's built-in items and prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.ResetPrices(a.line()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Prices reset for "+a.line()))
			return nil
		},
	}
}

func (a *app) pricesSetCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "set <name> <price>",
		Short: "Enter a price by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.category(category)
			if err != nil {
				return err
			}
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil || !finite(price) {
				return fmt.Errorf("price must be a number: %q", args[1])
			}
			if err := a.svc.SetPrice(a.line(), c, args[0], price); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", args[0], successStyle.Render(fmt.Sprintf("%.2f", price)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "item list (primary or weapons)")
	return cmd
}

func (a *app) profitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profit",
		Short: "Compare material prices with the average craft output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.svc.Profit(a.line())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Average output %.1f / %d = threshold %.1f",
				s.AveragePrice, s.CraftSize, s.Threshold)))
			if s.PricedOutputs < s.Outputs {
				fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf("%d of %d outputs have no price yet", s.Outputs-s.PricedOutputs, s.Outputs)))
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("Weapon"), headerStyle.Render("Price"), headerStyle.Render("Margin"))
			for _, wm := range s.Weapons {
				margin := fmt.Sprintf("%+.2f", wm.Margin)
				if wm.Profitable {
					margin = successStyle.Render(margin)
				} else {
					margin = errorStyle.Render(margin)
				}
				fmt.Fprintf(w, "%s\t%.2f\t%s\n", wm.Name, wm.Price, margin)
			}
			return w.Flush()
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write prices and margins to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := optionalTier(tier)
			if err != nil {
				return err
			}
			if err := a.svc.Export(args[0], a.line(), t); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Wrote "+args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&tier, "tier", "t", "", "exterior used for the market names")
	return cmd
}
