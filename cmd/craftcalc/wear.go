package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func parseWear(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(v) {
		return 0, fmt.Errorf("wear must be a number: %q", s)
	}
	return v, nil
}

func (a *app) linesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lines",
		Short: "List product lines, output kinds and materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, l := range a.svc.Catalog().Lines() {
				fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s  %s", l.ID, l.Title)))

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					headerStyle.Render("Kind"), headerStyle.Render("Mode"),
					headerStyle.Render("Domain"), headerStyle.Render("Tiers"))
				for _, k := range l.Kinds {
					codes := make([]string, len(k.Tiers))
					for i, t := range k.Tiers {
						codes[i] = fmt.Sprintf("%s%s", t.Name.Code(), t.Range)
					}
					id := k.ID
					if id == l.DefaultKind {
						id += "*"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, k.Mode, k.Domain, strings.Join(codes, " "))
				}
				fmt.Fprintln(w)
				fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("Material"), headerStyle.Render("Wear range"))
				for _, m := range l.Materials {
					fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Wear)
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func (a *app) mapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <material> <wear>",
		Short: "Predict the crafted wear and exterior for a material wear",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseWear(args[1])
			if err != nil {
				return err
			}
			p, err := a.svc.Engine().Predict(a.line(), a.kind(), args[0], x)
			if err != nil {
				return err
			}
			body := fmt.Sprintf("%s  %.6f (%s)\n%s  %.6f\n%s  %s",
				headerStyle.Render("Material"), p.MaterialWear, p.Material,
				headerStyle.Render("Output  "), p.OutputWear,
				headerStyle.Render("Exterior"), p.Tier.Label())
			fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(body))
			return nil
		},
	}
}

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <wear>",
		Short: "Name the exterior of an output wear value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseWear(args[0])
			if err != nil {
				return err
			}
			tier, err := a.svc.Engine().ClassifyTier(a.line(), a.kind(), v)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f  %s\n", v, successStyle.Render(tier.Label()))
			return nil
		},
	}
}

func (a *app) maxWearCmd() *cobra.Command {
	var ceiling float64
	cmd := &cobra.Command{
		Use:   "maxwear <material> [tier]",
		Short: "Highest material wear that keeps the output at or below a tier or ceiling",
		Long: `Without a tier every exterior of the output kind is listed. With --ceiling
the given output wear is used instead of a tier's upper bound.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := a.svc.Engine()
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("ceiling") {
				if !finite(ceiling) {
					return fmt.Errorf("ceiling must be a number: %v", ceiling)
				}
				limit, err := engine.MaxMaterialWear(a.line(), a.kind(), args[0], ceiling)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "≤ %.6f  %s\n", limit.Ceiling, successStyle.Render(fmt.Sprintf("%.6f", limit.MaxMaterialWear)))
				return nil
			}

			var tiers []models.TierName
			if len(args) == 2 {
				t, err := models.ParseTierName(args[1])
				if err != nil {
					return err
				}
				tiers = []models.TierName{t}
			} else {
				line, err := a.svc.Catalog().Line(a.line())
				if err != nil {
					return err
				}
				kind, err := line.Kind(a.kind())
				if err != nil {
					return err
				}
				for _, t := range kind.Tiers {
					tiers = append(tiers, t.Name)
				}
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("Exterior"), headerStyle.Render("Ceiling"), headerStyle.Render("Max material wear"))
			for _, t := range tiers {
				limit, err := engine.MaxMaterialWearForTier(a.line(), a.kind(), args[0], t)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", t.Label(), limit.Ceiling, limit.MaxMaterialWear)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&ceiling, "ceiling", 0, "output wear ceiling")
	return cmd
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <display-name> [tier]",
		Short: "Show the market hash name used to price an item",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tier *models.TierName
			if len(args) == 2 {
				t, err := models.ParseTierName(args[1])
				if err != nil {
					return err
				}
				tier = &t
			}
			name, err := a.svc.Resolve(a.line(), args[0], tier)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}
