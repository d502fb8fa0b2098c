package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/elicit/internal/budget"
)

var budgetMultiplier float64

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Budget expression tools",
}

var budgetParseCmd = &cobra.Command{
	Use:   "parse <expr>",
	Short: "Parse a budget expression like 10-20k or 5000+ into a min/max range",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mult := budgetMultiplier
		markers := budget.DefaultCurrencyMarkers
		if cfg != nil {
			if mult == 0 {
				mult = cfg.Engine.OpenEndedMultiplier
			}
			if cfg.Engine.CurrencyMarkers != nil {
				markers = budget.Markers(cfg.Engine.CurrencyMarkers)
			}
		}

		expr := strings.Join(args, " ")
		r := budget.NewParser(mult).Parse(expr)
		return writeIndented(cmd.OutOrStdout(), struct {
			Expr     string `json:"expr"`
			Min      *int   `json:"min"`
			Max      *int   `json:"max"`
			Currency bool   `json:"currency"`
		}{expr, r.Min, r.Max, markers.Match(expr)})
	},
}

func init() {
	budgetParseCmd.Flags().Float64Var(&budgetMultiplier, "multiplier", 0, "upper bound multiplier for open-ended budgets (default from config)")
	budgetCmd.AddCommand(budgetParseCmd)
	rootCmd.AddCommand(budgetCmd)
}
