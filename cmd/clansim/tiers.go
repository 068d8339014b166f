package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"clansim/internal/relationship"
)

func tiersCmd() *cobra.Command {
	var dimension string
	var value int
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Show relationship tiers, or classify one value with --dimension and --value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTiers(dimension, value, cmd.Flags().Changed("value"))
		},
	}
	cmd.Flags().StringVar(&dimension, "dimension", "", "Dimension to classify: romance, like, respect, trust or comfort")
	cmd.Flags().IntVar(&value, "value", 0, "Value to classify")
	return cmd
}

func runTiers(dimension string, value int, classify bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tiers := relationship.NewTiers(cfg.Relationship.ValueIntervals)

	if classify {
		d := relationship.Dimension(dimension)
		if !d.Valid() {
			return fmt.Errorf("%w: %q", relationship.ErrUnknownDimension, dimension)
		}
		if value < d.Min() || value > d.Max() {
			return fmt.Errorf("%s values run from %d to %d", d, d.Min(), d.Max())
		}
		group := tiers.Group(value)
		fmt.Fprintf(os.Stdout, "%s %d: %s (%s)\n", d, value, groupStyle(group).Render(string(tiers.Classify(d, value))), group)
		return nil
	}

	fmt.Fprintln(os.Stdout, titleStyle.Render("Relationship tiers"))
	for _, d := range relationship.Dimensions {
		low := d.Min()
		var cells []string
		for _, interval := range cfg.Relationship.ValueIntervals {
			if interval.Max < low {
				continue
			}
			group := relationship.TierGroup(interval.Group)
			label := tiers.Classify(d, low)
			cells = append(cells, groupStyle(group).Render(fmt.Sprintf("%s %d..%d", label, low, interval.Max)))
			low = interval.Max + 1
		}
		fmt.Fprintf(os.Stdout, "%-8s %s\n", d, lipgloss.JoinHorizontal(lipgloss.Top, join(cells, "  ")...))
	}
	return nil
}

func groupStyle(group relationship.TierGroup) lipgloss.Style {
	switch {
	case group.IsNegative():
		return negativeStyle
	case group.IsPositive():
		return positiveStyle
	default:
		return neutralStyle
	}
}

func join(cells []string, sep string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, cell := range cells {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, cell)
	}
	return out
}
