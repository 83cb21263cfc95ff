package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/footprint/core/factors"
	"github.com/kilianp07/footprint/core/model"
)

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Print the local emission factor table",
	Args:  cobra.NoArgs,
	RunE:  printFactors,
}

func init() {
	rootCmd.AddCommand(factorsCmd)
}

func printFactors(cmd *cobra.Command, args []string) error {
	tbl := factors.Default()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tVARIANT\tKG CO2E PER UNIT")
	for _, cat := range model.Categories() {
		for _, v := range tbl.Variants(cat) {
			f, err := tbl.Factor(cat, v)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%g\n", cat, v, f)
		}
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "WASTE STREAM\tLEVEL\tKG PER WEEK")
	for _, s := range model.WasteStreams() {
		for _, l := range []model.WasteLevel{model.WasteNone, model.WasteLow, model.WasteMedium, model.WasteHigh} {
			kg, err := tbl.Bin(s, l)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%g\n", s, l, kg)
		}
	}
	return tw.Flush()
}
