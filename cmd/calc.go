package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/footprint/core/equivalency"
	"github.com/kilianp07/footprint/core/normalize"
	"github.com/kilianp07/footprint/core/report"
	"github.com/kilianp07/footprint/pkg/export"
)

var (
	outFormat string
	outPath   string
)

var calcCmd = &cobra.Command{
	Use:   "calc <form.yaml|form.json|->",
	Short: "Calculate the footprint of a form file",
	Args:  cobra.ExactArgs(1),
	RunE:  calculate,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the last saved calculation",
	Args:  cobra.NoArgs,
	RunE:  latest,
}

func init() {
	for _, c := range []*cobra.Command{calcCmd, latestCmd} {
		c.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json, csv or html (default text)")
		c.Flags().StringVarP(&outPath, "out", "o", "", "write the output to this file instead of stdout")
		rootCmd.AddCommand(c)
	}
}

func calculate(cmd *cobra.Command, args []string) error {
	form, err := readForm(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	rep, err := svc.Calculate(commandContext(cmd), form)
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}
	return output(cmd.OutOrStdout(), rep)
}

func latest(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	rep, found, err := svc.Latest(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("load latest: %w", err)
	}
	if !found {
		return fmt.Errorf("no calculation saved yet")
	}
	return output(cmd.OutOrStdout(), rep)
}

// readForm decodes a form from path, or from stdin when path is "-".
// Files ending in .json are decoded as JSON, anything else as YAML.
func readForm(stdin io.Reader, path string) (normalize.RawForm, error) {
	var (
		form normalize.RawForm
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return form, fmt.Errorf("read form: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &form)
	} else {
		err = yaml.Unmarshal(data, &form)
	}
	if err != nil {
		return form, fmt.Errorf("decode form %s: %w", path, err)
	}
	return form, nil
}

func output(stdout io.Writer, rep report.Report) error {
	w := stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if outFormat == "" || strings.EqualFold(outFormat, "text") {
		return writeText(w, rep)
	}
	rec := export.Record{ID: rep.ID, Timestamp: rep.Timestamp, Source: rep.Source, Results: rep.Results}
	return export.Write(w, outFormat, rec)
}

func writeText(w io.Writer, rep report.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Calculation %s (%s", rep.ID, rep.Source)
	if rep.FallbackReason != "" {
		fmt.Fprintf(&b, ", %s", rep.FallbackReason)
	}
	b.WriteString(")\n\n")
	for _, c := range []struct {
		name   string
		weekly float64
	}{
		{"Transportation", rep.Results.Transportation.WeeklyKgCO2},
		{"Energy", rep.Results.Energy.WeeklyKgCO2},
		{"Food", rep.Results.Food.WeeklyKgCO2},
		{"Waste", rep.Results.Waste.WeeklyKgCO2},
	} {
		fmt.Fprintf(&b, "  %-15s %s/week\n", c.name, equivalency.FormatKg(c.weekly))
	}
	fmt.Fprintf(&b, "  %-15s %s/week, %s/year\n", "Total",
		equivalency.FormatKg(rep.Summary.TotalWeeklyKgCO2), equivalency.FormatKg(rep.Summary.TotalAnnualKgCO2))
	fmt.Fprintf(&b, "  Highest category: %s\n", rep.Summary.HighestCategory)
	if rep.ChangeFromLastPercent != nil {
		fmt.Fprintf(&b, "  Change since last calculation: %+.2f%%\n", *rep.ChangeFromLastPercent)
	}
	fmt.Fprintf(&b, "\n%s\n", rep.Benchmark.Message)
	if text := rep.Equivalency.Text(); text != "" {
		fmt.Fprintf(&b, "%s\n", text)
	}
	if len(rep.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, r := range rep.Recommendations {
			fmt.Fprintf(&b, "  - [%s] %s\n", r.Category, r.Text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
