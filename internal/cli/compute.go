package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wagesheet/internal/domain/wages"
)

func newComputeCommand(root *rootOptions) *cobra.Command {
	var (
		raw    wages.RawInput
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute one wage record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, err := root.calculator()
			if err != nil {
				return err
			}
			record, err := calc.ComputeRaw(raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(record)
			}
			return printRecord(out, record)
		},
	}
	cmd.Flags().StringVar(&raw.Name, "name", "", "employee name")
	cmd.Flags().StringVar(&raw.GrossPay, "gross", "", "monthly gross pay")
	cmd.Flags().StringVar(&raw.DaysWorked, "days", "", "days worked in the period")
	cmd.Flags().StringVar(&raw.Advance, "advance", "", "cash advance to deduct")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	return cmd
}

func printRecord(w io.Writer, record wages.Record) error {
	for i, cell := range record.Display.Cells() {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", wages.Columns[i]+":", cell); err != nil {
			return err
		}
	}
	for _, warning := range record.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
