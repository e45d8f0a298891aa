package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wagesheet/internal/domain/wages"
	"wagesheet/internal/export"
)

type batchOptions struct {
	xlsxPath  string
	pdfPath   string
	printPath string
}

func newBatchCommand(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Compute a wage sheet from a CSV file",
		Long: `Read rows of name,gross_pay,days_worked[,advance] and compute each one.
Rejected rows are reported by line number; valid rows are still exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := root.calculator()
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			raws, err := wages.ReadBatch(file)
			if err != nil {
				return err
			}
			result, err := calc.ComputeBatch(raws)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, rejected := range result.Rejected {
				for _, issue := range rejected.Issues {
					fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %s %s\n", rejected.Line, issue.Field, issue.Reason)
				}
			}
			totals := wages.Sum(result.Records)
			fmt.Fprintf(out, "computed %d of %d rows, net pay %s\n",
				len(result.Records), len(raws), calc.FormatMoney(totals.NetPay))

			return opts.write(result.Records, time.Now())
		},
	}
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "write the wage sheet workbook to this path")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "write the wage sheet PDF to this path")
	cmd.Flags().StringVar(&opts.printPath, "print", "", "write the print view HTML to this path")
	return cmd
}

func (o *batchOptions) write(records []wages.Record, now time.Time) error {
	if err := writeFile(o.xlsxPath, func(w io.Writer) error { return export.WriteXLSX(w, records) }); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	if err := writeFile(o.pdfPath, func(w io.Writer) error { return export.WritePDF(w, records, now) }); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if err := writeFile(o.printPath, func(w io.Writer) error { return export.RenderPrint(w, records) }); err != nil {
		return fmt.Errorf("write print view: %w", err)
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
