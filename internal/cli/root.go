package cli

import (
	"github.com/spf13/cobra"

	"wagesheet/internal/domain/wages"
)

type rootOptions struct {
	policyFile string
}

// NewRootCommand builds the wagesheet command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "wagesheet",
		Short: "Wage sheet calculator",
		Long: `Compute statutory deductions (EPF, ESI, welfare) and net pay, keep a wage sheet
and export it as a workbook, PDF or print view.

Examples:
  wagesheet serve
  wagesheet compute --name Asha --gross 30000 --days 30
  wagesheet batch wages.csv --xlsx wage_sheet.xlsx`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.policyFile, "policy", "", "YAML wage policy file (defaults to the built-in policy)")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newComputeCommand(opts))
	root.AddCommand(newBatchCommand(opts))
	return root
}

func (o *rootOptions) calculator() (*wages.Calculator, error) {
	policy, err := wages.LoadPolicy(o.policyFile)
	if err != nil {
		return nil, err
	}
	return wages.NewCalculator(policy)
}
