package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagHorizon int

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare payoff strategies against minimum payments only",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&flagScenarioFile, "file", "f", "", "Scenario TOML file")
	compareCmd.Flags().IntVar(&flagHorizon, "horizon", 0, "Horizon in months (defaults to the configured strategy horizon)")
	_ = compareCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	file, err := loadScenarioFile(flagScenarioFile)
	if err != nil {
		return err
	}

	comparison, err := newLocalPlanner(cfg, log).Compare(cmd.Context(), file.strategyInput(flagHorizon))
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(comparison)
	}

	fmt.Println()
	fmt.Println(renderTitle(fmt.Sprintf("STRATEGIES  %d months", comparison.Horizon)))
	fmt.Println()
	fmt.Print(renderTable(table{
		Headers: []string{"Strategy", "Debt Free", "Interest", "Saved", "Months Saved", "Net Worth"},
		Rows:    comparisonRows(comparison),
	}))
	fmt.Println()
	return nil
}
