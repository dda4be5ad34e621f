package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagScenarioFile string
	flagMonths       int
	flagReturn       float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project debt, investments and net worth for a scenario file",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&flagScenarioFile, "file", "f", "", "Scenario TOML file")
	simulateCmd.Flags().IntVar(&flagMonths, "months", 0, "Override the projection horizon in months")
	simulateCmd.Flags().Float64Var(&flagReturn, "return", 0, "Override the annual return rate (0.10 = 10%)")
	_ = simulateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(simulateCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	file, err := loadScenarioFile(flagScenarioFile)
	if err != nil {
		return err
	}

	input := file.simulationInput()
	if cmd.Flags().Changed("months") {
		input.Months = &flagMonths
	}
	if cmd.Flags().Changed("return") {
		input.AnnualReturnRate = &flagReturn
	}

	result, err := newLocalPlanner(cfg, log).Simulate(cmd.Context(), input)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(result)
	}

	title := "PROJECTION"
	if file.Name != "" {
		title = "PROJECTION  " + file.Name
	}
	fmt.Println()
	fmt.Println(renderTitle(title))
	fmt.Println()

	if result.Len() == 0 {
		fmt.Println("  Nothing to project.")
		return nil
	}

	fmt.Print(renderTable(table{
		Headers: []string{"Month", "Debt", "Invested", "Net Worth"},
		Rows:    projectionRows(result),
	}))

	debt, _, netWorth := result.Final()
	fmt.Println()
	if month, ok := result.DebtFreeMonth(); ok {
		fmt.Printf("  Debt free in month %s\n", goodStyle.Render(fmt.Sprint(month)))
	} else {
		fmt.Printf("  Debt remaining after %d months: %s\n", result.Len(), badStyle.Render(formatMoney(debt)))
	}
	fmt.Printf("  Final net worth: %s\n\n", formatSigned(netWorth))
	return nil
}
