package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wealth-planner/domain"
)

var (
	flagKey   string
	flagValue float64
	flagTotal float64
)

var redistributeCmd = &cobra.Command{
	Use:   "redistribute",
	Short: "Set one allocation and rebalance the others to keep the total",
	RunE:  runRedistribute,
}

func init() {
	redistributeCmd.Flags().StringVarP(&flagScenarioFile, "file", "f", "", "Scenario TOML file")
	redistributeCmd.Flags().StringVar(&flagKey, "key", "", "Allocation category to change")
	redistributeCmd.Flags().Float64Var(&flagValue, "value", 0, "New amount for the category")
	redistributeCmd.Flags().Float64Var(&flagTotal, "total", 0, "Total to conserve (defaults to deployable capital)")
	_ = redistributeCmd.MarkFlagRequired("file")
	_ = redistributeCmd.MarkFlagRequired("key")
	_ = redistributeCmd.MarkFlagRequired("value")
	rootCmd.AddCommand(redistributeCmd)
}

func runRedistribute(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	file, err := loadScenarioFile(flagScenarioFile)
	if err != nil {
		return err
	}

	total := file.deployable()
	if cmd.Flags().Changed("total") {
		total = flagTotal
	}

	result, err := newLocalPlanner(cfg, log).Redistribute(domain.RedistributeInput{
		Allocations: file.Allocations,
		ChangedKey:  flagKey,
		NewValue:    flagValue,
		Total:       total,
	})
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(result)
	}

	fmt.Println()
	fmt.Println(renderTitle(fmt.Sprintf("ALLOCATIONS  Total %s", formatMoney(result.Total))))
	fmt.Println()
	fmt.Print(renderTable(table{
		Headers: []string{"Category", "Amount", "Share"},
		Rows:    allocationRows(result.Allocations),
	}))
	fmt.Println()
	return nil
}
