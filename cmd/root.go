package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wealth-planner/config"
	"wealth-planner/logger"
	"wealth-planner/repository"
	"wealth-planner/service"
)

var (
	flagConfig   string
	flagLogLevel string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:          "wealth-planner",
	Short:        "Debt payoff and wealth projection planner",
	Long:         "Project month by month how extra payments and investments move your debt, savings and net worth.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "config.toml", "Path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print results as JSON")
}

// loadConfig reads the config file and environment and builds the logger.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cfg, log, nil
}

func plannerConfig(cfg *config.Config) service.PlannerConfig {
	return service.PlannerConfig{
		DefaultMonths:    cfg.Simulation.DefaultMonths,
		AnnualReturnRate: cfg.Simulation.AnnualReturnRate,
		StrategyHorizon:  cfg.Simulation.StrategyHorizon,
		CashReturnRate:   cfg.Simulation.CashReturnRate,
		CacheTTL:         cfg.Cache.TTL.Duration,
	}
}

// newLocalPlanner builds an in-process planner for one-shot commands.
func newLocalPlanner(cfg *config.Config, log zerolog.Logger) *service.PlannerService {
	return service.NewPlannerService(
		service.NewLoanService(log),
		repository.NewMemoryCache(),
		repository.NewScenarioRepositoryMemory(),
		plannerConfig(cfg),
		log,
	)
}
