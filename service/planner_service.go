package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wealth-planner/domain"
	"wealth-planner/repository"
)

// PlannerConfig holds the defaults applied to incoming requests.
type PlannerConfig struct {
	DefaultMonths    int
	AnnualReturnRate float64
	StrategyHorizon  int
	CashReturnRate   float64
	CacheTTL         time.Duration
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		DefaultMonths:    DefaultMonths,
		AnnualReturnRate: DefaultAnnualReturnRate,
		StrategyHorizon:  DefaultStrategyHorizon,
		CashReturnRate:   DefaultCashReturnRate,
		CacheTTL:         10 * time.Minute,
	}
}

// PlannerService owns the request-facing side of the planner: it validates
// input, applies defaults, caches projections and manages saved scenarios.
// The projection itself is delegated to Simulate and Redistribute.
type PlannerService struct {
	loans     *LoanService
	cache     repository.CacheRepository
	scenarios repository.ScenarioRepository
	cfg       PlannerConfig
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func NewPlannerService(
	loans *LoanService,
	cache repository.CacheRepository,
	scenarios repository.ScenarioRepository,
	cfg PlannerConfig,
	log zerolog.Logger,
) *PlannerService {
	return &PlannerService{
		loans:     loans,
		cache:     cache,
		scenarios: scenarios,
		cfg:       cfg,
		log:       log.With().Str("service", "planner").Logger(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// resolve applies defaults and validates a simulation request.
func (s *PlannerService) resolve(input domain.SimulationInput) (int, float64, error) {
	months := s.cfg.DefaultMonths
	if input.Months != nil {
		months = *input.Months
	}
	if months < 0 || months > MaxSimulationMonths {
		return 0, 0, fmt.Errorf("%w: months must be between 0 and %d", ErrInvalidHorizon, MaxSimulationMonths)
	}

	rate := s.cfg.AnnualReturnRate
	if input.AnnualReturnRate != nil {
		rate = *input.AnnualReturnRate
	}
	if math.IsNaN(rate) || rate < MinAnnualReturnRate || rate > MaxAnnualReturnRate {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidReturnRate, rate)
	}

	if err := validateAllocations(input.Allocations); err != nil {
		return 0, 0, err
	}
	if err := s.loans.ValidateDebtBudget(input.Loans, input.Allocations.Get(domain.CategoryExtraDebt)); err != nil {
		return 0, 0, err
	}
	return months, rate, nil
}

func validateAllocations(allocations domain.AllocationSet) error {
	if len(allocations) > MaxAllocationKeys {
		return fmt.Errorf("%w: at most %d categories", ErrInvalidAllocation, MaxAllocationKeys)
	}
	for k, v := range allocations {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: empty category name", ErrInvalidAllocation)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative amount", ErrInvalidAllocation, k)
		}
	}
	return nil
}

// Simulate validates the request and returns the projection, serving
// repeated requests from the cache.
func (s *PlannerService) Simulate(ctx context.Context, input domain.SimulationInput) (domain.SimulationResult, error) {
	months, rate, err := s.resolve(input)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	key, err := simulationKey(input.Loans, input.Allocations, months, rate)
	if err != nil {
		return domain.SimulationResult{}, fmt.Errorf("fingerprint simulation: %w", err)
	}

	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.SimulationResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			s.log.Debug().Str("key", key).Msg("Simulation served from cache")
			return result, nil
		}
		s.log.Warn().Str("key", key).Msg("Discarding unreadable cache entry")
	}

	result := Simulate(input.Loans, input.Allocations, months, rate)

	// Guardar en caché (no crítico si falla)
	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), s.cfg.CacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache simulation")
		}
	}

	s.log.Info().
		Int("loans", len(input.Loans)).
		Int("months", months).
		Float64("annual_return_rate", rate).
		Msg("Simulation complete")

	return result, nil
}

func simulationKey(loans []domain.Loan, allocations domain.AllocationSet, months int, rate float64) (string, error) {
	payload, err := json.Marshal(struct {
		Loans            []domain.Loan        `json:"loans"`
		Allocations      domain.AllocationSet `json:"allocations"`
		Months           int                  `json:"months"`
		AnnualReturnRate float64              `json:"annual_return_rate"`
	}{loans, allocations, months, rate})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return "sim:" + hex.EncodeToString(sum[:]), nil
}

// Redistribute validates an allocation edit and rebalances the set.
func (s *PlannerService) Redistribute(input domain.RedistributeInput) (domain.RedistributeResult, error) {
	if err := validateAllocations(input.Allocations); err != nil {
		return domain.RedistributeResult{}, err
	}
	if !input.Allocations.Has(input.ChangedKey) {
		return domain.RedistributeResult{}, fmt.Errorf("%w: %q", ErrUnknownCategory, input.ChangedKey)
	}
	if input.Total < 0 || math.IsNaN(input.Total) || math.IsInf(input.Total, 0) {
		return domain.RedistributeResult{}, fmt.Errorf("%w: %v", ErrInvalidTotal, input.Total)
	}
	if math.IsNaN(input.NewValue) {
		return domain.RedistributeResult{}, fmt.Errorf("%w: new value is not a number", ErrInvalidAllocation)
	}

	out := Redistribute(input.Allocations, input.ChangedKey, input.NewValue, input.Total)
	return domain.RedistributeResult{Allocations: out, Total: out.Sum()}, nil
}

func (s *PlannerService) validateHousehold(input domain.StrategyInput) error {
	if input.Income < 0 || input.FixedExpenses < 0 {
		return fmt.Errorf("%w: income and fixed expenses must be non-negative", ErrInvalidIncome)
	}
	if input.Horizon < 0 || input.Horizon > MaxSimulationMonths {
		return fmt.Errorf("%w: horizon must be between 0 and %d", ErrInvalidHorizon, MaxSimulationMonths)
	}
	return s.loans.ValidateLoans(input.Loans)
}

// Compare scores the preset strategies against minimum payments only.
func (s *PlannerService) Compare(ctx context.Context, input domain.StrategyInput) (domain.StrategyComparison, error) {
	if err := s.validateHousehold(input); err != nil {
		return domain.StrategyComparison{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.StrategyComparison{}, err
	}

	horizon := input.Horizon
	if horizon == 0 {
		horizon = s.cfg.StrategyHorizon
	}

	comparison := CompareStrategies(input, horizon, s.cfg.AnnualReturnRate, s.cfg.CashReturnRate)

	s.log.Info().
		Int("loans", len(input.Loans)).
		Int("horizon", horizon).
		Msg("Strategy comparison complete")

	return comparison, nil
}

// Plan returns the deployable capital and the dashboard's starting
// allocations for the chosen strategy.
func (s *PlannerService) Plan(input domain.StrategyInput) (domain.AllocationPlan, error) {
	if err := s.validateHousehold(input); err != nil {
		return domain.AllocationPlan{}, err
	}
	strategy := input.Strategy
	if strategy == "" {
		strategy = domain.StrategyCustom
	}
	if !KnownStrategy(strategy) {
		return domain.AllocationPlan{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	deployable := DeployableCapital(input.Income, input.FixedExpenses, input.Loans)
	return domain.AllocationPlan{
		Strategy:          strategy,
		DeployableCapital: deployable,
		TotalEMI:          domain.TotalEMI(input.Loans),
		Allocations:       InitialAllocations(strategy, deployable),
	}, nil
}

// SaveScenario runs the scenario's projection and stores both. An empty ID
// creates a new scenario; an existing ID replaces it and keeps CreatedAt.
// Absent months or return rate take the defaults; explicit zeros are kept.
func (s *PlannerService) SaveScenario(ctx context.Context, scenario domain.Scenario) (domain.Scenario, error) {
	scenario.Name = strings.TrimSpace(scenario.Name)
	if scenario.Name == "" {
		return domain.Scenario{}, fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if scenario.Strategy != "" && !KnownStrategy(scenario.Strategy) {
		return domain.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, scenario.Strategy)
	}

	input := domain.SimulationInput{
		Loans:            scenario.Loans,
		Allocations:      scenario.Allocations,
		Months:           scenario.Months,
		AnnualReturnRate: scenario.AnnualReturnRate,
	}
	months, rate, err := s.resolve(input)
	if err != nil {
		return domain.Scenario{}, err
	}
	input.Months, input.AnnualReturnRate = &months, &rate

	result, err := s.Simulate(ctx, input)
	if err != nil {
		return domain.Scenario{}, err
	}
	scenario.Months, scenario.AnnualReturnRate = &months, &rate
	scenario.Result = &result

	now := s.now().UTC()
	if scenario.ID == "" {
		scenario.ID = s.newID()
		scenario.CreatedAt = now
	} else {
		existing, err := s.scenarios.Get(ctx, scenario.ID)
		switch {
		case err == nil:
			scenario.CreatedAt = existing.CreatedAt
		case errors.Is(err, repository.ErrScenarioNotFound):
			scenario.CreatedAt = now
		default:
			return domain.Scenario{}, err
		}
	}
	scenario.UpdatedAt = now

	if err := s.scenarios.Save(ctx, scenario); err != nil {
		return domain.Scenario{}, err
	}

	s.log.Info().Str("scenario_id", scenario.ID).Str("name", scenario.Name).Msg("Scenario saved")
	return scenario, nil
}

func (s *PlannerService) GetScenario(ctx context.Context, id string) (domain.Scenario, error) {
	return s.scenarios.Get(ctx, id)
}

func (s *PlannerService) ListScenarios(ctx context.Context) ([]domain.Scenario, error) {
	return s.scenarios.List(ctx)
}

func (s *PlannerService) DeleteScenario(ctx context.Context, id string) error {
	if err := s.scenarios.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("scenario_id", id).Msg("Scenario deleted")
	return nil
}
