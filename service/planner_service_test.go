package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-planner/domain"
	"wealth-planner/repository"
)

type MockCache struct {
	GetCalls   int
	SetCalls   int
	ForceError bool
	data       map[string]string
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.GetCalls++
	v, ok := m.data[key]
	return v, ok
}

func (m *MockCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.SetCalls++
	if m.ForceError {
		return errors.New("cache unavailable")
	}
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

func newTestPlanner(cache repository.CacheRepository) *PlannerService {
	planner := NewPlannerService(
		NewLoanService(zerolog.Nop()),
		cache,
		repository.NewScenarioRepositoryMemory(),
		DefaultPlannerConfig(),
		zerolog.Nop(),
	)
	planner.newID = func() string { return "scenario-1" }
	return planner
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleSimulationInput() domain.SimulationInput {
	return domain.SimulationInput{
		Loans:       []domain.Loan{{Name: "Car Loan", Principal: 500000, EMI: 15000, ROI: 9}},
		Allocations: domain.AllocationSet{"Extra Debt Payment": 5000, "Investments": 2000},
	}
}

func TestPlannerSimulate_AppliesDefaults(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())

	result, err := planner.Simulate(context.Background(), sampleSimulationInput())

	require.NoError(t, err)
	assert.Equal(t, DefaultMonths, result.Len())
	assert.Equal(t, Simulate(sampleSimulationInput().Loans, sampleSimulationInput().Allocations, 60, 0.10), result)
}

func TestPlannerSimulate_ExplicitZeroMonths(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())
	input := sampleSimulationInput()
	input.Months = intPtr(0)

	result, err := planner.Simulate(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestPlannerSimulate_UsesCache(t *testing.T) {
	cache := &MockCache{}
	planner := newTestPlanner(cache)
	input := sampleSimulationInput()
	input.Months = intPtr(12)

	first, err := planner.Simulate(context.Background(), input)
	require.NoError(t, err)
	second, err := planner.Simulate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, cache.GetCalls)
	assert.Equal(t, 1, cache.SetCalls)
}

func TestPlannerSimulate_DifferentRateMisses(t *testing.T) {
	cache := &MockCache{}
	planner := newTestPlanner(cache)
	input := sampleSimulationInput()

	_, err := planner.Simulate(context.Background(), input)
	require.NoError(t, err)

	input.AnnualReturnRate = floatPtr(0.05)
	_, err = planner.Simulate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.SetCalls)
}

func TestPlannerSimulate_CacheFailureIsNotFatal(t *testing.T) {
	planner := newTestPlanner(&MockCache{ForceError: true})

	_, err := planner.Simulate(context.Background(), sampleSimulationInput())

	assert.NoError(t, err)
}

func TestPlannerSimulate_Validation(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())

	testCases := []struct {
		name   string
		mutate func(*domain.SimulationInput)
		target error
	}{
		{"negative months", func(in *domain.SimulationInput) { in.Months = intPtr(-1) }, ErrInvalidHorizon},
		{"months too long", func(in *domain.SimulationInput) { in.Months = intPtr(MaxSimulationMonths + 1) }, ErrInvalidHorizon},
		{"return too high", func(in *domain.SimulationInput) { in.AnnualReturnRate = floatPtr(3) }, ErrInvalidReturnRate},
		{"negative allocation", func(in *domain.SimulationInput) { in.Allocations["Investments"] = -5 }, ErrInvalidAllocation},
		{"bad loan", func(in *domain.SimulationInput) { in.Loans[0].Principal = -1 }, ErrInvalidLoan},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := sampleSimulationInput()
			tc.mutate(&input)

			_, err := planner.Simulate(context.Background(), input)
			assert.ErrorIs(t, err, tc.target)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestPlannerSimulate_ExtraDebtCoversInterest(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())
	input := domain.SimulationInput{
		Loans:       []domain.Loan{{Name: "Personal", Principal: 100000, EMI: 500, ROI: 12}},
		Allocations: domain.AllocationSet{"Extra Debt Payment": 600},
		Months:      intPtr(12),
	}

	result, err := planner.Simulate(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 12, result.Len())
	assert.InDelta(t, 99900, result.DebtPath[0], 0.01)
	for i := 1; i < result.Len(); i++ {
		assert.LessOrEqual(t, result.DebtPath[i], result.DebtPath[i-1])
	}

	input.Allocations = domain.AllocationSet{"Extra Debt Payment": 400}
	_, err = planner.Simulate(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidLoan)
}

func TestPlannerRedistribute(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())

	out, err := planner.Redistribute(domain.RedistributeInput{
		Allocations: domain.AllocationSet{"Extra Debt Payment": 5000, "Investments": 3000, "Fun Money": 2000},
		ChangedKey:  "Fun Money",
		NewValue:    0,
		Total:       10000,
	})

	require.NoError(t, err)
	assert.InDelta(t, 10000, out.Total, epsilon)
	assert.InDelta(t, 6250, out.Allocations["Extra Debt Payment"], epsilon)
	assert.InDelta(t, 3750, out.Allocations["Investments"], epsilon)
	assert.Equal(t, 0.0, out.Allocations["Fun Money"])
}

func TestPlannerRedistribute_Validation(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())
	base := domain.AllocationSet{"A": 1, "B": 2}

	_, err := planner.Redistribute(domain.RedistributeInput{Allocations: base, ChangedKey: "C", NewValue: 1, Total: 3})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = planner.Redistribute(domain.RedistributeInput{Allocations: base, ChangedKey: "A", NewValue: 1, Total: -3})
	assert.ErrorIs(t, err, ErrInvalidTotal)
}

func TestPlannerPlan(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())

	plan, err := planner.Plan(domain.StrategyInput{
		Income:        150000,
		FixedExpenses: 60000,
		Loans:         []domain.Loan{{Name: "Car Loan", Principal: 550000, EMI: 15000, ROI: 9}},
		Strategy:      domain.StrategyWealthBuilder,
	})

	require.NoError(t, err)
	assert.Equal(t, 75000.0, plan.DeployableCapital)
	assert.Equal(t, 15000.0, plan.TotalEMI)
	assert.Equal(t, 52500.0, plan.Allocations["Investments"])
	assert.Equal(t, 22500.0, plan.Allocations["Fun Money"])

	_, err = planner.Plan(domain.StrategyInput{Income: 1, Strategy: "YOLO"})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestPlannerCompare(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())

	cmp, err := planner.Compare(context.Background(), householdInput())

	require.NoError(t, err)
	assert.Equal(t, DefaultStrategyHorizon, cmp.Horizon)
	assert.Len(t, cmp.Strategies, 3)

	_, err = planner.Compare(context.Background(), domain.StrategyInput{Income: -1})
	assert.ErrorIs(t, err, ErrInvalidIncome)
}

func TestPlannerScenarios(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())
	ctx := context.Background()
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	planner.now = func() time.Time { return created }

	saved, err := planner.SaveScenario(ctx, domain.Scenario{
		Name:        "  Family plan ",
		Loans:       sampleSimulationInput().Loans,
		Allocations: sampleSimulationInput().Allocations,
	})
	require.NoError(t, err)
	assert.Equal(t, "scenario-1", saved.ID)
	assert.Equal(t, "Family plan", saved.Name)
	require.NotNil(t, saved.Months)
	assert.Equal(t, DefaultMonths, *saved.Months)
	require.NotNil(t, saved.AnnualReturnRate)
	assert.Equal(t, DefaultAnnualReturnRate, *saved.AnnualReturnRate)
	require.NotNil(t, saved.Result)
	assert.Equal(t, DefaultMonths, saved.Result.Len())

	planner.now = func() time.Time { return created.Add(time.Hour) }
	saved.Months = intPtr(24)
	updated, err := planner.SaveScenario(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), updated.UpdatedAt)
	assert.Equal(t, 24, updated.Result.Len())

	got, err := planner.GetScenario(ctx, "scenario-1")
	require.NoError(t, err)
	require.NotNil(t, got.Months)
	assert.Equal(t, 24, *got.Months)

	list, err := planner.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, planner.DeleteScenario(ctx, "scenario-1"))
	_, err = planner.GetScenario(ctx, "scenario-1")
	assert.ErrorIs(t, err, repository.ErrScenarioNotFound)
}

func TestPlannerSaveScenario_KeepsExplicitZeros(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())
	ctx := context.Background()

	saved, err := planner.SaveScenario(ctx, domain.Scenario{
		Name:             "No growth",
		Allocations:      domain.AllocationSet{"Investments": 1000},
		Months:           intPtr(3),
		AnnualReturnRate: floatPtr(0),
	})
	require.NoError(t, err)
	require.NotNil(t, saved.AnnualReturnRate)
	assert.Equal(t, 0.0, *saved.AnnualReturnRate)
	assert.InDeltaSlice(t, []float64{1000, 2000, 3000}, saved.Result.InvestmentPath, epsilon)

	got, err := planner.GetScenario(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AnnualReturnRate)
	assert.Equal(t, 0.0, *got.AnnualReturnRate)

	empty, err := planner.SaveScenario(ctx, domain.Scenario{
		Name:        "Empty horizon",
		Allocations: domain.AllocationSet{"Investments": 1000},
		Months:      intPtr(0),
	})
	require.NoError(t, err)
	require.NotNil(t, empty.Months)
	assert.Equal(t, 0, *empty.Months)
	assert.Equal(t, 0, empty.Result.Len())
}

func TestPlannerSaveScenario_Validation(t *testing.T) {
	planner := newTestPlanner(repository.NewMemoryCache())

	_, err := planner.SaveScenario(context.Background(), domain.Scenario{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidScenario)

	_, err = planner.SaveScenario(context.Background(), domain.Scenario{Name: "x", Strategy: "Unknown"})
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = planner.SaveScenario(context.Background(), domain.Scenario{Name: "x", Months: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}
