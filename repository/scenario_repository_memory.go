package repository

import (
	"context"
	"sort"
	"sync"

	"wealth-planner/domain"
)

// ScenarioRepositoryMemory is an in-memory implementation of ScenarioRepository.
type ScenarioRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.Scenario
}

// NewScenarioRepositoryMemory creates a new in-memory scenario repository.
func NewScenarioRepositoryMemory() *ScenarioRepositoryMemory {
	return &ScenarioRepositoryMemory{
		data: make(map[string]domain.Scenario),
	}
}

func (r *ScenarioRepositoryMemory) Save(_ context.Context, scenario domain.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scenario.Loans = append([]domain.Loan(nil), scenario.Loans...)
	scenario.Allocations = scenario.Allocations.Clone()
	if scenario.Months != nil {
		months := *scenario.Months
		scenario.Months = &months
	}
	if scenario.AnnualReturnRate != nil {
		rate := *scenario.AnnualReturnRate
		scenario.AnnualReturnRate = &rate
	}
	r.data[scenario.ID] = scenario
	return nil
}

func (r *ScenarioRepositoryMemory) Get(_ context.Context, id string) (domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scenario, ok := r.data[id]
	if !ok {
		return domain.Scenario{}, ErrScenarioNotFound
	}
	return scenario, nil
}

func (r *ScenarioRepositoryMemory) List(_ context.Context) ([]domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Scenario, 0, len(r.data))
	for _, s := range r.data {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *ScenarioRepositoryMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrScenarioNotFound
	}
	delete(r.data, id)
	return nil
}
