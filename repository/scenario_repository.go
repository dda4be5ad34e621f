package repository

import (
	"context"
	"errors"

	"wealth-planner/domain"
)

var ErrScenarioNotFound = errors.New("scenario not found")

// ScenarioRepository persists saved projections. Save inserts or replaces
// by ID; List returns the most recently updated first.
type ScenarioRepository interface {
	Save(ctx context.Context, scenario domain.Scenario) error
	Get(ctx context.Context, id string) (domain.Scenario, error)
	List(ctx context.Context) ([]domain.Scenario, error)
	Delete(ctx context.Context, id string) error
}
