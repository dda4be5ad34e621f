package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"wealth-planner/domain"
)

const scenarioSchemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    strategy           TEXT NOT NULL DEFAULT '',
    loans_json         TEXT NOT NULL,
    allocations_json   TEXT NOT NULL,
    months             INTEGER,
    annual_return_rate REAL,
    result_json        TEXT,
    created_at         TEXT NOT NULL,
    updated_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenarios_updated ON scenarios(updated_at);
`

// Fixed width so ORDER BY updated_at sorts chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteScenarioRepository stores scenarios in a SQLite database. Loans,
// allocations and results are kept as JSON columns.
type SQLiteScenarioRepository struct {
	db *sql.DB
}

// OpenSQLiteScenarioRepository opens or creates the database at dbPath.
func OpenSQLiteScenarioRepository(dbPath string) (*SQLiteScenarioRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening scenario db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(scenarioSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteScenarioRepository{db: db}, nil
}

func (r *SQLiteScenarioRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteScenarioRepository) Save(ctx context.Context, s domain.Scenario) error {
	loansJSON, err := json.Marshal(s.Loans)
	if err != nil {
		return fmt.Errorf("encoding loans: %w", err)
	}
	allocJSON, err := json.Marshal(s.Allocations)
	if err != nil {
		return fmt.Errorf("encoding allocations: %w", err)
	}
	var resultJSON sql.NullString
	if s.Result != nil {
		b, err := json.Marshal(s.Result)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		resultJSON = sql.NullString{String: string(b), Valid: true}
	}

	var months sql.NullInt64
	if s.Months != nil {
		months = sql.NullInt64{Int64: int64(*s.Months), Valid: true}
	}
	var rate sql.NullFloat64
	if s.AnnualReturnRate != nil {
		rate = sql.NullFloat64{Float64: *s.AnnualReturnRate, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, strategy, loans_json, allocations_json, months,
			annual_return_rate, result_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			strategy = excluded.strategy,
			loans_json = excluded.loans_json,
			allocations_json = excluded.allocations_json,
			months = excluded.months,
			annual_return_rate = excluded.annual_return_rate,
			result_json = excluded.result_json,
			updated_at = excluded.updated_at`,
		s.ID, s.Name, s.Strategy, string(loansJSON), string(allocJSON), months,
		rate, resultJSON,
		s.CreatedAt.UTC().Format(timestampLayout), s.UpdatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("saving scenario %s: %w", s.ID, err)
	}
	return nil
}

const scenarioColumns = `id, name, strategy, loans_json, allocations_json, months,
	annual_return_rate, result_json, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (domain.Scenario, error) {
	var (
		s                    domain.Scenario
		loansJSON, allocJSON string
		months               sql.NullInt64
		rate                 sql.NullFloat64
		resultJSON           sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Strategy, &loansJSON, &allocJSON, &months,
		&rate, &resultJSON, &createdAt, &updatedAt); err != nil {
		return domain.Scenario{}, err
	}
	if months.Valid {
		m := int(months.Int64)
		s.Months = &m
	}
	if rate.Valid {
		s.AnnualReturnRate = &rate.Float64
	}

	if err := json.Unmarshal([]byte(loansJSON), &s.Loans); err != nil {
		return domain.Scenario{}, fmt.Errorf("decoding loans: %w", err)
	}
	if err := json.Unmarshal([]byte(allocJSON), &s.Allocations); err != nil {
		return domain.Scenario{}, fmt.Errorf("decoding allocations: %w", err)
	}
	if resultJSON.Valid {
		var result domain.SimulationResult
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return domain.Scenario{}, fmt.Errorf("decoding result: %w", err)
		}
		s.Result = &result
	}

	var err error
	if s.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return domain.Scenario{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return domain.Scenario{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return s, nil
}

func (r *SQLiteScenarioRepository) Get(ctx context.Context, id string) (domain.Scenario, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+scenarioColumns+" FROM scenarios WHERE id = ?", id)
	s, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scenario{}, ErrScenarioNotFound
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("loading scenario %s: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteScenarioRepository) List(ctx context.Context) ([]domain.Scenario, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+scenarioColumns+" FROM scenarios ORDER BY updated_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Scenario{}
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteScenarioRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting scenario %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScenarioNotFound
	}
	return nil
}
