package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/experiment"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// ExperimentRepository implements experiment.Repository
type ExperimentRepository struct {
	db *DB
}

// NewExperimentRepository creates a new ExperimentRepository
func NewExperimentRepository(db *DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

const experimentColumns = `
	id, tenant_id, project_id, title, hypothesis, test_description, success_criteria,
	status, priority, results, due_date, assignees, version, created_at, updated_at
`

func scanExperiment(row rowScanner) (*experiment.Experiment, error) {
	var exp experiment.Experiment
	var results sql.NullString
	var dueDate sql.NullTime
	var assignees string
	err := row.Scan(
		&exp.ID,
		&exp.TenantID,
		&exp.ProjectID,
		&exp.Title,
		&exp.Hypothesis,
		&exp.TestDescription,
		&exp.SuccessCriteria,
		&exp.Status,
		&exp.Priority,
		&results,
		&dueDate,
		&assignees,
		&exp.Version,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if results.Valid {
		exp.Results = &results.String
	}
	if dueDate.Valid {
		exp.DueDate = &dueDate.Time
	}
	if exp.Assignees, err = decodeList(assignees); err != nil {
		return nil, err
	}
	return &exp, nil
}

// Create inserts an experiment and its creation event
func (r *ExperimentRepository) Create(ctx context.Context, tenantID string, exp *experiment.Experiment, evt *timeline.Event) error {
	assignees, err := encodeList(exp.Assignees)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO experiments (
				id, tenant_id, project_id, title, hypothesis, test_description, success_criteria,
				status, priority, results, due_date, assignees, version, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			exp.ID,
			tenantID,
			exp.ProjectID,
			exp.Title,
			exp.Hypothesis,
			exp.TestDescription,
			exp.SuccessCriteria,
			exp.Status,
			exp.Priority,
			exp.Results,
			exp.DueDate,
			assignees,
			exp.Version,
			exp.CreatedAt,
			exp.UpdatedAt,
		)
		if err != nil {
			if classified := classify(err); classified != err {
				return classified
			}
			return fmt.Errorf("failed to create experiment: %w", err)
		}
		return logEvent(ctx, tx, tenantID, evt)
	})
}

// Get retrieves an experiment by ID
func (r *ExperimentRepository) Get(ctx context.Context, tenantID, id string) (*experiment.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE id = ? AND tenant_id = ?`
	exp, err := scanExperiment(r.db.QueryRowContext(ctx, query, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}
	return exp, nil
}

// List returns a project's experiments in creation order
func (r *ExperimentRepository) List(ctx context.Context, tenantID string, opts experiment.ListOptions) ([]experiment.Experiment, error) {
	query := `SELECT ` + experimentColumns + ` FROM experiments WHERE tenant_id = ? AND project_id = ?`
	args := []any{tenantID, opts.ProjectID}
	if opts.Status != nil {
		query += " AND status = ?"
		args = append(args, *opts.Status)
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	exps := []experiment.Experiment{}
	for rows.Next() {
		exp, err := scanExperiment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		exps = append(exps, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experiment rows: %w", err)
	}
	return exps, nil
}

// Count returns the number of experiments in a project
func (r *ExperimentRepository) Count(ctx context.Context, tenantID, projectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM experiments WHERE tenant_id = ? AND project_id = ?`,
		tenantID, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count experiments: %w", err)
	}
	return count, nil
}

// Update writes an experiment if its stored version equals expectedVersion
func (r *ExperimentRepository) Update(ctx context.Context, tenantID string, exp *experiment.Experiment, expectedVersion int64, evt *timeline.Event) error {
	assignees, err := encodeList(exp.Assignees)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE experiments
			SET title = ?, hypothesis = ?, test_description = ?, success_criteria = ?,
				status = ?, priority = ?, results = ?, due_date = ?, assignees = ?,
				version = ?, updated_at = ?
			WHERE id = ? AND tenant_id = ? AND version = ?
		`,
			exp.Title,
			exp.Hypothesis,
			exp.TestDescription,
			exp.SuccessCriteria,
			exp.Status,
			exp.Priority,
			exp.Results,
			exp.DueDate,
			assignees,
			exp.Version,
			exp.UpdatedAt,
			exp.ID,
			tenantID,
			expectedVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to update experiment: %w", err)
		}
		if err := versionedResult(ctx, tx, result, "experiments", tenantID, exp.ID); err != nil {
			return err
		}
		return logEvent(ctx, tx, tenantID, evt)
	})
}

// Delete removes an experiment; linked insights keep their text but lose the link
func (r *ExperimentRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM experiments WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ProjectExists reports whether the tenant owns projectID
func (r *ExperimentRepository) ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error) {
	return r.db.rowExists(ctx, "projects", tenantID, projectID)
}
