package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/insight"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// InsightRepository implements insight.Repository
type InsightRepository struct {
	db *DB
}

// NewInsightRepository creates a new InsightRepository
func NewInsightRepository(db *DB) *InsightRepository {
	return &InsightRepository{db: db}
}

const insightColumns = `
	id, tenant_id, project_id, experiment_id, title, type, hypothesis, observation,
	insight_text, next_steps, assignees, version, created_at, updated_at
`

func scanInsight(row rowScanner) (*insight.Insight, error) {
	var in insight.Insight
	var experimentID, typ sql.NullString
	var assignees string
	err := row.Scan(
		&in.ID,
		&in.TenantID,
		&in.ProjectID,
		&experimentID,
		&in.Title,
		&typ,
		&in.Hypothesis,
		&in.Observation,
		&in.InsightText,
		&in.NextSteps,
		&assignees,
		&in.Version,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if experimentID.Valid {
		in.ExperimentID = &experimentID.String
	}
	if typ.Valid {
		in.Type = &typ.String
	}
	if in.Assignees, err = decodeList(assignees); err != nil {
		return nil, err
	}
	return &in, nil
}

// Create inserts an insight and its creation event
func (r *InsightRepository) Create(ctx context.Context, tenantID string, in *insight.Insight, evt *timeline.Event) error {
	assignees, err := encodeList(in.Assignees)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO insights (
				id, tenant_id, project_id, experiment_id, title, type, hypothesis, observation,
				insight_text, next_steps, assignees, version, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			in.ID,
			tenantID,
			in.ProjectID,
			in.ExperimentID,
			in.Title,
			in.Type,
			in.Hypothesis,
			in.Observation,
			in.InsightText,
			in.NextSteps,
			assignees,
			in.Version,
			in.CreatedAt,
			in.UpdatedAt,
		)
		if err != nil {
			if classified := classify(err); classified != err {
				return classified
			}
			return fmt.Errorf("failed to create insight: %w", err)
		}
		return logEvent(ctx, tx, tenantID, evt)
	})
}

// Get retrieves an insight by ID
func (r *InsightRepository) Get(ctx context.Context, tenantID, id string) (*insight.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights WHERE id = ? AND tenant_id = ?`
	in, err := scanInsight(r.db.QueryRowContext(ctx, query, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}
	return in, nil
}

// List returns a project's insights in creation order
func (r *InsightRepository) List(ctx context.Context, tenantID string, opts insight.ListOptions) ([]insight.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights WHERE tenant_id = ? AND project_id = ?`
	args := []any{tenantID, opts.ProjectID}
	if opts.ExperimentID != nil {
		query += " AND experiment_id = ?"
		args = append(args, *opts.ExperimentID)
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	list := []insight.Insight{}
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		list = append(list, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating insight rows: %w", err)
	}
	return list, nil
}

// Update writes an insight if its stored version equals expectedVersion
func (r *InsightRepository) Update(ctx context.Context, tenantID string, in *insight.Insight, expectedVersion int64) error {
	assignees, err := encodeList(in.Assignees)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE insights
			SET experiment_id = ?, title = ?, type = ?, hypothesis = ?, observation = ?,
				insight_text = ?, next_steps = ?, assignees = ?, version = ?, updated_at = ?
			WHERE id = ? AND tenant_id = ? AND version = ?
		`,
			in.ExperimentID,
			in.Title,
			in.Type,
			in.Hypothesis,
			in.Observation,
			in.InsightText,
			in.NextSteps,
			assignees,
			in.Version,
			in.UpdatedAt,
			in.ID,
			tenantID,
			expectedVersion,
		)
		if err != nil {
			if classified := classify(err); classified != err {
				return classified
			}
			return fmt.Errorf("failed to update insight: %w", err)
		}
		return versionedResult(ctx, tx, result, "insights", tenantID, in.ID)
	})
}

// Delete removes an insight
func (r *InsightRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM insights WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
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
func (r *InsightRepository) ProjectExists(ctx context.Context, tenantID, projectID string) (bool, error) {
	return r.db.rowExists(ctx, "projects", tenantID, projectID)
}

// ExperimentProject returns the project an experiment belongs to
func (r *InsightRepository) ExperimentProject(ctx context.Context, tenantID, experimentID string) (string, error) {
	var projectID string
	err := r.db.QueryRowContext(ctx,
		`SELECT project_id FROM experiments WHERE id = ? AND tenant_id = ?`,
		experimentID, tenantID,
	).Scan(&projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get experiment project: %w", err)
	}
	return projectID, nil
}
