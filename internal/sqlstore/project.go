package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matthallesq/modlab/internal/domain/canvas"
	"github.com/matthallesq/modlab/internal/domain/project"
	"github.com/matthallesq/modlab/internal/domain/timeline"
	"github.com/matthallesq/modlab/internal/repository"
)

// ProjectRepository implements project.Repository
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	p.id, p.tenant_id, p.owner_id, p.name, p.description, p.team_id, p.model_type,
	p.archived, p.version, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM experiments e WHERE e.project_id = p.id AND e.tenant_id = p.tenant_id),
	(SELECT COUNT(*) FROM experiments e WHERE e.project_id = p.id AND e.tenant_id = p.tenant_id AND e.status = 'running'),
	(SELECT COUNT(*) FROM experiments e WHERE e.project_id = p.id AND e.tenant_id = p.tenant_id AND e.status = 'completed'),
	(SELECT COUNT(*) FROM insights i WHERE i.project_id = p.id AND i.tenant_id = p.tenant_id)
`

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var teamID, modelType sql.NullString
	err := row.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.OwnerID,
		&proj.Name,
		&proj.Description,
		&teamID,
		&modelType,
		&proj.Archived,
		&proj.Version,
		&proj.CreatedAt,
		&proj.UpdatedAt,
		&proj.Analytics.Experiments,
		&proj.Analytics.RunningExperiments,
		&proj.Analytics.CompletedExperiments,
		&proj.Analytics.Insights,
	)
	if err != nil {
		return nil, err
	}
	if teamID.Valid {
		proj.TeamID = &teamID.String
	}
	if modelType.Valid {
		mt := canvas.Type(modelType.String)
		proj.ModelType = &mt
	}
	return &proj, nil
}

// Create inserts a project and its creation event
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project, evt *timeline.Event) error {
	return r.db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, tenant_id, owner_id, name, description, team_id, model_type, archived, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			proj.ID,
			tenantID,
			proj.OwnerID,
			proj.Name,
			proj.Description,
			proj.TeamID,
			proj.ModelType,
			proj.Archived,
			proj.Version,
			proj.CreatedAt,
			proj.UpdatedAt,
		)
		if err != nil {
			if classified := classify(err); classified != err {
				return classified
			}
			return fmt.Errorf("failed to create project: %w", err)
		}
		return logEvent(ctx, tx, tenantID, evt)
	})
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = ? AND p.tenant_id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// List returns projects for a tenant, newest first
func (r *ProjectRepository) List(ctx context.Context, tenantID string, opts project.ListOptions) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.tenant_id = ?`
	args := []any{tenantID}
	if !opts.IncludeArchived {
		query += " AND p.archived = ?"
		args = append(args, false)
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// Count returns how many projects the tenant owns, archived included
func (r *ProjectRepository) Count(ctx context.Context, tenantID string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE tenant_id = ?`, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// Update writes a project if its stored version equals expectedVersion
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project, expectedVersion int64, evt *timeline.Event) error {
	return r.db.WithTx(ctx, func(tx *Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET name = ?, description = ?, team_id = ?, model_type = ?, archived = ?, version = ?, updated_at = ?
			WHERE id = ? AND tenant_id = ? AND version = ?
		`,
			proj.Name,
			proj.Description,
			proj.TeamID,
			proj.ModelType,
			proj.Archived,
			proj.Version,
			proj.UpdatedAt,
			proj.ID,
			tenantID,
			expectedVersion,
		)
		if err != nil {
			if classified := classify(err); classified != err {
				return classified
			}
			return fmt.Errorf("failed to update project: %w", err)
		}
		if err := versionedResult(ctx, tx, result, "projects", tenantID, proj.ID); err != nil {
			return err
		}
		return logEvent(ctx, tx, tenantID, evt)
	})
}

// Delete removes a project; experiments, insights and canvases cascade
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithTx(ctx, func(tx *Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND tenant_id = ?`, id, tenantID)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM timeline_events WHERE project_id = ? AND tenant_id = ?`, id, tenantID); err != nil {
			return fmt.Errorf("failed to delete project timeline: %w", err)
		}
		return nil
	})
}

// TeamExists reports whether the tenant owns teamID
func (r *ProjectRepository) TeamExists(ctx context.Context, tenantID, teamID string) (bool, error) {
	return r.db.rowExists(ctx, "teams", tenantID, teamID)
}

// versionedResult distinguishes a missing row from a stale version after a
// guarded UPDATE touched nothing.
func versionedResult(ctx context.Context, tx *Tx, result sql.Result, table, tenantID, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}
	var count int
	query := "SELECT COUNT(*) FROM " + table + " WHERE id = ? AND tenant_id = ?"
	if err := tx.QueryRowContext(ctx, query, id, tenantID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check %s: %w", table, err)
	}
	if count == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}
