package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/matthallesq/modlab/internal/domain/team"
	"github.com/matthallesq/modlab/internal/repository"
)

// TeamRepository implements team.Repository
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const memberColumns = `id, team_id, name, email, avatar_url, role, created_at`

func scanMember(row rowScanner) (*team.Member, error) {
	var m team.Member
	if err := row.Scan(&m.ID, &m.TeamID, &m.Name, &m.Email, &m.AvatarURL, &m.Role, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a team with its initial members
func (r *TeamRepository) Create(ctx context.Context, tenantID string, t *team.Team) error {
	return r.db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO teams (id, tenant_id, name, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, tenantID, t.Name, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			if classified := classify(err); classified != err {
				return classified
			}
			return fmt.Errorf("failed to create team: %w", err)
		}
		for i := range t.Members {
			if err := insertMember(ctx, tx, tenantID, &t.Members[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertMember(ctx context.Context, tx *Tx, tenantID string, m *team.Member) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO team_members (id, tenant_id, team_id, name, email, avatar_url, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, tenantID, m.TeamID, m.Name, m.Email, m.AvatarURL, m.Role, m.CreatedAt)
	if err != nil {
		if classified := classify(err); classified != err {
			return classified
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// Get retrieves a team with its members
func (r *TeamRepository) Get(ctx context.Context, tenantID, id string) (*team.Team, error) {
	var t team.Team
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM teams
		WHERE id = ? AND tenant_id = ?
	`, id, tenantID).Scan(&t.ID, &t.TenantID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	members, err := r.members(ctx, `SELECT `+memberColumns+` FROM team_members WHERE tenant_id = ? AND team_id = ? ORDER BY created_at ASC, id ASC`, tenantID, id)
	if err != nil {
		return nil, err
	}
	t.Members = members[id]
	if t.Members == nil {
		t.Members = []team.Member{}
	}
	return &t, nil
}

// List returns the tenant's teams with members
func (r *TeamRepository) List(ctx context.Context, tenantID string) ([]team.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, created_at, updated_at
		FROM teams
		WHERE tenant_id = ?
		ORDER BY created_at ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	teams := []team.Team{}
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	rows.Close()

	members, err := r.members(ctx, `SELECT `+memberColumns+` FROM team_members WHERE tenant_id = ? ORDER BY created_at ASC, id ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].Members = members[teams[i].ID]
		if teams[i].Members == nil {
			teams[i].Members = []team.Member{}
		}
	}
	return teams, nil
}

func (r *TeamRepository) members(ctx context.Context, query string, args ...any) (map[string][]team.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	byTeam := make(map[string][]team.Member)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		byTeam[m.TeamID] = append(byTeam[m.TeamID], *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team member rows: %w", err)
	}
	return byTeam, nil
}

// Rename changes a team's name
func (r *TeamRepository) Rename(ctx context.Context, tenantID, id, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, updated_at = ? WHERE id = ? AND tenant_id = ?`,
		name, time.Now().UTC(), id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename team: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a team and its members; projects keep existing without a team
func (r *TeamRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return requireAffected(result)
}

// AddMember inserts a member into an existing team
func (r *TeamRepository) AddMember(ctx context.Context, tenantID string, m *team.Member) error {
	return r.db.WithTx(ctx, func(tx *Tx) error {
		return insertMember(ctx, tx, tenantID, m)
	})
}

// GetMember retrieves a single member
func (r *TeamRepository) GetMember(ctx context.Context, tenantID, id string) (*team.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM team_members WHERE id = ? AND tenant_id = ?`, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	return m, nil
}

// UpdateMemberRole changes a member's role
func (r *TeamRepository) UpdateMemberRole(ctx context.Context, tenantID, id string, role team.Role) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE team_members SET role = ? WHERE id = ? AND tenant_id = ?`, role, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update team member: %w", err)
	}
	return requireAffected(result)
}

// RemoveMember deletes a member
func (r *TeamRepository) RemoveMember(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
