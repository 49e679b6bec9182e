package repository

import (
	"context"

	"github.com/smarttask/smarttask/internal/database"
	"github.com/smarttask/smarttask/internal/models"
)

type WorkspaceRepository struct {
	db *database.DB
}

func NewWorkspaceRepository(db *database.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create inserts the workspace and enrolls the owner as its first member.
func (r *WorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO workspace (owner_id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING workspace_id, created_at`,
		ws.OwnerID, ws.Name, ws.Description,
	).Scan(&ws.WorkspaceID, &ws.CreatedAt)
	if err != nil {
		return err
	}

	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO workspace_member (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (workspace_id, user_id) DO NOTHING`,
		ws.WorkspaceID, ws.OwnerID, models.RoleOwner,
	)
	return err
}

func (r *WorkspaceRepository) GetByID(ctx context.Context, workspaceID int) (*models.Workspace, error) {
	ws := &models.Workspace{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT workspace_id, owner_id, name, description, created_at
		 FROM workspace WHERE workspace_id = $1`,
		workspaceID,
	).Scan(&ws.WorkspaceID, &ws.OwnerID, &ws.Name, &ws.Description, &ws.CreatedAt)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// GetForUser returns workspaces the user is a member of.
func (r *WorkspaceRepository) GetForUser(ctx context.Context, userID int64) ([]*models.Workspace, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT w.workspace_id, w.owner_id, w.name, w.description, w.created_at
		 FROM workspace w
		 JOIN workspace_member m ON m.workspace_id = w.workspace_id
		 WHERE m.user_id = $1 ORDER BY w.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		ws := &models.Workspace{}
		if err := rows.Scan(&ws.WorkspaceID, &ws.OwnerID, &ws.Name,
			&ws.Description, &ws.CreatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, nil
}

func (r *WorkspaceRepository) GetMember(ctx context.Context, workspaceID int, userID int64) (*models.Member, error) {
	m := &models.Member{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT m.workspace_id, m.user_id, u.user_name, m.role, m.added_at
		 FROM workspace_member m
		 JOIN "user" u ON u.user_id = m.user_id
		 WHERE m.workspace_id = $1 AND m.user_id = $2`,
		workspaceID, userID,
	).Scan(&m.WorkspaceID, &m.UserID, &m.UserName, &m.Role, &m.AddedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *WorkspaceRepository) GetMembers(ctx context.Context, workspaceID int) ([]*models.Member, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT m.workspace_id, m.user_id, u.user_name, m.role, m.added_at
		 FROM workspace_member m
		 JOIN "user" u ON u.user_id = m.user_id
		 WHERE m.workspace_id = $1
		 ORDER BY m.added_at ASC`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &m.UserName, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (r *WorkspaceRepository) AddMember(ctx context.Context, workspaceID int, userID int64, role string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO workspace_member (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role`,
		workspaceID, userID, role,
	)
	return err
}

func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID int, userID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM workspace_member WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	)
	return err
}

func (r *WorkspaceRepository) Delete(ctx context.Context, workspaceID int, ownerID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM workspace WHERE workspace_id = $1 AND owner_id = $2`,
		workspaceID, ownerID,
	)
	return err
}
