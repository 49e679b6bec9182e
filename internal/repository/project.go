package repository

import (
	"context"

	"github.com/smarttask/smarttask/internal/database"
	"github.com/smarttask/smarttask/internal/models"
)

type ProjectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO project (workspace_id, name, description, color)
		 VALUES ($1, $2, $3, $4)
		 RETURNING project_id, created_at`,
		project.WorkspaceID, project.Name, project.Description, project.Color,
	).Scan(&project.ProjectID, &project.CreatedAt)
}

func (r *ProjectRepository) GetByID(ctx context.Context, projectID int) (*models.Project, error) {
	project := &models.Project{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT project_id, workspace_id, name, description, color, created_at
		 FROM project WHERE project_id = $1`,
		projectID,
	).Scan(&project.ProjectID, &project.WorkspaceID, &project.Name,
		&project.Description, &project.Color, &project.CreatedAt)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) GetByWorkspace(ctx context.Context, workspaceID int) ([]*models.Project, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT project_id, workspace_id, name, description, color, created_at
		 FROM project WHERE workspace_id = $1 ORDER BY name ASC`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ProjectID, &project.WorkspaceID, &project.Name,
			&project.Description, &project.Color, &project.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// GetForUser returns every project in a workspace the user belongs to.
func (r *ProjectRepository) GetForUser(ctx context.Context, userID int64) ([]*models.Project, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT p.project_id, p.workspace_id, p.name, p.description, p.color, p.created_at
		 FROM project p
		 JOIN workspace_member m ON m.workspace_id = p.workspace_id
		 WHERE m.user_id = $1 ORDER BY p.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ProjectID, &project.WorkspaceID, &project.Name,
			&project.Description, &project.Color, &project.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE project SET name = $1, description = $2, color = $3 WHERE project_id = $4`,
		project.Name, project.Description, project.Color, project.ProjectID,
	)
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, projectID int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM project WHERE project_id = $1`, projectID)
	return err
}
