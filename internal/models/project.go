package models

import "time"

type Project struct {
	ProjectID   int       `json:"project_id"`
	WorkspaceID int       `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"` // hex color used by clients when rendering
	CreatedAt   time.Time `json:"created_at"`
}
