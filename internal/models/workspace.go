package models

import "time"

// Workspace member roles.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Workspace struct {
	WorkspaceID int       `json:"workspace_id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member is a user's membership in a workspace. UserName is joined in
// from the user table when listing members.
type Member struct {
	WorkspaceID int       `json:"workspace_id"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	Role        string    `json:"role"`
	AddedAt     time.Time `json:"added_at"`
}

// CanManage returns true if the member may invite or remove others.
func (m *Member) CanManage() bool {
	return m.Role == RoleOwner || m.Role == RoleAdmin
}
