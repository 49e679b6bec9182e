package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/models"
)

func (h *Handlers) handleAICreateProjectResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	name := params["title"]
	if name == "" {
		name = params["project"]
	}
	if name == "" {
		result := "Please give the project a name"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	// Resolve the target workspace: named, or the user's only one.
	workspaces, err := h.repos.Workspace.GetForUser(ctx, msg.From.ID)
	if err != nil || len(workspaces) == 0 {
		result := "You need a workspace first, create one with /workspace <name>"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var target *models.Workspace
	if wsName := params["workspace"]; wsName != "" {
		for _, ws := range workspaces {
			if strings.EqualFold(ws.Name, wsName) {
				target = ws
				break
			}
		}
	} else if len(workspaces) == 1 {
		target = workspaces[0]
	}
	if target == nil {
		result := "Which workspace should the project go in? You have: " + workspaceNames(workspaces)
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	member, err := h.repos.Workspace.GetMember(ctx, target.WorkspaceID, msg.From.ID)
	if err != nil || !member.CanManage() {
		result := "Only workspace owners and admins can create projects"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	project := &models.Project{
		WorkspaceID: target.WorkspaceID,
		Name:        name,
		Description: params["description"],
	}
	if err := h.repos.Project.Create(ctx, project); err != nil {
		result := "Failed to create project, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	result := fmt.Sprintf("📁 Project %s created in %s (ID: %d)", project.Name, target.Name, project.ProjectID)
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func workspaceNames(workspaces []*models.Workspace) string {
	names := make([]string, len(workspaces))
	for i, ws := range workspaces {
		names[i] = ws.Name
	}
	return strings.Join(names, ", ")
}

func (h *Handlers) handleAIListProjectResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	projects, err := h.repos.Project.GetForUser(ctx, msg.From.ID)
	if err != nil {
		result := "Failed to fetch projects, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if len(projects) == 0 {
		result := "No projects yet"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var sb strings.Builder
	sb.WriteString("Your projects\n\n")
	for _, p := range projects {
		sb.WriteString(fmt.Sprintf("%d. %s (workspace %d)\n", p.ProjectID, p.Name, p.WorkspaceID))
	}

	result := sb.String()
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func (h *Handlers) handleAICreateWorkspaceResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	name := params["title"]
	if name == "" {
		name = params["workspace"]
	}
	if name == "" {
		result := "Please give the workspace a name"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	ws := &models.Workspace{
		OwnerID:     msg.From.ID,
		Name:        name,
		Description: params["description"],
	}
	if err := h.repos.Workspace.Create(ctx, ws); err != nil {
		result := "Failed to create workspace, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	result := fmt.Sprintf("🏠 Workspace %s created (ID: %d)", ws.Name, ws.WorkspaceID)
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func (h *Handlers) handleAIListWorkspaceResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	workspaces, err := h.repos.Workspace.GetForUser(ctx, msg.From.ID)
	if err != nil {
		result := "Failed to fetch workspaces, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if len(workspaces) == 0 {
		result := "No workspaces yet"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var sb strings.Builder
	sb.WriteString("Your workspaces\n\n")
	for _, ws := range workspaces {
		sb.WriteString(fmt.Sprintf("%d. %s\n", ws.WorkspaceID, ws.Name))
	}

	result := sb.String()
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}
