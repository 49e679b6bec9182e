package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/models"
)

func (h *Handlers) handleWorkspace(ctx context.Context, msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		h.sendMessage(msg.Chat.ID, "Please provide a workspace name\nUsage: /workspace <name>")
		return
	}

	ws := &models.Workspace{
		OwnerID: msg.From.ID,
		Name:    name,
	}
	if err := h.repos.Workspace.Create(ctx, ws); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to create workspace, please try again later")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🏠 Workspace *%s* created (ID: %d)\nInvite others with /invite %d <username>", ws.Name, ws.WorkspaceID, ws.WorkspaceID))
}

func (h *Handlers) handleWorkspaceList(ctx context.Context, msg *tgbotapi.Message) {
	workspaces, err := h.repos.Workspace.GetForUser(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch workspaces, please try again later")
		return
	}

	if len(workspaces) == 0 {
		h.sendMessage(msg.Chat.ID, "🏠 No workspaces yet, create one with /workspace <name>")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏠 *Your workspaces*\n\n")
	for _, ws := range workspaces {
		owner := ""
		if ws.OwnerID == msg.From.ID {
			owner = " 👑"
		}
		sb.WriteString(fmt.Sprintf("*%d.* %s%s\n", ws.WorkspaceID, ws.Name, owner))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleInvite(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /invite <workspace-id> <username> [role]")
		return
	}

	workspaceID, err := strconv.Atoi(fields[0])
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Invalid workspace ID")
		return
	}

	member, err := h.repos.Workspace.GetMember(ctx, workspaceID, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "You are not a member of that workspace")
		return
	}
	if !member.CanManage() {
		h.sendMessage(msg.Chat.ID, "Only workspace owners and admins can invite members")
		return
	}

	userName := strings.TrimPrefix(fields[1], "@")
	user, err := h.repos.User.GetByUserName(ctx, userName)
	if err != nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("I don't know @%s yet, they need to /start me first", userName))
		return
	}

	role := models.RoleMember
	if len(fields) >= 3 {
		role = strings.ToLower(fields[2])
		if role != models.RoleAdmin && role != models.RoleMember {
			h.sendMessage(msg.Chat.ID, "Role must be admin or member")
			return
		}
	}

	if err := h.repos.Workspace.AddMember(ctx, workspaceID, user.UserID, role); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to add member, please try again later")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🤝 @%s added to workspace %d as %s", userName, workspaceID, role))
}

func (h *Handlers) handleMembers(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /members <workspace-id>")
		return
	}

	workspaceID, err := strconv.Atoi(args)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Invalid workspace ID")
		return
	}

	if _, err := h.repos.Workspace.GetMember(ctx, workspaceID, msg.From.ID); err != nil {
		h.sendMessage(msg.Chat.ID, "You are not a member of that workspace")
		return
	}

	members, err := h.repos.Workspace.GetMembers(ctx, workspaceID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch members, please try again later")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 *Members of workspace %d*\n\n", workspaceID))
	for _, m := range members {
		role := ""
		switch m.Role {
		case models.RoleOwner:
			role = " 👑"
		case models.RoleAdmin:
			role = " 🛡"
		}
		name := m.UserName
		if name == "" {
			name = strconv.FormatInt(m.UserID, 10)
		}
		sb.WriteString(fmt.Sprintf("• %s%s\n", name, role))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}
