package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/models"
)

func (h *Handlers) handleProject(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) < 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /project <workspace-id> <name>")
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
		h.sendMessage(msg.Chat.ID, "Only workspace owners and admins can create projects")
		return
	}

	project := &models.Project{
		WorkspaceID: workspaceID,
		Name:        strings.Join(fields[1:], " "),
	}
	if err := h.repos.Project.Create(ctx, project); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to create project, please try again later")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf("📁 Project *%s* created (ID: %d)", project.Name, project.ProjectID))
}

func (h *Handlers) handleProjectList(ctx context.Context, msg *tgbotapi.Message) {
	projects, err := h.repos.Project.GetForUser(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch projects, please try again later")
		return
	}

	if len(projects) == 0 {
		h.sendMessage(msg.Chat.ID, "📁 No projects yet, create one with /project")
		return
	}

	var sb strings.Builder
	sb.WriteString("📁 *Your projects*\n\n")
	for _, p := range projects {
		sb.WriteString(fmt.Sprintf("*%d.* %s (workspace %d)\n", p.ProjectID, p.Name, p.WorkspaceID))
		if p.Description != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", truncateString(p.Description, 60)))
		}
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}
