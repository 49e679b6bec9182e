package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/ai"
)

// PendingConfirmation stores intent waiting for user confirmation
type PendingConfirmation struct {
	Intent    *ai.Intent
	ExpiresAt time.Time
}

// ConversationSession stores multi-turn conversation state
type ConversationSession struct {
	History   []ai.Message
	ExpiresAt time.Time
}

var (
	pendingConfirmations = make(map[int64]*PendingConfirmation) // userID -> pending
	pendingMutex         sync.RWMutex

	conversationSessions = make(map[int64]*ConversationSession) // userID -> session
	sessionMutex         sync.RWMutex
)

const (
	sessionTimeout = 5 * time.Minute
	maxHistoryLen  = 10
)

func (h *Handlers) handleAIMessage(ctx context.Context, msg *tgbotapi.Message) {
	if h.ai == nil {
		h.sendMessage(msg.Chat.ID, "The AI assistant is not enabled, use /help for commands")
		return
	}

	h.debug("Incoming message", "from", msg.From.FirstName, "username", msg.From.UserName, "text", msg.Text)

	// Check if user is confirming a pending action
	if h.handleConfirmationResponse(ctx, msg) {
		return
	}

	// Get or create conversation session
	session := h.getOrCreateSession(msg.From.ID)

	// If user is replying to one of our messages, add it as context
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.Text != "" {
		if msg.ReplyToMessage.From != nil && msg.ReplyToMessage.From.IsBot {
			session.History = append(session.History, ai.Message{
				Role:    "assistant",
				Content: msg.ReplyToMessage.Text,
			})
		}
	}

	// Add user message to history
	session.History = append(session.History, ai.Message{
		Role:    "user",
		Content: msg.Text,
	})

	// Trim history if too long
	if len(session.History) > maxHistoryLen {
		session.History = session.History[len(session.History)-maxHistoryLen:]
	}

	// Parse intent with conversation history
	intent, err := h.ai.ParseIntentWithHistory(ctx, session.History)
	if err != nil {
		log.Printf("Failed to parse intent: %v", err)
		h.sendMessage(msg.Chat.ID, "Sorry, I couldn't make sense of that. Try rephrasing, or use /help for commands.")
		return
	}

	h.debug("Parsed intent",
		"action", intent.Action,
		"confidence", intent.Confidence,
		"needs_confirmation", intent.NeedsConfirmation,
		"need_more_info", intent.NeedMoreInfo,
		"params", intent.Parameters,
		"raw", truncateString(intent.RawResponse, 200))

	// Handle low confidence
	if intent.Confidence < 0.5 {
		response := "I'm not sure what you want to do, could you be more specific?"
		if intent.AIMessage != "" {
			response = intent.AIMessage
		}
		h.sendMessage(msg.Chat.ID, response)
		session.History = append(session.History, ai.Message{
			Role:    "assistant",
			Content: response,
		})
		h.saveSession(msg.From.ID, session)
		return
	}

	// Handle need more info (multi-turn)
	if intent.NeedMoreInfo {
		response := intent.FollowUpPrompt
		if response == "" {
			response = intent.AIMessage
		}
		if response == "" {
			response = "Could you give me a bit more detail?"
		}
		h.sendMessage(msg.Chat.ID, response)
		session.History = append(session.History, ai.Message{
			Role:    "assistant",
			Content: response,
		})
		h.saveSession(msg.From.ID, session)
		return
	}

	// Check if confirmation is needed
	if intent.NeedsConfirmation {
		h.requestConfirmation(msg.Chat.ID, msg.From.ID, intent)
		// Clear session after confirmation request since we store intent separately
		h.clearSession(msg.From.ID)
		return
	}

	// Execute intent and get result
	h.debug("Executing action", "action", intent.Action, "params", intent.Parameters)
	result := h.executeIntentWithResult(ctx, msg, intent)
	h.debug("Action result", "result", truncateString(result, 200))

	// Add execution result to history for AI to process
	if result != "" {
		session.History = append(session.History, ai.Message{
			Role:    "assistant",
			Content: result,
		})
	}

	// Clear session after successful action (unless it's a list/query action)
	if !strings.HasPrefix(intent.Action, "list_") && intent.Action != "show_agenda" {
		h.clearSession(msg.From.ID)
	} else {
		h.saveSession(msg.From.ID, session)
	}
}

func (h *Handlers) getOrCreateSession(userID int64) *ConversationSession {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	session, exists := conversationSessions[userID]
	if !exists || time.Now().After(session.ExpiresAt) {
		session = &ConversationSession{
			History:   []ai.Message{},
			ExpiresAt: time.Now().Add(sessionTimeout),
		}
		conversationSessions[userID] = session
	} else {
		// Refresh expiry
		session.ExpiresAt = time.Now().Add(sessionTimeout)
	}
	return session
}

func (h *Handlers) saveSession(userID int64, session *ConversationSession) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	session.ExpiresAt = time.Now().Add(sessionTimeout)
	conversationSessions[userID] = session
}

func (h *Handlers) clearSession(userID int64) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	delete(conversationSessions, userID)
}

func (h *Handlers) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message) bool {
	text := strings.ToLower(strings.TrimSpace(msg.Text))

	pendingMutex.RLock()
	pending, exists := pendingConfirmations[msg.From.ID]
	pendingMutex.RUnlock()

	if !exists || time.Now().After(pending.ExpiresAt) {
		if exists {
			pendingMutex.Lock()
			delete(pendingConfirmations, msg.From.ID)
			pendingMutex.Unlock()
		}
		return false
	}

	// Check for confirmation keywords
	isConfirm := text == "yes" || text == "y" || text == "ok" || text == "confirm" || text == "sure"
	isCancel := text == "no" || text == "n" || text == "cancel" || text == "nope"

	if !isConfirm && !isCancel {
		return false
	}

	// Clear pending
	pendingMutex.Lock()
	delete(pendingConfirmations, msg.From.ID)
	pendingMutex.Unlock()

	if isCancel {
		h.sendMessage(msg.Chat.ID, "Cancelled")
		return true
	}

	// Execute the confirmed intent
	h.executeIntentWithResult(ctx, msg, pending.Intent)
	return true
}

func (h *Handlers) requestConfirmation(chatID int64, userID int64, intent *ai.Intent) {
	// Store pending confirmation (expires in 2 minutes)
	pendingMutex.Lock()
	pendingConfirmations[userID] = &PendingConfirmation{
		Intent:    intent,
		ExpiresAt: time.Now().Add(2 * time.Minute),
	}
	pendingMutex.Unlock()

	// Build confirmation message - prefer ai_message, fallback to confirmation_reason
	var confirmMsg string
	if intent.AIMessage != "" {
		confirmMsg = intent.AIMessage
	} else if intent.ConfirmationReason != "" {
		confirmMsg = intent.ConfirmationReason
	} else {
		confirmMsg = fmt.Sprintf("Run %s?", intent.Action)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", fmt.Sprintf("confirm:%d", userID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", fmt.Sprintf("cancel:%d", userID)),
		),
	)

	msg := tgbotapi.NewMessage(chatID, confirmMsg)
	msg.ReplyMarkup = keyboard

	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send confirmation message: %v", err)
	}
}

// executeIntentWithResult executes the intent and returns the result message
func (h *Handlers) executeIntentWithResult(ctx context.Context, msg *tgbotapi.Message, intent *ai.Intent) string {
	// Small talk: the model answers directly instead of running a tool
	if intent.Action == "unknown" && intent.AIMessage != "" {
		h.sendMessage(msg.Chat.ID, intent.AIMessage)
		return intent.AIMessage
	}
	return h.executeSingleAction(ctx, msg, intent.Action, intent.Parameters, true)
}

// executeSingleAction executes a single action and returns the result
func (h *Handlers) executeSingleAction(ctx context.Context, msg *tgbotapi.Message, action string, params map[string]string, sendMsg bool) string {
	h.debug("executeSingleAction", "action", action, "params", params, "sendMsg", sendMsg)
	var result string
	switch action {
	case "create_task":
		result = h.handleAICreateTaskResult(ctx, msg, params, sendMsg)
	case "list_task":
		result = h.handleAIListTaskResult(ctx, msg, params, sendMsg)
	case "complete_task":
		result = h.handleAICompleteTaskResult(ctx, msg, params, sendMsg)
	case "move_task":
		result = h.handleAIMoveTaskResult(ctx, msg, params, sendMsg)
	case "update_task":
		result = h.handleAIUpdateTaskResult(ctx, msg, params, sendMsg)
	case "delete_task":
		result = h.handleAIDeleteTaskResult(ctx, msg, params, sendMsg)
	case "create_project":
		result = h.handleAICreateProjectResult(ctx, msg, params, sendMsg)
	case "list_project":
		result = h.handleAIListProjectResult(ctx, msg, params, sendMsg)
	case "create_workspace":
		result = h.handleAICreateWorkspaceResult(ctx, msg, params, sendMsg)
	case "list_workspace":
		result = h.handleAIListWorkspaceResult(ctx, msg, params, sendMsg)
	case "create_reminder":
		result = h.handleAICreateReminderResult(ctx, msg, params, sendMsg)
	case "list_reminder":
		result = h.handleAIListReminderResult(ctx, msg, params, sendMsg)
	case "delete_reminder":
		result = h.handleAIDeleteReminderResult(ctx, msg, params, sendMsg)
	case "show_agenda":
		result = h.handleAIShowAgendaResult(ctx, msg, params, sendMsg)
	case "unknown":
		result = "I couldn't recognize that request"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
	default:
		result = "Sorry, I'm not sure what you want to do. Use /help for commands."
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
	}
	return result
}
