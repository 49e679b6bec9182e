// Package ai turns natural-language chat into structured task intents via
// an OpenAI-compatible chat completion API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *Client) SetModel(model string) {
	c.model = model
}

// Intent is the assistant's structured reading of a user message. Intents
// that create or change data are proposals: the handler either executes
// them directly or, when NeedsConfirmation is set, parks them behind a
// confirm/cancel prompt.
type Intent struct {
	Action             string            `json:"action"`
	Entity             string            `json:"entity"`
	Parameters         map[string]string `json:"parameters"`
	Confidence         float64           `json:"confidence"`
	NeedsConfirmation  bool              `json:"needs_confirmation"`
	ConfirmationReason string            `json:"confirmation_reason"`
	// Multi-turn conversation fields
	NeedMoreInfo   bool   `json:"need_more_info"`
	FollowUpPrompt string `json:"follow_up_prompt"`
	AIMessage      string `json:"ai_message"`
	RawResponse    string `json:"-"`
}

// Message represents a chat message for multi-turn conversations.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const systemPromptTemplate = `You are the SmartTask assistant. Parse the user's natural-language input into a structured intent.

Current time: %s

Available actions:
- create_task: create a task (optionally scheduled, recurring, or assigned to a project)
- list_task: list tasks (optional keyword search)
- complete_task: mark a task done
- move_task: move a task to another board column (todo, doing, done)
- update_task: update a task
- delete_task: delete a task
- create_project: create a project in a workspace
- list_project: list projects
- create_workspace: create a workspace
- list_workspace: list workspaces
- create_reminder: create a reminder
- list_reminder: list reminders
- delete_reminder: delete a reminder
- show_agenda: show the calendar (parameters: view = day/week/month, date)
- unknown: unrecognized input or small talk

Depending on the action, parameters may include:
- id: item number (for delete/update/complete/move)
- keyword: search keyword for list_* actions
- title: task or project title
- description: longer description
- priority: 1-5
- status: todo, doing or done
- location: where the task happens
- start_time / end_time: YYYY-MM-DD HH:MM
- recurring_days: repeat every N days
- recurring_until: YYYY-MM-DD HH:MM recurrence cap
- remind_at: YYYY-MM-DD HH:MM
- recurrence_rule: RFC 5545 RRULE for repeating reminders (e.g. FREQ=DAILY)
- project: project name
- workspace: workspace name
- view / date: for show_agenda
- tags: comma-separated tags

Rules:
1. Resolve relative times ("tomorrow", "next Monday", "in 3 hours") against the current time and output YYYY-MM-DD HH:MM.
2. Set needs_confirmation = true for:
   - every delete_* and update_* action
   - ambiguous dates (between 00:00 and 06:00, "tomorrow" needs clarifying)
   - creating a task that repeats more often than daily
   Keep confirmation_reason short, e.g. "Delete task #3?".
3. Multi-turn: when the request lacks required information, set need_more_info = true and put the follow-up question in follow_up_prompt. Use ai_message for the friendly reply shown to the user (questions, confirmations after execution, or small talk when action = unknown).
4. When you receive a tool execution result, summarize it for the user; if it failed, explain why and suggest a next step.`

func getSystemPrompt() string {
	now := time.Now()
	return fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02 15:04 (Monday)"))
}

// JSON Schema for structured output
var intentSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"action": {
			"type": "string",
			"enum": ["create_task", "list_task", "complete_task", "move_task", "update_task", "delete_task", "create_project", "list_project", "create_workspace", "list_workspace", "create_reminder", "list_reminder", "delete_reminder", "show_agenda", "unknown"],
			"description": "The action to perform"
		},
		"entity": {
			"type": "string",
			"description": "The entity type related to the action"
		},
		"parameters": {
			"type": "object",
			"additionalProperties": {
				"type": "string"
			},
			"description": "Parameters for the action including id for delete/update operations"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Confidence score between 0 and 1"
		},
		"needs_confirmation": {
			"type": "boolean",
			"description": "Whether this action requires user confirmation before execution"
		},
		"confirmation_reason": {
			"type": "string",
			"description": "Human-readable reason for why confirmation is needed"
		},
		"need_more_info": {
			"type": "boolean",
			"description": "Whether more information is needed from user to complete the action"
		},
		"follow_up_prompt": {
			"type": "string",
			"description": "The follow-up question to ask user when need_more_info is true"
		},
		"ai_message": {
			"type": "string",
			"description": "Friendly message to show user (for asking questions, confirming actions, or casual chat)"
		}
	},
	"required": ["action", "confidence", "needs_confirmation", "need_more_info"],
	"additionalProperties": false
}`)

func (c *Client) ParseIntent(ctx context.Context, userMessage string) (*Intent, error) {
	return c.ParseIntentWithHistory(ctx, []Message{{Role: "user", Content: userMessage}})
}

// ParseIntentWithHistory parses intent using conversation history for
// multi-turn conversations.
func (c *Client) ParseIntentWithHistory(ctx context.Context, history []Message) (*Intent, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: getSystemPrompt(),
		},
	}

	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "intent",
				Schema: intentSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	content := resp.Choices[0].Message.Content
	intent := &Intent{RawResponse: content}

	if err := json.Unmarshal([]byte(content), intent); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return intent, nil
}

// ContinueWithToolResult continues the conversation after tool execution.
func (c *Client) ContinueWithToolResult(ctx context.Context, history []Message, toolResult string) (*Intent, error) {
	history = append(history, Message{
		Role:    "assistant",
		Content: fmt.Sprintf("[tool result]\n%s", toolResult),
	})

	return c.ParseIntentWithHistory(ctx, history)
}

func (c *Client) GenerateResponse(ctx context.Context, systemMsg, userMsg string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemMsg,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMsg,
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return resp.Choices[0].Message.Content, nil
}
