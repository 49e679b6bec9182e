package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handlers) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		h.showSettings(ctx, msg)
		return
	}

	switch fields[0] {
	case "tz":
		h.handleSetTimezone(ctx, msg, fields[1:])
	case "quiet":
		h.handleSetQuietHours(ctx, msg, fields[1:])
	case "digest":
		h.handleSetDigest(ctx, msg, fields[1:])
	default:
		h.sendMessage(msg.Chat.ID, "Usage:\n/settings\n/settings tz <zone>\n/settings quiet <start> <end>\n/settings digest <on|off|HH:MM>")
	}
}

func (h *Handlers) showSettings(ctx context.Context, msg *tgbotapi.Message) {
	settings, err := h.repos.Settings.GetOrCreate(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Failed to get user settings: %v", err)
		h.sendMessage(msg.Chat.ID, "Failed to fetch settings, please try again later")
		return
	}

	digest := "off"
	if settings.DigestEnabled {
		digest = fmt.Sprintf("daily at %s", settings.DigestTime)
	}

	text := fmt.Sprintf(`⚙️ *Settings*

🌍 Timezone: %s
🔕 Quiet hours: %s–%s
📰 Agenda digest: %s

/settings tz <zone> - e.g. Europe/Berlin
/settings quiet <start> <end> - e.g. 22:00 08:00
/settings digest <on|off|HH:MM>`,
		settings.Timezone, settings.QuietStart, settings.QuietEnd, digest)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleSetTimezone(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		h.sendMessage(msg.Chat.ID, "Usage: /settings tz <zone>\nExample: /settings tz Asia/Taipei")
		return
	}

	if _, err := time.LoadLocation(args[0]); err != nil {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Unknown timezone %q, use an IANA name like Europe/Berlin", args[0]))
		return
	}

	if err := h.repos.Settings.SetTimezone(ctx, msg.From.ID, args[0]); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to save settings, please try again later")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🌍 Timezone set to %s", args[0]))
}

func (h *Handlers) handleSetQuietHours(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 2 || !validClock(args[0]) || !validClock(args[1]) {
		h.sendMessage(msg.Chat.ID, "Usage: /settings quiet <start> <end>\nExample: /settings quiet 22:00 08:00")
		return
	}

	if err := h.repos.Settings.SetQuietHours(ctx, msg.From.ID, args[0], args[1]); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to save settings, please try again later")
		return
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🔕 Quiet hours set to %s–%s", args[0], args[1]))
}

func (h *Handlers) handleSetDigest(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		h.sendMessage(msg.Chat.ID, "Usage: /settings digest <on|off|HH:MM>")
		return
	}

	switch {
	case args[0] == "on" || args[0] == "off":
		enabled := args[0] == "on"
		if err := h.repos.Settings.SetDigestEnabled(ctx, msg.From.ID, enabled); err != nil {
			h.sendMessage(msg.Chat.ID, "Failed to save settings, please try again later")
			return
		}
		if enabled {
			h.sendMessage(msg.Chat.ID, "📰 Daily agenda digest enabled")
		} else {
			h.sendMessage(msg.Chat.ID, "📰 Daily agenda digest disabled")
		}
	case validClock(args[0]):
		if err := h.repos.Settings.SetDigestTime(ctx, msg.From.ID, args[0]); err != nil {
			h.sendMessage(msg.Chat.ID, "Failed to save settings, please try again later")
			return
		}
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("📰 Digest time set to %s", args[0]))
	default:
		h.sendMessage(msg.Chat.ID, "Usage: /settings digest <on|off|HH:MM>")
	}
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
