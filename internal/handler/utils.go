package handler

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"

	"tg-reminder/internal/models"
)

// reminderKeyboard builds the Done/Cancel buttons attached to reminder
// messages.
func reminderKeyboard() *telego.InlineKeyboardMarkup {
	return &telego.InlineKeyboardMarkup{
		InlineKeyboard: [][]telego.InlineKeyboardButton{
			{
				{Text: "✅ Done", CallbackData: callbackMarkDone},
				{Text: "❌ Cancel", CallbackData: callbackCancel},
			},
		},
	}
}

func formatReminderSaved(reminder *models.Reminder) string {
	text := fmt.Sprintf("✅ Reminder saved: %s\n🕒 %s", reminder.Text, reminder.ScheduledAt)
	if reminder.Timezone != "" {
		text += fmt.Sprintf(" (%s)", reminder.Timezone)
	}
	if reminder.Comment != "" {
		text += "\n💬 " + reminder.Comment
	}
	return text
}

// ReminderSender delivers due reminders to the configured chat with the
// Done/Cancel buttons attached.
type ReminderSender struct {
	bot    *telego.Bot
	chatID int64
}

func NewReminderSender(bot *telego.Bot, chatID int64) *ReminderSender {
	return &ReminderSender{bot: bot, chatID: chatID}
}

func (s *ReminderSender) SendReminder(ctx context.Context, reminder models.Reminder) error {
	text := "🔔 " + reminder.Text
	if reminder.Comment != "" {
		text += "\n💬 " + reminder.Comment
	}
	text += "\n\nReact with ✅ or ❌, or use the buttons."

	_, err := s.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: s.chatID},
		Text:        text,
		ReplyMarkup: reminderKeyboard(),
	})
	return err
}
