package handler

import (
	"errors"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
	"tg-reminder/internal/service"
)

const (
	callbackMarkDone = "mark_done"
	callbackCancel   = "cancel_reminder"
)

// HandleCallbackQuery processes callback queries from inline keyboards
func HandleCallbackQuery(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery) error {
	// Skip if no data
	if query.Data == "" {
		return nil
	}

	logger.Infof("Received callback query: %s", query.Data)

	switch query.Data {
	case callbackMarkDone:
		return handleCloseCallback(ctx, bot, query, models.StatusDone)
	case callbackCancel:
		return handleCloseCallback(ctx, bot, query, models.StatusCanceled)
	}

	return nil
}

// handleCloseCallback marks the chat's current reminder done or canceled and
// rewrites the message the button was attached to.
func handleCloseCallback(ctx *th.Context, bot *telego.Bot, query telego.CallbackQuery, status string) error {
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.GetChat().ID

	var target *models.LastReminder
	var err error
	if status == models.StatusDone {
		target, err = service.GetLifecycle().MarkDone(chatID)
	} else {
		target, err = service.GetLifecycle().Cancel(chatID)
	}

	if err != nil {
		var answer string
		switch {
		case errors.Is(err, service.ErrNoTarget):
			answer = "No reminder to act on yet"
		default:
			logger.Errorf("Error closing reminder in chat %d: %v", chatID, err)
			answer = "Failed to update the reminder, try again"
		}
		return bot.AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
			Text:            answer,
		})
	}

	var messageText, answer string
	if status == models.StatusDone {
		messageText = fmt.Sprintf("✅ Done: %s", target.Text)
		answer = "Marked as done"
	} else {
		messageText = fmt.Sprintf("❌ Canceled: %s", target.Text)
		answer = "Reminder canceled"
	}

	// Rewrite the message and drop the buttons
	_, err = bot.EditMessageText(ctx.Context(), &telego.EditMessageTextParams{
		ChatID:    telego.ChatID{ID: chatID},
		MessageID: query.Message.GetMessageID(),
		Text:      messageText,
	})
	if err != nil {
		logger.Warningf("Error editing message after close in chat %d: %v", chatID, err)
	}

	return bot.AnswerCallbackQuery(ctx.Context(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
		Text:            answer,
	})
}
