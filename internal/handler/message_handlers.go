package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-reminder/internal/logger"
	"tg-reminder/internal/service"
)

// processingNotes tracks the "processing" placeholder message per chat so
// the correlation result can edit it in place. One placeholder covers both
// halves of a pair.
var (
	processingNotesMu sync.Mutex
	processingNotes   = make(map[int64]int)
)

// handleIncomingMessage processes new messages in chats
func handleIncomingMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	// Skip if no sender information or sender is a bot
	if message.From == nil || message.From.IsBot {
		return nil
	}

	// Only serve private chats and the configured chat
	cfg := globalConfig
	if message.Chat.Type != "private" && message.Chat.ID != cfg.Bot.ChatID {
		return nil
	}

	if message.Voice != nil {
		return handleVoiceMessage(ctx, bot, message)
	}

	text := message.Text
	if text == "" {
		text = message.Caption
	}
	if text == "" {
		_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
			ChatID: telego.ChatID{ID: message.Chat.ID},
			Text:   "I can only handle text and voice messages. Send /help for usage.",
		})
		return err
	}

	submitText(ctx.Context(), bot, message, text)
	return nil
}

// submitText sends the placeholder reply and feeds the message into the
// correlator. Used for typed text and for transcribed voice alike.
func submitText(ctx context.Context, bot *telego.Bot, message telego.Message, text string) {
	ensureProcessingNote(ctx, bot, message.Chat.ID)

	service.GetCorrelator().Submit(service.InboundMessage{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		Text:      text,
		Forwarded: message.ForwardOrigin != nil,
	})
}

// ensureProcessingNote sends the placeholder message unless the chat already
// has one outstanding.
func ensureProcessingNote(ctx context.Context, bot *telego.Bot, chatID int64) {
	processingNotesMu.Lock()
	_, exists := processingNotes[chatID]
	processingNotesMu.Unlock()
	if exists {
		return
	}

	sent, err := bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   "⏳ Processing...",
	})
	if err != nil {
		logger.Warningf("Error sending processing note to chat %d: %v", chatID, err)
		return
	}

	processingNotesMu.Lock()
	processingNotes[chatID] = sent.MessageID
	processingNotesMu.Unlock()
}

// takeProcessingNote removes and returns the chat's placeholder message id.
func takeProcessingNote(chatID int64) (int, bool) {
	processingNotesMu.Lock()
	defer processingNotesMu.Unlock()
	id, ok := processingNotes[chatID]
	if ok {
		delete(processingNotes, chatID)
	}
	return id, ok
}

// HandleCorrelationResult runs reminder creation over a released correlation
// result and reports the outcome to the chat, editing the placeholder
// message when one is outstanding.
func HandleCorrelationResult(bot *telego.Bot, result service.CorrelationResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	reminder, err := service.GetCreator().CreateFromResult(ctx, result)

	var text string
	var keyboard *telego.InlineKeyboardMarkup
	switch {
	case err == nil && reminder.HasDeadline():
		text = formatReminderSaved(reminder)
		keyboard = reminderKeyboard()
	case err == nil:
		text = "📝 Saved as a note: " + reminder.Text
		keyboard = reminderKeyboard()
	case errors.Is(err, service.ErrRecognition):
		text = recognitionFallback(result)
	case errors.Is(err, service.ErrPersistence):
		text = "⚠️ I could not save the reminder. Please try again."
	default:
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			text = "⏰ That looks like a time in the past. Please rephrase with a future time."
		} else {
			text = "⚠️ Something went wrong. Please try again."
		}
	}

	if err != nil {
		logger.Warningf("Reminder creation failed for chat %d: %v", result.ChatID, err)
	}

	replyToChat(ctx, bot, result.ChatID, text, keyboard)
}

// recognitionFallback handles a message the extractor found no reminder in.
// A solo forwarded message is attached as the comment of the chat's last
// reminder instead, which covers the case where the forward arrived after
// the pairing window closed.
func recognitionFallback(result service.CorrelationResult) string {
	if result.Forwarded && result.Comment == "" {
		target, err := service.GetLifecycle().AttachComment(result.ChatID, result.Text)
		if err == nil {
			return "💬 Attached the forwarded message to: " + target.Text
		}
		if !errors.Is(err, service.ErrNoTarget) {
			logger.Warningf("Error attaching comment in chat %d: %v", result.ChatID, err)
		}
	}
	return "🤔 I could not find a reminder in that message. Try something like \"call mom tomorrow at 6pm\"."
}

// replyToChat edits the chat's placeholder message when present, otherwise
// sends a fresh message.
func replyToChat(ctx context.Context, bot *telego.Bot, chatID int64, text string, keyboard *telego.InlineKeyboardMarkup) {
	if messageID, ok := takeProcessingNote(chatID); ok {
		_, err := bot.EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      telego.ChatID{ID: chatID},
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
		if err == nil {
			return
		}
		logger.Warningf("Error editing processing note in chat %d: %v", chatID, err)
	}

	_, err := bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: chatID},
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		logger.Errorf("Error sending result to chat %d: %v", chatID, err)
	}
}
