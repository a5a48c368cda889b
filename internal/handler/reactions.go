package handler

import (
	"errors"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-reminder/internal/logger"
	"tg-reminder/internal/service"
)

const (
	reactionDone   = "✅"
	reactionCancel = "❌"
)

// handleReactionUpdate closes the chat's current reminder when a known emoji
// reaction is added to a message.
func handleReactionUpdate(ctx *th.Context, bot *telego.Bot, update telego.Update) error {
	mr := update.MessageReaction
	if mr == nil {
		return nil
	}
	if mr.User != nil && mr.User.IsBot {
		return nil
	}
	chatID := mr.Chat.ID
	if mr.Chat.Type != "private" && chatID != globalConfig.Bot.ChatID {
		return nil
	}

	added := addedEmojis(mr.OldReaction, mr.NewReaction)
	if len(added) == 0 {
		return nil
	}

	// An update can add several emojis at once. A recognized one wins over
	// the hint no matter where it sits in the batch.
	if emoji, ok := closeReaction(added); ok {
		return closeByReaction(ctx, bot, chatID, emoji == reactionDone)
	}

	logger.Debugf("Ignoring reactions %v in chat %d", added, chatID)
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   "I only understand ✅ (done) and ❌ (cancel) reactions. See /reactions.",
	})
	return err
}

// closeReaction picks the first recognized close emoji among the added ones.
func closeReaction(added []string) (string, bool) {
	for _, emoji := range added {
		if emoji == reactionDone || emoji == reactionCancel {
			return emoji, true
		}
	}
	return "", false
}

func closeByReaction(ctx *th.Context, bot *telego.Bot, chatID int64, done bool) error {
	var text string
	var err error
	if done {
		target, closeErr := service.GetLifecycle().MarkDone(chatID)
		if closeErr == nil {
			text = fmt.Sprintf("✅ Done: %s", target.Text)
		}
		err = closeErr
	} else {
		target, closeErr := service.GetLifecycle().Cancel(chatID)
		if closeErr == nil {
			text = fmt.Sprintf("❌ Canceled: %s", target.Text)
		}
		err = closeErr
	}

	switch {
	case err == nil:
	case errors.Is(err, service.ErrNoTarget):
		text = "There is no reminder to act on yet."
	default:
		logger.Errorf("Error closing reminder by reaction in chat %d: %v", chatID, err)
		text = "⚠️ Failed to update the reminder. Please try again."
	}

	_, sendErr := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return sendErr
}

// addedEmojis returns the emoji reactions present in new but not in old.
func addedEmojis(old, new []telego.ReactionType) []string {
	seen := make(map[string]bool, len(old))
	for _, r := range old {
		if emoji, ok := reactionEmoji(r); ok {
			seen[emoji] = true
		}
	}

	var added []string
	for _, r := range new {
		if emoji, ok := reactionEmoji(r); ok && !seen[emoji] {
			added = append(added, emoji)
		}
	}
	return added
}

func reactionEmoji(r telego.ReactionType) (string, bool) {
	if emojiReaction, ok := r.(*telego.ReactionTypeEmoji); ok {
		return emojiReaction.Emoji, true
	}
	return "", false
}
