package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

const startText = "👋 <b>Hi! I am your reminder bot.</b>\n\n" +
	"Send me a message like \"call mom tomorrow at 6pm\" and I will save it " +
	"and ping you when the time comes. Voice messages work too.\n\n" +
	"Send /help for details."

const helpText = "<b>How to use me</b>\n\n" +
	"• Send any message with a task and a time, I will extract both and schedule a reminder.\n" +
	"• A message without a time is saved as a note.\n" +
	"• Forward a message and add a short note within a few seconds; I will attach the forwarded text as a comment.\n" +
	"• Voice messages are transcribed first, then treated like text.\n\n" +
	"<b>Managing reminders</b>\n" +
	"• Press the ✅ Done or ❌ Cancel button under a saved or delivered reminder.\n" +
	"• Or react to my message, see /reactions.\n\n" +
	"Buttons and reactions always act on the last reminder I created or delivered for you."

const reactionsText = "<b>Reactions</b>\n\n" +
	"React to my last reminder message:\n" +
	"✅ marks it done\n" +
	"❌ cancels it\n\n" +
	"Any other reaction leaves the reminder untouched."

// RegisterCommands handles bot commands. It reports whether the message was
// a command so plain text can fall through to reminder processing.
func RegisterCommands(ctx *th.Context, bot *telego.Bot, message telego.Message) (bool, error) {
	if !strings.HasPrefix(message.Text, "/") {
		return false, nil
	}

	command := message.Text
	if idx := strings.IndexByte(command, ' '); idx >= 0 {
		command = command[:idx]
	}
	// Strip the bot mention from commands like /help@my_bot
	if idx := strings.IndexByte(command, '@'); idx >= 0 {
		command = command[:idx]
	}

	var text string
	switch command {
	case "/start":
		text = startText
	case "/help":
		text = helpText
	case "/reactions":
		text = reactionsText
	default:
		text = "Unknown command. Send /help for usage."
	}

	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: message.Chat.ID},
		Text:      text,
		ParseMode: "HTML",
	})
	return true, err
}
