package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-reminder/internal/config"
)

// allowedUpdates must include message_reaction, which Telegram only delivers
// when asked for explicitly.
var allowedUpdates = []string{"message", "callback_query", "message_reaction"}

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Handler *th.BotHandler
}

// Start starts the bot handler
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// Initialize initializes the bot and its update source. With a webhook
// endpoint configured it sets up the webhook server; otherwise it falls back
// to long polling and the returned *WebhookServer is nil.
func Initialize(ctx context.Context, cfg *config.Config) (*BotService, *WebhookServer, error) {
	if cfg.Bot.Token == "" {
		return nil, nil, fmt.Errorf("bot token is required")
	}

	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultDebugLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	log.Printf("Authorized on account %s", botUser.Username)

	setCommands(ctx, bot)

	// Delete any existing webhook
	err = bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	if cfg.Bot.Webhook.Endpoint == "" {
		log.Printf("No webhook endpoint configured, using long polling")

		updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
			AllowedUpdates: allowedUpdates,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start long polling: %w", err)
		}

		bh, err := th.NewBotHandler(bot, updates)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create bot handler: %w", err)
		}

		return &BotService{Bot: bot, Handler: bh}, nil, nil
	}

	// Set fixed secret token or generate one based on bot token
	secretToken := "secure_webhook_token_" + cfg.Bot.Token[len(cfg.Bot.Token)-6:]

	bh, server, err := SetupWebhook(ctx, bot, cfg.Bot.Webhook.Endpoint, cfg.Bot.Webhook.ListenPort, cfg.Bot.Webhook.DebugPath, secretToken, cfg.Bot.Webhook.CertFile, cfg.Bot.Webhook.KeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup webhook: %w", err)
	}

	return &BotService{Bot: bot, Handler: bh}, server, nil
}

// setCommands registers the command menu
func setCommands(ctx context.Context, bot *telego.Bot) {
	commands := []telego.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "help", Description: "How to create and manage reminders"},
		{Command: "reactions", Description: "Which reactions close the last reminder"},
	}

	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		log.Printf("Warning: Failed to set bot commands: %v", err)
	}
}
