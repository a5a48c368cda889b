package handler

import (
	"context"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-reminder/internal/ai"
	"tg-reminder/internal/config"
	"tg-reminder/internal/service"
)

var (
	globalConfig *config.Config
	aiClient     *ai.Client
)

func Initialize(cfg *config.Config) {
	globalConfig = cfg
	aiClient = ai.NewClient(cfg.AiApi)
	service.Initialize(cfg)
}

// SetupMessageHandlers configures all bot message and update handlers
func SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) {
	extractor := ai.NewExtractor(aiClient, globalConfig.Reminder.DefaultTimezone)
	service.InitServices(extractor, func(result service.CorrelationResult) {
		HandleCorrelationResult(bot, result)
	})

	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		ok, err := RegisterCommands(ctx, bot, message)
		if ok {
			return err
		}

		return handleIncomingMessage(ctx, bot, message)
	})

	bh.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		return HandleCallbackQuery(ctx, bot, query)
	})

	bh.Handle(func(ctx *th.Context, update telego.Update) error {
		return handleReactionUpdate(ctx, bot, update)
	}, func(ctx context.Context, update telego.Update) bool {
		return update.MessageReaction != nil
	})
}
