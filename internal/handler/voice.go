package handler

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-reminder/internal/logger"
)

var fileDownloadClient = &http.Client{Timeout: 60 * time.Second}

// handleVoiceMessage downloads a voice note, transcribes it and feeds the
// text through the normal reminder pipeline.
func handleVoiceMessage(ctx *th.Context, bot *telego.Bot, message telego.Message) error {
	if !aiClient.IsConfigured() {
		_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
			ChatID: telego.ChatID{ID: message.Chat.ID},
			Text:   "Voice messages are not enabled on this bot.",
		})
		return err
	}

	file, err := bot.GetFile(ctx.Context(), &telego.GetFileParams{
		FileID: message.Voice.FileID,
	})
	if err != nil {
		logger.Errorf("Error getting voice file info: %v", err)
		return voiceFailure(ctx, bot, message.Chat.ID)
	}

	resp, err := downloadFile(ctx.Context(), bot.FileDownloadURL(file.FilePath))
	if err != nil {
		logger.Errorf("Error downloading voice file: %v", err)
		return voiceFailure(ctx, bot, message.Chat.ID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Errorf("Voice file download returned status %d", resp.StatusCode)
		return voiceFailure(ctx, bot, message.Chat.ID)
	}

	filename := path.Base(file.FilePath)
	if filename == "" || filename == "." {
		filename = "voice.ogg"
	}

	text, err := aiClient.Transcribe(ctx.Context(), filename, resp.Body)
	if err != nil {
		logger.Errorf("Error transcribing voice message: %v", err)
		return voiceFailure(ctx, bot, message.Chat.ID)
	}
	if text == "" {
		_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
			ChatID: telego.ChatID{ID: message.Chat.ID},
			Text:   "🎙 I could not make out any words in that voice message.",
		})
		return err
	}

	logger.Infof("Transcribed voice message in chat %d: %s", message.Chat.ID, text)

	// Echo the transcription so the user can spot recognition mistakes
	_, err = bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: message.Chat.ID},
		Text:   fmt.Sprintf("🎙 I heard: %q", text),
	})
	if err != nil {
		logger.Warningf("Error echoing transcription to chat %d: %v", message.Chat.ID, err)
	}

	submitText(ctx.Context(), bot, message, text)
	return nil
}

// downloadFile fetches a Telegram file within the handler's context, so an
// aborted update does not leave the download running.
func downloadFile(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return fileDownloadClient.Do(req)
}

func voiceFailure(ctx *th.Context, bot *telego.Bot, chatID int64) error {
	_, err := bot.SendMessage(ctx.Context(), &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   "⚠️ I could not process that voice message. Please try again or type the reminder.",
	})
	return err
}
