// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"codeberg.org/whizlite/whizlite/metrics"
)

// handleUpdate dispatches one incoming update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	switch {
	case message.IsCommand() && message.Command() == "start":
		b.handleStart(ctx, message)
	case len(message.Photo) > 0 && message.Chat.IsPrivate():
		b.handlePhoto(ctx, message)
	}
}

// handleStart answers the /start command with usage help.
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	greeting := tgbotapi.NewMessage(message.Chat.ID, startText(message.From.FirstName, b.keeper.Limit()))
	greeting.ParseMode = tgbotapi.ModeHTML

	if _, err := b.send(ctx, greeting); err != nil {
		log.Error().
			Err(err).
			Int64("chat_id", message.Chat.ID).
			Msg("Failed to send greeting")
	}
}

// handlePhoto relays a photo to the image host and replies with its permanent URL.
func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	decision := b.keeper.Check(userID)
	if !decision.Allowed {
		metrics.QuotaDenials.Inc()

		wait := WaitMinutes(decision.Oldest, b.keeper.Window(), time.Now())

		log.Info().
			Int64("user_id", userID).
			Int("wait_minutes", wait).
			Msg("Upload denied by quota")

		reply := tgbotapi.NewMessage(message.Chat.ID, rateLimitedText(wait))
		if _, err := b.send(ctx, reply); err != nil {
			log.Error().Err(err).Int64("chat_id", message.Chat.ID).Msg("Failed to send quota reply")
		}

		return
	}

	processing, err := b.send(ctx, tgbotapi.NewMessage(message.Chat.ID, processingText))
	if err != nil {
		log.Error().Err(err).Int64("chat_id", message.Chat.ID).Msg("Failed to send processing reply")

		return
	}

	link, err := b.relayPhoto(ctx, message)
	if err != nil {
		metrics.UploadFailures.Inc()

		log.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to relay image")

		b.editText(ctx, message.Chat.ID, processing.MessageID, uploadFailedText, "")

		return
	}

	b.keeper.Record(userID)
	metrics.UploadsServed.Inc()

	log.Info().
		Int64("user_id", userID).
		Str("link", link).
		Msg("Image relayed")

	b.editText(ctx, message.Chat.ID, processing.MessageID, uploadSucceededText(link), tgbotapi.ModeMarkdown)
}

// relayPhoto downloads the largest rendition of the photo and uploads it to
// the image host.
func (b *Bot) relayPhoto(ctx context.Context, message *tgbotapi.Message) (string, error) {
	// Renditions are ordered smallest to largest; take the largest.
	photo := message.Photo[len(message.Photo)-1]

	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		return "", err
	}

	return b.uploader.Upload(ctx, "file.jpg", "image/jpeg", data)
}

// editText replaces the text of a previously sent message.
func (b *Bot) editText(ctx context.Context, chatID int64, messageID int, text, parseMode string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = parseMode

	if _, err := b.send(ctx, edit); err != nil {
		log.Error().
			Err(err).
			Int64("chat_id", chatID).
			Int("message_id", messageID).
			Msg("Failed to edit message")
	}
}
