// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"codeberg.org/whizlite/whizlite/config"
	"codeberg.org/whizlite/whizlite/core/audit"
	"codeberg.org/whizlite/whizlite/core/quota"
	"codeberg.org/whizlite/whizlite/core/telegraph"
	"codeberg.org/whizlite/whizlite/metrics"
)

const (
	// updateTimeout is the long-poll timeout for GetUpdates, in seconds.
	updateTimeout = 30

	// maxConcurrentUpdates bounds the number of updates handled at once.
	maxConcurrentUpdates = 16

	// Telegram caps bots at roughly 30 messages per second; stay under it.
	sendRate  = 25
	sendBurst = 5

	// fileDownloadTimeout bounds fetching image bytes from the Telegram file API.
	fileDownloadTimeout = 30 * time.Second
)

// Bot relays images from Telegram chats to the image host.
type Bot struct {
	api      *tgbotapi.BotAPI
	keeper   *quota.Keeper
	uploader *telegraph.Client

	// sendLimiter paces every outbound Telegram API message.
	sendLimiter *rate.Limiter

	fileClient *http.Client
}

// New builds a Bot from the global configuration.
func New(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}

	api.Debug = cfg.Bot.Debug

	uploader, err := telegraph.NewClient(cfg.Telegraph.Endpoint, cfg.Telegraph.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload client: %w", err)
	}

	log.Info().
		Str("username", api.Self.UserName).
		Int64("owner_id", cfg.Bot.OwnerID).
		Int("quota_limit", cfg.Quota.Limit).
		Dur("quota_window", cfg.Quota.Window).
		Msg("Authorized on Telegram")

	return &Bot{
		api:         api,
		keeper:      quota.NewKeeper(cfg.Quota.Limit, cfg.Quota.Window, cfg.Bot.OwnerID),
		uploader:    uploader,
		sendLimiter: rate.NewLimiter(rate.Limit(sendRate), sendBurst),
		fileClient:  &http.Client{Timeout: fileDownloadTimeout},
	}, nil
}

// Run long-polls for updates until ctx is canceled, handling each update in
// its own goroutine.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentUpdates)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()

			if err := group.Wait(); err != nil {
				return fmt.Errorf("update handler error: %w", err)
			}

			return nil
		case update, ok := <-updates:
			if !ok {
				if err := group.Wait(); err != nil {
					return fmt.Errorf("update handler error: %w", err)
				}

				return nil
			}

			group.Go(func() error {
				b.handleUpdate(groupCtx, update)

				return nil
			})
		}
	}
}

// send delivers a message to Telegram, paced by the global send limiter.
func (b *Bot) send(ctx context.Context, chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := b.sendLimiter.Wait(ctx); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("canceled while pacing send: %w", err)
	}

	sent, err := b.api.Send(chattable)
	if err != nil {
		return tgbotapi.Message{}, fmt.Errorf("failed to send Telegram message: %w", err)
	}

	metrics.MessagesSent.Inc()

	return sent, nil
}

// downloadFile fetches the raw bytes of a Telegram file by its ID.
func (b *Bot) downloadFile(ctx context.Context, fileID string) (_ []byte, err error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Telegram file %s: %w", fileID, err)
	}

	fileURL := file.Link(b.api.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create file download request: %w", err)
	}

	span := audit.Span{
		Destination: audit.ToTelegram,
		RequestID:   audit.NewRequestID(),
		Method:      req.Method,
		// The file URL embeds the bot token; don't log it.
		URL: "file/" + file.FilePath,
	}

	defer func() { span.Error = err }()

	_ = span.Begin(ctx)
	defer span.End() // in case of error

	resp, err := b.fileClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download Telegram file: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file API returned status %d for %s", resp.StatusCode, file.FilePath)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Telegram file body: %w", err)
	}

	span.Body = data

	span.End()
	span.Log()

	return data, nil
}
