// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
WhizLite is a Telegram bot that relays images to telegra.ph and replies with
the permanent link, subject to a per-user hourly quota.
*/
package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/whizlite/whizlite/bot"
	"codeberg.org/whizlite/whizlite/config"
	"codeberg.org/whizlite/whizlite/core/audit"
	"codeberg.org/whizlite/whizlite/metrics"
)

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run orchestrates the application startup and graceful shutdown.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	relay, err := bot.New(&config.Global)
	if err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	// Stop everything on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	if config.Global.Metrics.Enabled {
		addr := net.JoinHostPort(config.Global.Metrics.Host, config.Global.Metrics.Port)

		group.Go(func() error {
			return metrics.Serve(groupCtx, addr)
		})
	}

	group.Go(func() error {
		return relay.Run(groupCtx)
	})

	<-groupCtx.Done()

	log.Info().Msg("Shutdown signal received")
	log.Info().Msg("Shutting down bot...")

	if err := group.Wait(); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	log.Info().Msg("Bot exited gracefully")

	return nil
}
