// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics exposes Prometheus counters for the relay and an optional
// /metrics listener.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 15 * time.Second
	shutdownDeadline  = 5 * time.Second
)

var (
	// UploadsServed counts images successfully relayed to the host.
	UploadsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whizlite_uploads_total",
		Help: "Number of images successfully uploaded to the image host.",
	})

	// UploadFailures counts relays the image host rejected or that failed in transit.
	UploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whizlite_upload_failures_total",
		Help: "Number of image uploads that failed.",
	})

	// QuotaDenials counts uploads refused by the per-user quota.
	QuotaDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whizlite_quota_denials_total",
		Help: "Number of upload attempts denied by the rate limiter.",
	})

	// MessagesSent counts outbound Telegram messages.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whizlite_messages_sent_total",
		Help: "Number of messages sent to Telegram.",
	})
)

// Serve runs a /metrics listener on addr until ctx is canceled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info().Str("address", addr).Msg("Metrics listener started")

		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics listener error: %w", err)
		}

		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics listener forced to shutdown: %w", err)
		}

		return nil
	}
}
