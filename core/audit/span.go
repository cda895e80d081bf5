// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Span represents an outbound API request in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration

	Destination TrafficDestination
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Error       error
	Body        []byte // Body is never logged as is; only its size
}

// TrafficDestination describes the logical destination of an outbound request.
type TrafficDestination string

// Constants for traffic destinations.
const (
	ToTelegram  TrafficDestination = "telegram"
	ToTelegraph TrafficDestination = "telegraph"
)

// NewRequestID makes a short ID with a time prefix and 3 bytes of entropy.
func NewRequestID() string {
	var entropy [3]byte

	_, _ = rand.Read(entropy[:])

	return time.Now().Format("150405") + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// Begin starts the span and returns a context carrying its trace task.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "api."+string(span.Destination))

	return ctx
}

// End stops the span's clock. Safe to call more than once; only the first
// call takes effect.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		span.task = nil
	}
}

// Log emits the span as a structured debug event.
func (span Span) Log() {
	event := log.Debug()

	event.Str("sys", "api")
	event.Str("method", span.Method)
	event.Str("url", span.URL)
	event.Int("status_code", span.StatusCode)
	event.Str("len", humanizeSize(len(span.Body)))
	event.Dur("dur", span.duration)
	event.Str("destination", string(span.Destination))
	event.Str("request_id", span.RequestID)

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
