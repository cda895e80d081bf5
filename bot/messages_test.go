// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package bot

import (
	"strings"
	"testing"
	"time"
)

// TestWaitMinutes checks the wait estimate against literal clock values.
func TestWaitMinutes(t *testing.T) {
	t.Parallel()

	oldest := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	window := time.Hour

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			// Five uploads at minutes 0..40 got denied at minute 45:
			// the minute-0 upload leaves the window after 15 more minutes.
			name: "quarter hour remaining",
			now:  oldest.Add(45 * time.Minute),
			want: 15,
		},
		{
			name: "partial minute rounds up",
			now:  oldest.Add(44*time.Minute + 30*time.Second),
			want: 16,
		},
		{
			name: "under a minute floors at one",
			now:  oldest.Add(59*time.Minute + 59*time.Second),
			want: 1,
		},
		{
			name: "exactly expired floors at one",
			now:  oldest.Add(window),
			want: 1,
		},
		{
			name: "already expired floors at one",
			now:  oldest.Add(window + 10*time.Minute),
			want: 1,
		},
		{
			name: "whole window remaining",
			now:  oldest,
			want: 60,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := WaitMinutes(oldest, window, tt.now); got != tt.want {
				t.Errorf("WaitMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestWaitMinutesNeverIncreases ensures the estimate shrinks (or holds) as time passes.
func TestWaitMinutesNeverIncreases(t *testing.T) {
	t.Parallel()

	oldest := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	window := time.Hour

	previous := WaitMinutes(oldest, window, oldest)

	for offset := time.Minute; offset <= window+10*time.Minute; offset += 30 * time.Second {
		current := WaitMinutes(oldest, window, oldest.Add(offset))
		if current > previous {
			t.Fatalf("Wait estimate grew from %d to %d at offset %v", previous, current, offset)
		}

		previous = current
	}
}

func TestMessageTexts(t *testing.T) {
	t.Parallel()

	if got := rateLimitedText(16); !strings.Contains(got, "16 more minute(s)") {
		t.Errorf("Unexpected rate limit text: %q", got)
	}

	start := startText("Ada", 5)
	if !strings.Contains(start, "Ada") || !strings.Contains(start, "5 uploads per hour") {
		t.Errorf("Unexpected start text: %q", start)
	}

	success := uploadSucceededText("https://telegra.ph/file/abc.jpg")
	if !strings.Contains(success, "https://telegra.ph/file/abc.jpg") {
		t.Errorf("Unexpected success text: %q", success)
	}
}
