// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package bot

import (
	"fmt"
	"math"
	"time"
)

const processingText = "🔄 Processing your image..."

const uploadFailedText = "❌ **Upload Failed.**\n\n" +
	"Sorry, I couldn't upload your image to Telegra.ph at the moment. " +
	"Please try again later."

// WaitMinutes derives the human-facing wait estimate for a denied upload:
// the whole minutes, rounded up, until the oldest upload in the window ages
// out, never less than one minute.
func WaitMinutes(oldest time.Time, window time.Duration, now time.Time) int {
	remaining := oldest.Add(window).Sub(now)

	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		return 1
	}

	return minutes
}

func startText(firstName string, limit int) string {
	return fmt.Sprintf(
		"👋 Hello, %s!\n\n"+
			"I am <b>WHIZ LITE</b>, your personal image uploader.\n\n"+
			"Simply send me any image (or multiple images at once), and I will upload them to "+
			"Telegra.ph, giving you a permanent, direct link.\n\n"+
			"<i>Note: You are limited to %d uploads per hour.</i>",
		firstName, limit,
	)
}

func rateLimitedText(waitMinutes int) string {
	return fmt.Sprintf(
		"⚠️ Rate limit reached! Please wait approximately %d more minute(s) before uploading again.",
		waitMinutes,
	)
}

func uploadSucceededText(link string) string {
	return fmt.Sprintf(
		"✅ **Upload Successful!**\n\n🔗 Here is your permanent link:\n%s",
		link,
	)
}
