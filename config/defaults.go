// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default number of uploads allowed per quota window.
	defaultQuotaLimit = 5
	// Default quota window.
	defaultQuotaWindow = time.Hour

	// Default upload endpoint timeout in seconds.
	defaultUploadTimeoutSeconds = 20
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Bot.Debug = false

	cfg.Quota.Limit = defaultQuotaLimit
	cfg.Quota.Window = defaultQuotaWindow

	cfg.Telegraph.Endpoint = "https://telegra.ph/upload"
	cfg.Telegraph.Timeout = defaultUploadTimeoutSeconds * time.Second

	cfg.Metrics.Enabled = false
	cfg.Metrics.Host = "localhost"
	cfg.Metrics.Port = "9091"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
