// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"net/url"
	"regexp"
)

// validation errors.
var (
	errNoBotToken             = errors.New("no bot token supplied. Get one from @BotFather and set bot.token or WHIZLITE_BOT_TOKEN")
	errNoOwnerID              = errors.New("no owner ID supplied. Get yours from @userinfobot and set bot.ownerId or WHIZLITE_OWNER_ID")
	errInvalidQuotaLimit      = errors.New("quota.limit must be a positive number")
	errInvalidQuotaWindow     = errors.New("quota.window must be a positive duration")
	errInvalidUploadTimeout   = errors.New("telegraph.timeout must be a positive duration")
	errUploadEndpointRelative = errors.New("telegraph.endpoint must be an absolute http(s) URL")
	errInvalidMetricsPort     = errors.New("metrics.port must be numeric")
	errInvalidLogFormat       = errors.New("log.logFormat must be \"console\" or \"json\"")
)

var digitsRegexp = regexp.MustCompile(`^[0-9]+$`)

// validate checks the loaded configuration for consistency.
func (cfg *Config) validate() error {
	if cfg.Bot.Token == "" {
		return errNoBotToken
	}

	if cfg.Bot.OwnerID <= 0 {
		return errNoOwnerID
	}

	if cfg.Quota.Limit <= 0 {
		return errInvalidQuotaLimit
	}

	if cfg.Quota.Window <= 0 {
		return errInvalidQuotaWindow
	}

	if cfg.Telegraph.Timeout <= 0 {
		return errInvalidUploadTimeout
	}

	endpoint, err := url.Parse(cfg.Telegraph.Endpoint)
	if err != nil || !endpoint.IsAbs() || endpoint.Host == "" {
		return errUploadEndpointRelative
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return errInvalidLogFormat
	}

	// Skip validating metrics configuration if it's not enabled
	if !cfg.Metrics.Enabled {
		return nil
	}

	if !digitsRegexp.MatchString(cfg.Metrics.Port) {
		return errInvalidMetricsPort
	}

	return nil
}
