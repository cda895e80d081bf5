// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"testing"
	"time"
)

/*
TestLoadConfig focuses on verifying main functionality (e.g. failure on invalid input),
and *shouldn't* need exhaustive scenarios
*/

// TestLoadConfig is a test function that verifies the behavior of the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string            // Description of the test case
		env     map[string]string // Name of the environment variable and its value
		wantErr bool              // Whether an error is expected
	}{
		{
			name: "Valid configuration",
			env: map[string]string{
				"WHIZLITE_BOT_TOKEN": "123456:test-token",
				"WHIZLITE_OWNER_ID":  "424242",
			},
			wantErr: false,
		},
		{
			name: "Missing required WHIZLITE_BOT_TOKEN",
			env: map[string]string{
				"WHIZLITE_OWNER_ID": "424242",
			},
			wantErr: true,
		},
		{
			name: "Missing required WHIZLITE_OWNER_ID",
			env: map[string]string{
				"WHIZLITE_BOT_TOKEN": "123456:test-token",
			},
			wantErr: true,
		},
		{
			name: "Non-numeric WHIZLITE_OWNER_ID",
			env: map[string]string{
				"WHIZLITE_BOT_TOKEN": "123456:test-token",
				"WHIZLITE_OWNER_ID":  "not-a-number",
			},
			wantErr: true,
		},
		{
			name: "Invalid WHIZLITE_QUOTA_WINDOW",
			env: map[string]string{
				"WHIZLITE_BOT_TOKEN":    "123456:test-token",
				"WHIZLITE_OWNER_ID":     "424242",
				"WHIZLITE_QUOTA_WINDOW": "sixty minutes",
			},
			wantErr: true,
		},
		{
			name: "Negative WHIZLITE_QUOTA_LIMIT",
			env: map[string]string{
				"WHIZLITE_BOT_TOKEN":   "123456:test-token",
				"WHIZLITE_OWNER_ID":    "424242",
				"WHIZLITE_QUOTA_LIMIT": "-1",
			},
			wantErr: true,
		},
		{
			name: "Relative WHIZLITE_UPLOAD_ENDPOINT",
			env: map[string]string{
				"WHIZLITE_BOT_TOKEN":       "123456:test-token",
				"WHIZLITE_OWNER_ID":        "424242",
				"WHIZLITE_UPLOAD_ENDPOINT": "/upload",
			},
			wantErr: true,
		},
		{
			name: "Non-numeric metrics port",
			env: map[string]string{
				"WHIZLITE_BOT_TOKEN":    "123456:test-token",
				"WHIZLITE_OWNER_ID":     "424242",
				"WHIZLITE_METRICS":      "true",
				"WHIZLITE_METRICS_PORT": "ninety",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config := &Config{}

			err := config.LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestDefaults checks the values a bare config starts from.
func TestDefaults(t *testing.T) {
	t.Parallel()

	config := &Config{}
	config.SetDefaults()

	if config.Quota.Limit != 5 {
		t.Errorf("Expected default quota limit 5, got %d", config.Quota.Limit)
	}

	if config.Quota.Window != time.Hour {
		t.Errorf("Expected default quota window 1h, got %v", config.Quota.Window)
	}

	if config.Telegraph.Endpoint != "https://telegra.ph/upload" {
		t.Errorf("Unexpected default upload endpoint %q", config.Telegraph.Endpoint)
	}
}

// TestEnvOverridesTakePrecedence verifies the overwrite semantics of the env tag reader.
func TestEnvOverridesTakePrecedence(t *testing.T) {
	t.Setenv("WHIZLITE_QUOTA_LIMIT", "10")
	t.Setenv("WHIZLITE_QUOTA_WINDOW", "30m")

	config := &Config{}
	config.SetDefaults()

	if err := readEnv(config); err != nil {
		t.Fatalf("readEnv() error = %v", err)
	}

	if config.Quota.Limit != 10 {
		t.Errorf("Expected env quota limit 10, got %d", config.Quota.Limit)
	}

	if config.Quota.Window != 30*time.Minute {
		t.Errorf("Expected env quota window 30m, got %v", config.Quota.Window)
	}
}
