// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
)

const testSecret = "Abc123!xyz-long-enough-secret-key-42"

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BITSA_SESSION_SECRET", testSecret)
	t.Setenv("BITSA_ENV", "development")
	t.Setenv("BITSA_API_BASE_URL", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != DevAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DevAPIBaseURL)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.CacheTTL != 60 {
		t.Errorf("CacheTTL = %d, want 60", cfg.CacheTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true with no Redis URL")
	}
}

func TestLoadRequiresAPIBaseURLInProduction(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BITSA_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded without BITSA_API_BASE_URL in production")
	}
	if !strings.Contains(err.Error(), "BITSA_API_BASE_URL") {
		t.Errorf("error %q does not mention BITSA_API_BASE_URL", err)
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BITSA_API_BASE_URL", "https://api.bitsa.example/api/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBaseURL != "https://api.bitsa.example/api" {
		t.Errorf("APIBaseURL = %q, trailing slash not trimmed", cfg.APIBaseURL)
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BITSA_SESSION_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a short session secret")
	}
}

func TestLoadRejectsKnownWeakSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BITSA_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a known weak secret")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := Config{ServerHost: "0.0.0.0", ServerPort: 9000}
	if got := cfg.ServerAddr(); got != "0.0.0.0:9000" {
		t.Errorf("ServerAddr() = %q, want 0.0.0.0:9000", got)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"three classes", "abcABC123", true},
		{"four classes", "abcABC123!@#", true},
		{"lowercase only", "abcdefghij", false},
		{"two classes", "abcdef123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasMinimumEntropy(tt.secret); got != tt.want {
				t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}
