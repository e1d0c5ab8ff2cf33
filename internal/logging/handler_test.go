// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"io"
	"log/slog"
	"testing"
)

func newTestLogger(size int) (*slog.Logger, *RingHandler) {
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	h := NewRingHandler(inner, size)
	return slog.New(h), h
}

func TestRingHandlerRetainsWarnAndAbove(t *testing.T) {
	logger, h := newTestLogger(10)

	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg", "key", "value")
	logger.Error("error msg")

	recent := h.Recent()
	if len(recent) != 2 {
		t.Fatalf("len(Recent()) = %d, want 2", len(recent))
	}
	// Newest first.
	if recent[0].Message != "error msg" || recent[0].Level != "ERROR" {
		t.Errorf("recent[0] = %+v", recent[0])
	}
	if recent[1].Message != "warn msg" {
		t.Errorf("recent[1] = %+v", recent[1])
	}
	if recent[1].Attrs["key"] != "value" {
		t.Errorf("Attrs = %v", recent[1].Attrs)
	}
}

func TestRingHandlerWraps(t *testing.T) {
	logger, h := newTestLogger(3)

	for i := 0; i < 5; i++ {
		logger.Warn("msg", "n", i)
	}

	recent := h.Recent()
	if len(recent) != 3 {
		t.Fatalf("len(Recent()) = %d, want 3", len(recent))
	}
	if recent[0].Attrs["n"] != "4" || recent[2].Attrs["n"] != "2" {
		t.Errorf("Recent() order wrong: %+v", recent)
	}
}

func TestRingHandlerSharedAcrossWith(t *testing.T) {
	logger, h := newTestLogger(10)

	derived := logger.With("component", "api")
	derived.Warn("upstream slow")

	recent := h.Recent()
	if len(recent) != 1 {
		t.Fatalf("len(Recent()) = %d, want 1", len(recent))
	}
	if recent[0].Attrs["component"] != "api" {
		t.Errorf("Attrs = %v", recent[0].Attrs)
	}
}

func TestRingHandlerEmpty(t *testing.T) {
	_, h := newTestLogger(10)
	if got := h.Recent(); len(got) != 0 {
		t.Errorf("Recent() = %v, want empty", got)
	}
}
