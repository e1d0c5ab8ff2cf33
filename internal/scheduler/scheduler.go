// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic cache-warming job so public
// pages stay fast even right after the cache expires or the server
// restarts.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bitsa/bitsa-web/internal/api"
)

// warmTimeout bounds a single warm pass across all endpoints.
const warmTimeout = 30 * time.Second

// Scheduler refreshes the cached API data on a fixed schedule.
type Scheduler struct {
	cached *api.Cached
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a scheduler that keeps cached warm.
func New(cached *api.Cached, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cached: cached,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start warms the cache immediately, then re-warms every minute so
// entries are refreshed before visitors see a cold cache.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", s.warm)
	if err != nil {
		return err
	}

	go s.warm()

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// warm refreshes every cached endpoint. A partial warm is fine: the
// API may be briefly unavailable and pages fall back to live fetches.
func (s *Scheduler) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	start := time.Now()
	if err := s.cached.Warm(ctx); err != nil {
		s.logger.Warn("cache warm incomplete", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	s.logger.Debug("cache warmed", "duration_ms", time.Since(start).Milliseconds())
}
