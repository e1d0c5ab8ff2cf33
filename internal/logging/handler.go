// Copyright (c) 2025-2026 BITSA
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that keeps recent WARN and
// ERROR records in memory so the admin dashboard can show them without
// a log aggregation stack.
package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultRingSize is the number of records kept when none is specified.
const DefaultRingSize = 200

// Record is one retained log entry.
type Record struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]string
}

// ring is the shared fixed-size buffer behind all derived handlers.
type ring struct {
	mu      sync.Mutex
	records []Record
	next    int
	wrapped bool
}

func (b *ring) add(rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[b.next] = rec
	b.next++
	if b.next == len(b.records) {
		b.next = 0
		b.wrapped = true
	}
}

func (b *ring) recent() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.next
	if b.wrapped {
		n = len(b.records)
	}
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		idx := (b.next - 1 - i + len(b.records)) % len(b.records)
		out = append(out, b.records[idx])
	}
	return out
}

// RingHandler is a slog.Handler that wraps another handler and retains
// the most recent records at WARN level and above in a fixed-size ring.
// Handlers derived with WithAttrs or WithGroup share the same ring.
type RingHandler struct {
	inner slog.Handler
	level slog.Level
	buf   *ring
	attrs []slog.Attr
}

// NewRingHandler wraps inner, retaining the last size records at WARN
// and above. size <= 0 uses DefaultRingSize.
func NewRingHandler(inner slog.Handler, size int) *RingHandler {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingHandler{
		inner: inner,
		level: slog.LevelWarn,
		buf:   &ring{records: make([]Record, size)},
	}
}

// Enabled implements slog.Handler.
func (h *RingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RingHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first.
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.retain(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RingHandler{
		inner: h.inner.WithAttrs(attrs),
		level: h.level,
		buf:   h.buf,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *RingHandler) WithGroup(name string) slog.Handler {
	return &RingHandler{
		inner: h.inner.WithGroup(name),
		level: h.level,
		buf:   h.buf,
		attrs: h.attrs,
	}
}

// Recent returns retained records, newest first.
func (h *RingHandler) Recent() []Record {
	return h.buf.recent()
}

func (h *RingHandler) retain(r slog.Record) {
	rec := Record{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
		Attrs:   make(map[string]string, r.NumAttrs()+len(h.attrs)),
	}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.String()
		return true
	})
	h.buf.add(rec)
}
