// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"log/slog"
	"sync"

	"github.com/pdiddy/sb2review/pkg/types"
)

// Logger receives the diagnostics emitted while rendering. Each unsupported
// construct or lossy fallback produces exactly one call. Implementations
// shared between concurrent renders must be safe for concurrent use.
type Logger interface {
	Error(message string)
	Warn(message string)
}

// SlogLogger forwards diagnostics to a slog.Logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger returns a Logger writing to l, or to slog.Default() when l
// is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Error(message string) { s.l.Error(message) }
func (s *SlogLogger) Warn(message string)  { s.l.Warn(message) }

// Collector records diagnostics in emission order and optionally forwards
// them to another Logger.
type Collector struct {
	mu    sync.Mutex
	diags []types.Diagnostic
	next  Logger
}

// NewCollector returns a Collector forwarding to next, which may be nil.
func NewCollector(next Logger) *Collector {
	return &Collector{next: next}
}

func (c *Collector) Error(message string) {
	c.add(types.LevelError, message)
	if c.next != nil {
		c.next.Error(message)
	}
}

func (c *Collector) Warn(message string) {
	c.add(types.LevelWarn, message)
	if c.next != nil {
		c.next.Warn(message)
	}
}

func (c *Collector) add(level types.DiagnosticLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, types.Diagnostic{Level: level, Message: message})
}

// Diagnostics returns a copy of everything recorded so far.
func (c *Collector) Diagnostics() []types.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.diags {
		if d.Level == types.LevelError {
			return true
		}
	}
	return false
}
