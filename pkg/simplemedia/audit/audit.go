// Package audit provides audit sink implementations for the media pipeline.
package audit

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

// SlogSink writes audit events to a structured logger. It is the default
// sink for deployments without a dedicated audit backend.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates an audit sink backed by the given logger.
// A nil logger falls back to slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Log records the event. It never returns an error; the pipeline treats
// audit delivery as fire-and-forget either way.
func (s *SlogSink) Log(ctx context.Context, event simplemedia.AuditEvent) error {
	level := slog.LevelInfo
	if event.Severity == "error" {
		level = slog.LevelError
	}

	s.logger.Log(ctx, level, "audit event",
		"type", event.Type,
		"asset_id", event.AssetID,
		"owner_id", event.OwnerID,
		"payload", event.Payload,
	)
	return nil
}
