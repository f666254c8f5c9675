package simplemedia

import "context"

// NoopAuditSink is a no-operation implementation of AuditSink.
// Useful when no audit trail is wired, and for testing.
type NoopAuditSink struct{}

// NewNoopAuditSink creates a new no-operation audit sink
func NewNoopAuditSink() AuditSink {
	return &NoopAuditSink{}
}

// Log does nothing and returns nil
func (n *NoopAuditSink) Log(ctx context.Context, event AuditEvent) error {
	return nil
}
