package ports

import (
	"context"

	"github.com/ecomstack/commerce-api/internal/core/domain"
)

// AuditRepository persists audit events to the append-only trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService processes audit events dequeued by the dispatcher.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording. Enqueueing never
// blocks the request path beyond channel capacity.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
