package ports

import (
	"context"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
)

// OrderItemInput is a single requested line in a new order.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// OrderService defines use-case operations for orders. Every operation takes
// the request's principal explicitly; an absent principal is denied.
type OrderService interface {
	Place(ctx context.Context, p *auth.Principal, items []OrderItemInput) (*domain.Order, error)
	ListMine(ctx context.Context, p *auth.Principal) ([]*domain.Order, error)
	Get(ctx context.Context, p *auth.Principal, id int64) (*domain.Order, error)
}
