package ports

import (
	"context"

	"github.com/ecomstack/commerce-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// FindByUserID returns the orders owned by a user, newest first.
	FindByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
}
