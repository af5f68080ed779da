package ports

import (
	"context"

	"github.com/ecomstack/commerce-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	UpdateRole(ctx context.Context, id int64, role string) (*domain.User, error)
	DeleteByID(ctx context.Context, id int64) error
}
