package ports

import (
	"context"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
}

// ProductService defines catalog use cases. Reads are public; writes are
// admin only.
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p *auth.Principal, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, p *auth.Principal, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, p *auth.Principal, id int64) error
}
