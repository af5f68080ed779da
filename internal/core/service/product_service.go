package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
	"github.com/ecomstack/commerce-api/internal/core/ports"
)

// ProductService implements catalog use cases. Reads are public; every write
// is gated on the admin role.
type ProductService struct {
	products ports.ProductRepository
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewProductService(products ports.ProductRepository, audit ports.AuditSink, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, audit: audit, log: log}
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, p *auth.Principal, in ports.ProductInput) (*domain.Product, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.products.Create(ctx, &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	s.record(p, created.ID)
	s.log.Info().Int64("product_id", created.ID).Str("actor", p.Email).Msg("product created")
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, p *auth.Principal, id int64, in ports.ProductInput) (*domain.Product, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.products.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	s.record(p, id)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.products.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.record(p, id)
	s.log.Info().Int64("product_id", id).Str("actor", p.Email).Msg("product deleted")
	return nil
}

func (s *ProductService) record(p *auth.Principal, id int64) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		Actor:     p.Email,
		Action:    domain.AuditProductChanged,
		TargetID:  id,
		Timestamp: time.Now().UTC(),
	})
}
