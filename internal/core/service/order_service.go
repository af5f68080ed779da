package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
	"github.com/ecomstack/commerce-api/internal/core/ports"
)

// OrderService implements order placement and retrieval with ownership
// enforcement.
type OrderService struct {
	orders   ports.OrderRepository
	users    ports.UserRepository
	products ports.ProductRepository
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, users ports.UserRepository, products ports.ProductRepository, audit ports.AuditSink, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, products: products, audit: audit, log: log}
}

// Place creates an order for the authenticated principal. The owning identity
// is re-resolved from the store by token subject rather than trusted from the
// principal, so a token surviving its account cannot place orders.
func (s *OrderService) Place(ctx context.Context, p *auth.Principal, items []ports.OrderItemInput) (*domain.Order, error) {
	if p == nil {
		return nil, domain.ErrForbidden
	}
	if len(items) == 0 {
		return nil, domain.ErrProductNotFound
	}

	user, err := s.users.FindByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}

	var total float64
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		line := domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  qty,
			Price:     product.Price * float64(qty),
		}
		total += line.Price
		order.Items = append(order.Items, line)
	}
	order.TotalAmount = total

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	if s.audit != nil {
		s.audit.Enqueue(domain.AuditEvent{
			Actor:     user.Email,
			Action:    domain.AuditOrderPlaced,
			TargetID:  created.ID,
			Timestamp: time.Now().UTC(),
		})
	}
	s.log.Info().Int64("order_id", created.ID).Int64("user_id", user.ID).Float64("total", total).Msg("order placed")
	return created, nil
}

// ListMine returns the principal's own orders.
func (s *OrderService) ListMine(ctx context.Context, p *auth.Principal) ([]*domain.Order, error) {
	if p == nil {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	return s.orders.FindByUserID(ctx, user.ID)
}

// Get retrieves one order. Non-admin principals must own the record.
func (s *OrderService) Get(ctx context.Context, p *auth.Principal, id int64) (*domain.Order, error) {
	if p == nil {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if auth.RequireRole(p, domain.RoleAdmin) != nil {
		if err := auth.RequireOwner(p, order); err != nil {
			return nil, err
		}
	}
	return order, nil
}
