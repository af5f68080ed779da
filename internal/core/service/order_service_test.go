package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
	"github.com/ecomstack/commerce-api/internal/core/ports"
)

type stubOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.nextID++
	stored := *order
	stored.ID = r.nextID
	r.orders[stored.ID] = &stored
	return &stored, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := r.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) FindByUserID(_ context.Context, userID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[int64]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.nextID++
	stored := *product
	stored.ID = r.nextID
	r.products[stored.ID] = &stored
	return &stored, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if _, ok := r.products[product.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	stored := *product
	r.products[stored.ID] = &stored
	return &stored, nil
}

func (r *stubProductRepo) DeleteByID(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func newTestOrderService(t *testing.T) (*OrderService, *stubUserRepo, *stubProductRepo, *stubOrderRepo) {
	t.Helper()
	users := newStubUserRepo()
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	svc := NewOrderService(orders, users, products, &stubAuditSink{}, zerolog.Nop())
	return svc, users, products, orders
}

func seedUser(t *testing.T, repo *stubUserRepo, name, email, role string) (*domain.User, *auth.Principal) {
	t.Helper()
	user, err := repo.Create(context.Background(), &domain.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user, &auth.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func TestOrderService_Place(t *testing.T) {
	svc, users, products, _ := newTestOrderService(t)
	_, p := seedUser(t, users, "Ana", "ana@example.com", domain.RoleUser)

	widget, _ := products.Create(context.Background(), &domain.Product{Name: "Widget", Price: 9.50})
	gadget, _ := products.Create(context.Background(), &domain.Product{Name: "Gadget", Price: 20})

	order, err := svc.Place(context.Background(), p, []ports.OrderItemInput{
		{ProductID: widget.ID, Quantity: 2},
		{ProductID: gadget.ID, Quantity: 0}, // clamps to 1
	})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if order.ID == 0 {
		t.Fatalf("expected assigned order id")
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].Name != "Widget" {
		t.Fatalf("expected snapshotted product name, got %q", order.Items[0].Name)
	}
	if want := 2*9.50 + 20; order.TotalAmount != want {
		t.Fatalf("expected total %.2f, got %.2f", want, order.TotalAmount)
	}
}

func TestOrderService_Place_Denied(t *testing.T) {
	svc, _, products, _ := newTestOrderService(t)
	widget, _ := products.Create(context.Background(), &domain.Product{Name: "Widget", Price: 9.50})

	if _, err := svc.Place(context.Background(), nil, []ports.OrderItemInput{{ProductID: widget.ID, Quantity: 1}}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for anonymous caller, got %v", err)
	}

	ghost := &auth.Principal{UserID: 77, Email: "gone@example.com", Role: domain.RoleUser}
	if _, err := svc.Place(context.Background(), ghost, []ports.OrderItemInput{{ProductID: widget.ID, Quantity: 1}}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for stale token subject, got %v", err)
	}
}

func TestOrderService_Place_UnknownProduct(t *testing.T) {
	svc, users, _, _ := newTestOrderService(t)
	_, p := seedUser(t, users, "Ana", "ana@example.com", domain.RoleUser)

	if _, err := svc.Place(context.Background(), p, []ports.OrderItemInput{{ProductID: 404, Quantity: 1}}); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.Place(context.Background(), p, nil); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound for empty cart, got %v", err)
	}
}

func TestOrderService_Get_Ownership(t *testing.T) {
	svc, users, products, _ := newTestOrderService(t)
	_, owner := seedUser(t, users, "Ana", "ana@example.com", domain.RoleUser)
	_, other := seedUser(t, users, "Ben", "ben@example.com", domain.RoleUser)
	_, admin := seedUser(t, users, "Root", "root@example.com", domain.RoleAdmin)

	widget, _ := products.Create(context.Background(), &domain.Product{Name: "Widget", Price: 5})
	order, err := svc.Place(context.Background(), owner, []ports.OrderItemInput{{ProductID: widget.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), owner, order.ID); err != nil {
		t.Fatalf("owner denied own order: %v", err)
	}
	if _, err := svc.Get(context.Background(), other, order.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for foreign order, got %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, order.ID); err != nil {
		t.Fatalf("admin denied: %v", err)
	}
	if _, err := svc.Get(context.Background(), nil, order.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for anonymous caller, got %v", err)
	}
	if _, err := svc.Get(context.Background(), owner, 9999); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_ListMine(t *testing.T) {
	svc, users, products, _ := newTestOrderService(t)
	_, ana := seedUser(t, users, "Ana", "ana@example.com", domain.RoleUser)
	_, ben := seedUser(t, users, "Ben", "ben@example.com", domain.RoleUser)

	widget, _ := products.Create(context.Background(), &domain.Product{Name: "Widget", Price: 5})
	if _, err := svc.Place(context.Background(), ana, []ports.OrderItemInput{{ProductID: widget.ID, Quantity: 1}}); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if _, err := svc.Place(context.Background(), ana, []ports.OrderItemInput{{ProductID: widget.ID, Quantity: 3}}); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	mine, err := svc.ListMine(context.Background(), ana)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(mine))
	}

	theirs, err := svc.ListMine(context.Background(), ben)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(theirs) != 0 {
		t.Fatalf("expected no orders for other user, got %d", len(theirs))
	}
}
