package ports

import (
	"context"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
)

type AuthService interface {
	// Register creates an account with the user role and returns a fresh token.
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	// Login verifies credentials and returns a fresh token. Unknown accounts
	// and wrong passwords are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// DeleteSelf removes the principal's own account after password confirmation.
	DeleteSelf(ctx context.Context, p *auth.Principal, password string) error
	// GetUser looks up an arbitrary account. Admin only.
	GetUser(ctx context.Context, p *auth.Principal, id int64) (*domain.User, error)
	// DeleteUser removes an arbitrary account. Admin only.
	DeleteUser(ctx context.Context, p *auth.Principal, id int64) error
	// ChangeRole promotes or demotes an account. Admin only.
	ChangeRole(ctx context.Context, p *auth.Principal, id int64, role string) (*domain.User, error)
}
