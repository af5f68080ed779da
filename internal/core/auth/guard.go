package auth

import "github.com/ecomstack/commerce-api/internal/core/domain"

// Owned is any record carrying an owner reference.
type Owned interface {
	OwnerID() int64
}

// RequireRole denies unless a principal is present and holds exactly the
// given role. An absent principal is always denied.
func RequireRole(p *Principal, role string) error {
	if p == nil || p.Role != role {
		return domain.ErrForbidden
	}
	return nil
}

// RequireOwner denies unless a principal is present and owns the resource.
func RequireOwner(p *Principal, resource Owned) error {
	if p == nil || resource == nil || resource.OwnerID() != p.UserID {
		return domain.ErrForbidden
	}
	return nil
}
