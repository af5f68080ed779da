// Package auth holds the stateless authentication core: password hashing,
// token issuance and validation, and the authorization guard predicates.
// Nothing in this package performs I/O; identity lookups belong to callers.
package auth

// Principal is the authenticated identity attached to a single in-flight
// request. It is built from the live user record (not from token claims
// alone) and is immutable for the lifetime of the request.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}
