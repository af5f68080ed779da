package domain

import "time"

// Audit actions recorded in the security trail.
const (
	AuditUserRegistered = "user.registered"
	AuditUserLogin      = "user.login"
	AuditLoginFailed    = "user.login_failed"
	AuditUserDeleted    = "user.deleted"
	AuditRoleChanged    = "user.role_changed"
	AuditOrderPlaced    = "order.placed"
	AuditProductChanged = "product.changed"
)

// AuditEvent is an append-only record of a security-relevant action.
type AuditEvent struct {
	Actor     string    // email of the acting identity, or the attempted email for failed logins
	Action    string
	TargetID  int64     // affected record id, 0 when not applicable
	Timestamp time.Time
}
