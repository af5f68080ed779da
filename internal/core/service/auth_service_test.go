package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
)

const testSecret = "12345678901234567890123456789012"

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id int64, role string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubLimiter struct {
	blocked  bool
	failures int
	resets   int
}

func (l *stubLimiter) TooManyFailures(context.Context, string) (bool, error) {
	return l.blocked, nil
}
func (l *stubLimiter) RecordFailure(context.Context, string) error { l.failures++; return nil }
func (l *stubLimiter) Reset(context.Context, string) error         { l.resets++; return nil }

type stubAuditSink struct {
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(event domain.AuditEvent) { s.events = append(s.events, event) }

func (s *stubAuditSink) actions() []string {
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubLimiter, *stubAuditSink) {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	repo := newStubUserRepo()
	limiter := &stubLimiter{}
	audit := &stubAuditSink{}
	return NewAuthService(repo, tokens, limiter, audit, zerolog.Nop()), repo, limiter, audit
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _, audit := newTestAuthService(t)

	token, user, err := svc.Register(context.Background(), "Alice", "Alice@Example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if !auth.PasswordMatches("pass123", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if len(audit.events) != 1 || audit.events[0].Action != domain.AuditUserRegistered {
		t.Fatalf("unexpected audit trail: %v", audit.actions())
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if _, _, err := svc.Register(context.Background(), "", "a@x.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "Bob", "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if _, _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "Bob2", "bob@example.com", "pass2"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, limiter, _ := newTestAuthService(t)

	if _, _, err := svc.Register(context.Background(), "Carol", "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success, got %d", limiter.resets)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _, limiter, _ := newTestAuthService(t)

	_, _, _ = svc.Register(context.Background(), "Dave", "dave@example.com", "goodpass")
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if limiter.failures != 1 {
		t.Fatalf("expected one recorded failure, got %d", limiter.failures)
	}
}

func TestAuthService_Login_UnknownUserCollapses(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	// Unknown account must be indistinguishable from a wrong password.
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	svc, _, limiter, _ := newTestAuthService(t)
	limiter.blocked = true

	_, _, _ = svc.Register(context.Background(), "Eve", "eve@example.com", "pass12")
	if _, _, err := svc.Login(context.Background(), "eve@example.com", "pass12"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_DeleteSelf(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)

	_, user, err := svc.Register(context.Background(), "Frank", "frank@example.com", "pass12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	p := &auth.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}

	if err := svc.DeleteSelf(context.Background(), p, "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad confirmation, got %v", err)
	}
	if err := svc.DeleteSelf(context.Background(), nil, "pass12"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for absent principal, got %v", err)
	}
	if err := svc.DeleteSelf(context.Background(), p, "pass12"); err != nil {
		t.Fatalf("delete self failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), user.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected account gone, got %v", err)
	}
}

func TestAuthService_DeleteUser_AdminOnly(t *testing.T) {
	svc, repo, _, _ := newTestAuthService(t)

	_, target, _ := svc.Register(context.Background(), "Gina", "gina@example.com", "pass12")

	user := &auth.Principal{UserID: 99, Email: "u@example.com", Role: domain.RoleUser}
	if err := svc.DeleteUser(context.Background(), user, target.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), nil, target.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for absent principal, got %v", err)
	}

	admin := &auth.Principal{UserID: 98, Email: "root@example.com", Role: domain.RoleAdmin}
	if err := svc.DeleteUser(context.Background(), admin, target.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), target.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected account gone, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin, 4242); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for missing id, got %v", err)
	}
}

func TestAuthService_GetUser_AdminOnly(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, target, _ := svc.Register(context.Background(), "Ivy", "ivy@example.com", "pass12")

	admin := &auth.Principal{UserID: 98, Email: "root@example.com", Role: domain.RoleAdmin}
	got, err := svc.GetUser(context.Background(), admin, target.ID)
	if err != nil {
		t.Fatalf("admin lookup failed: %v", err)
	}
	if got.Email != "ivy@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	user := &auth.Principal{UserID: 99, Email: "u@example.com", Role: domain.RoleUser}
	if _, err := svc.GetUser(context.Background(), user, target.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if _, err := svc.GetUser(context.Background(), admin, 4242); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ChangeRole(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, target, _ := svc.Register(context.Background(), "Hank", "hank@example.com", "pass12")
	admin := &auth.Principal{UserID: 98, Email: "root@example.com", Role: domain.RoleAdmin}

	updated, err := svc.ChangeRole(context.Background(), admin, target.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", updated.Role)
	}

	if _, err := svc.ChangeRole(context.Background(), admin, target.ID, "superuser"); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	user := &auth.Principal{UserID: 99, Email: "u@example.com", Role: domain.RoleUser}
	if _, err := svc.ChangeRole(context.Background(), user, target.ID, domain.RoleAdmin); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
}
