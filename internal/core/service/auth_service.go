package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
	"github.com/ecomstack/commerce-api/internal/core/ports"
)

// LoginLimiter abstracts the failed-login throttle (Redis).
type LoginLimiter interface {
	TooManyFailures(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, login, and account removal.
type AuthService struct {
	users   ports.UserRepository
	tokens  *auth.TokenService
	limiter LoginLimiter
	audit   ports.AuditSink
	log     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *auth.TokenService, limiter LoginLimiter, audit ports.AuditSink, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, limiter: limiter, audit: audit, log: log}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return "", nil, err
	}

	s.record(domain.AuditUserRegistered, created.Email, created.ID)
	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return token, created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Throttle check is fail-open: a broken limiter must not lock everyone out.
	if blocked, err := s.limiter.TooManyFailures(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login limiter check failed, proceeding")
	} else if blocked {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Unknown account collapses to the same outcome as a wrong password
		// so callers cannot enumerate registered emails.
		s.failLogin(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if !auth.PasswordMatches(password, user.PasswordHash) {
		s.failLogin(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login limiter reset failed")
	}
	s.record(domain.AuditUserLogin, user.Email, user.ID)
	return token, user, nil
}

func (s *AuthService) DeleteSelf(ctx context.Context, p *auth.Principal, password string) error {
	if p == nil {
		return domain.ErrForbidden
	}

	// Fresh lookup: the token may outlive the account it was issued for.
	user, err := s.users.FindByEmail(ctx, p.Email)
	if err != nil {
		return err
	}
	if !auth.PasswordMatches(password, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	if err := s.users.DeleteByID(ctx, user.ID); err != nil {
		return err
	}
	s.record(domain.AuditUserDeleted, user.Email, user.ID)
	s.log.Info().Int64("user_id", user.ID).Msg("account self-deleted")
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, p *auth.Principal, id int64) (*domain.User, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) DeleteUser(ctx context.Context, p *auth.Principal, id int64) error {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return err
	}

	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.record(domain.AuditUserDeleted, p.Email, id)
	s.log.Info().Int64("user_id", id).Str("actor", p.Email).Msg("account deleted by admin")
	return nil
}

func (s *AuthService) ChangeRole(ctx context.Context, p *auth.Principal, id int64, role string) (*domain.User, error) {
	if err := auth.RequireRole(p, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.record(domain.AuditRoleChanged, p.Email, id)
	s.log.Info().Int64("user_id", id).Str("role", role).Str("actor", p.Email).Msg("role changed")
	return updated, nil
}

func (s *AuthService) failLogin(ctx context.Context, email string) {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login limiter record failed")
	}
	s.record(domain.AuditLoginFailed, email, 0)
}

func (s *AuthService) record(action, actor string, targetID int64) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		Actor:     actor,
		Action:    action,
		TargetID:  targetID,
		Timestamp: time.Now().UTC(),
	})
}
