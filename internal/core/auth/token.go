package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ecomstack/commerce-api/internal/core/domain"
)

// Claims is the payload carried by issued tokens. The subject is the user's
// email; the role is captured at issuance time and may drift from the live
// record before expiry.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates self-contained HS256 session tokens.
// It is read-only after construction and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService. An empty secret is a configuration
// error and must abort startup, not surface at request time.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the wall clock. Intended for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the given user, valid from now until now+TTL.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies the signature and expiry of a serialized token and
// returns its claims. Malformed tokens and bad signatures map to
// domain.ErrTokenInvalid; expiry maps to domain.ErrTokenExpired. Both are
// terminal reject outcomes; the split exists only for differentiated logging.
func (s *TokenService) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// MatchesIdentity reports whether the token subject equals the email of an
// independently looked-up identity. Guards against stale tokens whose subject
// no longer resolves to the same record.
func (s *TokenService) MatchesIdentity(claims *Claims, email string) bool {
	if claims == nil || email == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(claims.Subject), []byte(email)) == 1
}
