// Package token issues and verifies the access/refresh token pair. The
// service is stateless; the only storage-backed piece is the rotation
// denylist in denylist.go.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/accesshub/accesshub/internal/authn"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// signing method, malformed claims, expiry. Callers must not leak the
// distinction.
var ErrInvalidToken = errors.New("token: invalid token")

// Pair is one issued access/refresh token pair.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Claims is the payload carried by both token kinds. Subject holds the user
// ID; refresh tokens additionally carry a unique ID (jti) for the rotation
// denylist.
type Claims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	RoleID int64  `json:"roleId"`
}

// RefreshClaims is the verified content of a refresh token.
type RefreshClaims struct {
	Principal authn.Principal
	TokenID   string
	ExpiresAt time.Time
}

// Config carries the token service settings.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Service signs and verifies tokens. Access and refresh tokens use distinct
// secrets so possession of one does not allow forging the other.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService constructs a Service. The clock defaults to time.Now.
func NewService(cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Service{cfg: cfg, now: time.Now}
}

// WithClock overrides the clock. Tests use this to cross expiry boundaries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RefreshTTL reports the configured refresh token lifetime, used for the
// cookie max age.
func (s *Service) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

// Issue produces a fresh access/refresh pair for the principal.
func (s *Service) Issue(p authn.Principal) (Pair, error) {
	now := s.now()
	access, err := s.sign(p, s.cfg.AccessSecret, now, s.cfg.AccessTTL, "")
	if err != nil {
		return Pair{}, fmt.Errorf("token: sign access: %w", err)
	}
	refresh, err := s.sign(p, s.cfg.RefreshSecret, now, s.cfg.RefreshTTL, uuid.NewString())
	if err != nil {
		return Pair{}, fmt.Errorf("token: sign refresh: %w", err)
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns the principal it encodes.
func (s *Service) VerifyAccess(tokenString string) (authn.Principal, error) {
	claims, err := s.verify(tokenString, s.cfg.AccessSecret)
	if err != nil {
		return authn.Principal{}, err
	}
	return claims.principal()
}

// VerifyRefresh validates a refresh token under the refresh secret.
func (s *Service) VerifyRefresh(tokenString string) (RefreshClaims, error) {
	claims, err := s.verify(tokenString, s.cfg.RefreshSecret)
	if err != nil {
		return RefreshClaims{}, err
	}
	principal, err := claims.principal()
	if err != nil {
		return RefreshClaims{}, err
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return RefreshClaims{
		Principal: principal,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) sign(p authn.Principal, secret []byte, now time.Time, ttl time.Duration, jti string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		Email:  p.Email,
		RoleID: p.RoleID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Service) verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Claims) principal() (authn.Principal, error) {
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return authn.Principal{}, ErrInvalidToken
	}
	return authn.Principal{UserID: userID, Email: c.Email, RoleID: c.RoleID}, nil
}
