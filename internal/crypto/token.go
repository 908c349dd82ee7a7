package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when neither the service nor the caller sets one.
const DefaultTokenTTL = 10 * time.Minute

const tokenAudience = "watshodapay-api"

var ErrEmptySecret = errors.New("token secret must not be empty")

// Identity is what a token says about its bearer.
type Identity struct {
	ID               int64
	Email            string
	Name             string
	HasExpiredDebts  bool
	HasExpiringDebts bool
	ExpiresAt        time.Time
}

// Claims is the signed claim set.
type Claims struct {
	jwt.RegisteredClaims
	UserID           int64  `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	HasExpiredDebts  bool   `json:"has_expired_debts,omitempty"`
	HasExpiringDebts bool   `json:"has_expiring_debts,omitempty"`
}

// TokenService issues and verifies HS256 tokens with a process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService creates a TokenService. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}, nil
}

// TTL is the lifetime used when Issue is called without one.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for id that expires after ttl, or after the service
// TTL when ttl is not positive. It returns the token and its expiry.
func (s *TokenService) Issue(id Identity, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:           id.ID,
		Email:            id.Email,
		Name:             id.Name,
		HasExpiredDebts:  id.HasExpiredDebts,
		HasExpiringDebts: id.HasExpiringDebts,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.Truncate(time.Second), nil
}

// Verify checks signature, issuer, audience and expiry. Any failure yields
// ok == false; a token without a user id is treated the same way.
func (s *TokenService) Verify(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return Identity{}, false
	}

	return Identity{
		ID:               claims.UserID,
		Email:            claims.Email,
		Name:             claims.Name,
		HasExpiredDebts:  claims.HasExpiredDebts,
		HasExpiringDebts: claims.HasExpiringDebts,
		ExpiresAt:        claims.ExpiresAt.Time,
	}, true
}
