package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the payload carried by an access token.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenService(secret string, ttl time.Duration, clk clock.Clock) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, clock: clk}
}

// TTL reports the lifetime given to every issued token.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subjectID. The expiry is fixed at issue time.
func (s *TokenService) Issue(subjectID string, role domain.Role) (string, *Claims, error) {
	if subjectID == "" || !role.Valid() {
		return "", nil, fmt.Errorf("%w: token subject and role are required", domain.ErrInvalidInput)
	}
	now := s.clock.Now().Truncate(time.Second)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses and validates a token. Failures are either
// domain.ErrTokenExpired or domain.ErrTokenMalformed.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenMalformed
	}
	if !parsed.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}
