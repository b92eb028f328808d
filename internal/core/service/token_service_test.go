package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	clk := clock.NewFake(testNow)
	svc := NewTokenService("secret", time.Hour, clk)

	token, issued, err := svc.Issue("user-1", domain.RoleReceptionist)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if !issued.ExpiresAt.Time.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", issued.ExpiresAt.Time)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != domain.RoleReceptionist {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IssuedAt.Time.Equal(testNow) {
		t.Fatalf("unexpected issued_at: %v", claims.IssuedAt.Time)
	}
}

func TestTokenService_IssueIsDeterministic(t *testing.T) {
	clk := clock.NewFake(testNow)
	svc := NewTokenService("secret", time.Hour, clk)

	a, _, _ := svc.Issue("user-1", domain.RoleGuest)
	b, _, _ := svc.Issue("user-1", domain.RoleGuest)
	if a != b {
		t.Fatalf("expected identical tokens for identical inputs")
	}
}

func TestTokenService_Expiry(t *testing.T) {
	clk := clock.NewFake(testNow)
	svc := NewTokenService("secret", time.Hour, clk)
	token, _, _ := svc.Issue("user-1", domain.RoleGuest)

	clk.Advance(time.Hour - time.Second)
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	clk.Advance(time.Second)
	_, err := svc.Verify(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expired token should be an authentication failure")
	}
	if errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expired must be distinguishable from malformed")
	}
}

func TestTokenService_Malformed(t *testing.T) {
	clk := clock.NewFake(testNow)
	svc := NewTokenService("secret", time.Hour, clk)
	valid, _, _ := svc.Issue("user-1", domain.RoleGuest)

	other := NewTokenService("other-secret", time.Hour, clk)
	foreign, _, _ := other.Issue("user-1", domain.RoleGuest)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	hs384, _ := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
		"sub": "user-1", "role": "guest", "exp": testNow.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	unknownRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "role": "emperor", "exp": testNow.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "role": "guest",
	}).SignedString([]byte("secret"))

	cases := map[string]string{
		"garbage":      "not-a-token",
		"empty":        "",
		"wrong secret": foreign,
		"tampered":     tampered,
		"wrong method": hs384,
		"unknown role": unknownRole,
		"missing exp":  noExpiry,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			if !errors.Is(err, domain.ErrTokenMalformed) {
				t.Fatalf("expected ErrTokenMalformed, got %v", err)
			}
		})
	}
}

func TestTokenService_IssueRejectsInvalidRole(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, clock.NewFake(testNow))
	if _, _, err := svc.Issue("user-1", domain.Role(0)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
