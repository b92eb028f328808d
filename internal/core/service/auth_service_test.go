package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

type authFixture struct {
	svc    *AuthService
	users  *stubUserRepo
	tokens *TokenService
	clock  *clock.Fake
}

func newAuthFixture(lockout LockoutPolicy) *authFixture {
	clk := clock.NewFake(testNow)
	users := newStubUserRepo()
	tokens := NewTokenService("secret", time.Hour, clk)
	throttle := NewLoginThrottle(newStubThrottleStore(), 15*time.Minute, 5, clk, zerolog.Nop())
	svc := NewAuthService(users, tokens, throttle, lockout, clk, zerolog.Nop())
	svc.hashCost = bcrypt.MinCost
	return &authFixture{svc: svc, users: users, tokens: tokens, clock: clk}
}

func (f *authFixture) seed(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.svc.createUser(context.Background(), email, email, "correct-horse", role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuthService_Register_AlwaysGuest(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{})

	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: " Alice@Example.com ", Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleGuest {
		t.Fatalf("expected guest role, got %s", user.Role)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if !user.IsActive {
		t.Fatalf("new users must be active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	_, err = f.svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice2", Email: "alice@example.com", Password: "pass1234",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{})
	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Username: "bob"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{})
	u := f.seed(t, "desk@hotel.test", domain.RoleReceptionist)

	res, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email: "DESK@hotel.test", Password: "correct-horse", ClientAddr: "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	claims, err := f.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != u.ID || claims.Role != domain.RoleReceptionist {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !res.ExpiresAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", res.ExpiresAt)
	}
}

func TestAuthService_Login_WrongPasswordCountsFailure(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{Threshold: 5, Duration: time.Hour})
	u := f.seed(t, "g@hotel.test", domain.RoleGuest)

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "g@hotel.test", Password: "nope", ClientAddr: "a"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	stored, _ := f.users.FindByID(context.Background(), u.ID)
	if stored.FailedLoginCount != 1 {
		t.Fatalf("expected 1 failure recorded, got %d", stored.FailedLoginCount)
	}

	_, err = f.svc.Login(context.Background(), ports.LoginInput{Email: "ghost@hotel.test", Password: "x", ClientAddr: "b"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestAuthService_Login_LockoutSelfClears(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{Threshold: 3, Duration: 30 * time.Minute})
	u := f.seed(t, "g@hotel.test", domain.RoleGuest)
	ctx := context.Background()

	// Distinct client addresses keep the per-address throttle out of the way.
	for i := 0; i < 3; i++ {
		_, _ = f.svc.Login(ctx, ports.LoginInput{Email: "g@hotel.test", Password: "bad", ClientAddr: fmt.Sprintf("10.0.0.%d", i)})
	}

	_, err := f.svc.Login(ctx, ports.LoginInput{Email: "g@hotel.test", Password: "correct-horse", ClientAddr: "10.1.0.1"})
	if !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	token, _, _ := f.tokens.Issue(u.ID, u.Role)
	if _, err := f.svc.Authenticate(ctx, "Bearer "+token); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("locked account must not authenticate, got %v", err)
	}

	f.clock.Advance(30 * time.Minute)

	if _, err := f.svc.Authenticate(ctx, "Bearer "+token); err != nil {
		t.Fatalf("lock should self-clear at locked_until, got %v", err)
	}
	res, err := f.svc.Login(ctx, ports.LoginInput{Email: "g@hotel.test", Password: "correct-horse", ClientAddr: "10.1.0.2"})
	if err != nil {
		t.Fatalf("login after lock expiry failed: %v", err)
	}
	if res.User.LockedUntil != nil || res.User.FailedLoginCount != 0 {
		t.Fatalf("successful login must reset lockout state: %+v", res.User)
	}
}

func TestAuthService_Login_SixthAttemptThrottled(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{Threshold: 100, Duration: time.Minute})
	f.seed(t, "g@hotel.test", domain.RoleGuest)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, ports.LoginInput{Email: "g@hotel.test", Password: "bad", ClientAddr: "203.0.113.9"})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
		f.clock.Advance(time.Minute)
	}

	// Valid credentials do not bypass the throttle.
	_, err := f.svc.Login(ctx, ports.LoginInput{Email: "g@hotel.test", Password: "correct-horse", ClientAddr: "203.0.113.9"})
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) || !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.RetryAfter != 10*time.Minute {
		t.Fatalf("expected retry after 10m, got %s", rl.RetryAfter)
	}

	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "g@hotel.test", Password: "correct-horse", ClientAddr: "198.51.100.1"}); err != nil {
		t.Fatalf("other client addresses are unaffected: %v", err)
	}

	f.clock.Advance(10 * time.Minute)
	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "g@hotel.test", Password: "correct-horse", ClientAddr: "203.0.113.9"}); err != nil {
		t.Fatalf("oldest failure left the window, login should pass: %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{})
	ctx := context.Background()
	active := f.seed(t, "a@hotel.test", domain.RoleGuest)
	inactive := f.seed(t, "i@hotel.test", domain.RoleGuest)
	_ = f.users.SetActive(ctx, inactive.ID, false)

	activeToken, _, _ := f.tokens.Issue(active.ID, active.Role)
	inactiveToken, _, _ := f.tokens.Issue(inactive.ID, inactive.Role)
	ghostToken, _, _ := f.tokens.Issue("ghost", domain.RoleAdmin)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", domain.ErrTokenMissing},
		{"bearer without token", "Bearer ", domain.ErrTokenMissing},
		{"wrong scheme", "Basic " + activeToken, domain.ErrTokenMalformed},
		{"garbage", "Bearer abc.def.ghi", domain.ErrTokenMalformed},
		{"unknown subject", "Bearer " + ghostToken, domain.ErrUnknownSubject},
		{"inactive", "Bearer " + inactiveToken, domain.ErrAccountInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Authenticate(ctx, tc.header)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("every failure must be ErrUnauthenticated, got %v", err)
			}
		})
	}

	t.Run("expired", func(t *testing.T) {
		f.clock.Advance(2 * time.Hour)
		defer f.clock.Set(testNow)
		if _, err := f.svc.Authenticate(ctx, "Bearer "+activeToken); !errors.Is(err, domain.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("uses stored role", func(t *testing.T) {
		_ = f.users.SetRole(ctx, active.ID, domain.RoleReceptionist)
		id, err := f.svc.Authenticate(ctx, "bearer "+activeToken)
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}
		if id.ID != active.ID || id.Email != "a@hotel.test" || id.Role != domain.RoleReceptionist {
			t.Fatalf("unexpected identity: %+v", id)
		}
	})
}

func TestUserService_LockUnlock(t *testing.T) {
	f := newAuthFixture(LockoutPolicy{})
	users := NewUserService(f.svc)
	ctx := context.Background()
	u := f.seed(t, "c@hotel.test", domain.RoleCleaning)

	locked, err := users.Lock(ctx, u.ID, time.Hour)
	if err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}
	if !locked.IsLocked(testNow) {
		t.Fatalf("expected account to be locked")
	}
	if _, err := users.Lock(ctx, u.ID, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero duration, got %v", err)
	}

	unlocked, err := users.Unlock(ctx, u.ID)
	if err != nil {
		t.Fatalf("Unlock returned error: %v", err)
	}
	if unlocked.IsLocked(testNow) {
		t.Fatalf("expected account to be unlocked")
	}

	if _, err := users.ChangeRole(ctx, u.ID, domain.Role(42)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for invalid role, got %v", err)
	}
	if _, err := users.GetUser(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
