package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/core/service"
)

type stubAuthService struct {
	ports.AuthService
	identities map[string]*domain.Identity
}

func (s *stubAuthService) Authenticate(_ context.Context, header string) (*domain.Identity, error) {
	if header == "" {
		return nil, domain.ErrTokenMissing
	}
	if id, ok := s.identities[header]; ok {
		return id, nil
	}
	return nil, domain.ErrTokenExpired
}

var (
	guestID = &domain.Identity{ID: "u-guest", Email: "g@example.com", Role: domain.RoleGuest}
	adminID = &domain.Identity{ID: "u-admin", Email: "a@example.com", Role: domain.RoleAdmin}
)

func newStubAuth() *stubAuthService {
	return &stubAuthService{identities: map[string]*domain.Identity{
		"Bearer guest": guestID,
		"Bearer admin": adminID,
	}}
}

func serve(mw []echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *domain.Identity, bool, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.Identity
	called := false
	h := func(c echo.Context) error {
		called = true
		seen = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	err := h(c)
	return rec, seen, called, err
}

func TestAuth_InjectsIdentity(t *testing.T) {
	_, seen, called, err := serve([]echo.MiddlewareFunc{Auth(newStubAuth())}, "Bearer guest")
	if err != nil || !called {
		t.Fatalf("expected next to run, err=%v", err)
	}
	if seen != guestID {
		t.Fatalf("identity not injected: %+v", seen)
	}
}

func TestAuth_RejectsMissingAndInvalid(t *testing.T) {
	for header, want := range map[string]error{
		"":             domain.ErrTokenMissing,
		"Bearer stale": domain.ErrTokenExpired,
	} {
		_, _, called, err := serve([]echo.MiddlewareFunc{Auth(newStubAuth())}, header)
		if called {
			t.Fatalf("%q: next must not run", header)
		}
		if !errors.Is(err, want) {
			t.Fatalf("%q: expected %v, got %v", header, want, err)
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	mw := []echo.MiddlewareFunc{OptionalAuth(newStubAuth())}

	_, seen, called, err := serve(mw, "")
	if err != nil || !called || seen != nil {
		t.Fatalf("anonymous request should pass without identity: err=%v called=%v seen=%v", err, called, seen)
	}

	_, seen, _, err = serve(mw, "Bearer admin")
	if err != nil || seen != adminID {
		t.Fatalf("expected admin identity, got %v (%v)", seen, err)
	}

	for _, header := range []string{"Bearer stale", "Bearer nobody", "Token admin"} {
		_, seen, called, err = serve(mw, header)
		if err != nil || !called || seen != nil {
			t.Fatalf("%q: invalid token should continue anonymously: err=%v called=%v seen=%v", header, err, called, seen)
		}
	}
}

func TestRBAC(t *testing.T) {
	authz := service.NewAuthorizer(nil, nil)
	chain := func() []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{Auth(newStubAuth()), RBAC(authz, domain.ManagerOrAbove)}
	}

	if _, _, called, err := serve(chain(), "Bearer admin"); err != nil || !called {
		t.Fatalf("admin should pass, err=%v", err)
	}
	if _, _, called, err := serve(chain(), "Bearer guest"); called || !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("guest should be forbidden, err=%v", err)
	}

	_, _, called, err := serve([]echo.MiddlewareFunc{RBAC(authz, domain.ManagerOrAbove)}, "")
	if called || !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("missing identity should be unauthenticated, err=%v", err)
	}
}
