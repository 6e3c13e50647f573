package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/storefrontlabs/storefront-api/pkg/auth"
	"github.com/storefrontlabs/storefront-api/pkg/config"
	"github.com/storefrontlabs/storefront-api/pkg/logger"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "middleware-test-secret",
	Issuer:            "storefront-test",
	ExpirationMinutes: 5,
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubSessionChecker struct {
	sessions map[string]bool
	err      error
}

func (s *stubSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.sessions[accessID], nil
}

func mintToken(t *testing.T, userID uuid.UUID, username string, staff bool, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Username: username,
		IsStaff:  staff,
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	checker := &stubSessionChecker{sessions: map[string]bool{"live-session": true}}
	chain := Auth(testJWTConfig, checker, testLogger())

	var seenUserID string
	var seenStaff bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		seenStaff = IsStaffFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer token passes with context seeded", func(t *testing.T) {
		userID := uuid.New()
		token := mintToken(t, userID, "alice", true, "live-session")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		chain(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if seenUserID != userID.String() {
			t.Fatalf("expected user id %s in context, got %q", userID, seenUserID)
		}
		if !seenStaff {
			t.Fatal("expected staff flag in context")
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(next).ServeHTTP(rec, httptest.NewRequest("GET", "/orders/", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		chain(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("wrong signing key rejected", func(t *testing.T) {
		otherCfg := testJWTConfig
		otherCfg.Secret = "some-other-secret"
		token, err := pkgAuth.MintAccessToken(otherCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			UserID:   uuid.New(),
			Username: "mallory",
			JTI:      "live-session",
		})
		if err != nil {
			t.Fatalf("mint token: %v", err)
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		chain(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("revoked session rejected", func(t *testing.T) {
		token := mintToken(t, uuid.New(), "alice", false, "revoked-session")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		chain(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireStaff(t *testing.T) {
	chain := RequireStaff(testLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("staff passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/products/", nil)
		req = req.WithContext(WithStaff(req.Context(), true))
		chain(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("non-staff blocked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/products/", nil)
		req = req.WithContext(WithStaff(req.Context(), false))
		chain(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("anonymous blocked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(next).ServeHTTP(rec, httptest.NewRequest("POST", "/products/", nil))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}
