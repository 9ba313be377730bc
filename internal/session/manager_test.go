package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	m, err := NewManager(Options{
		Store:     store,
		SecretKey: "test-secret",
		TTL:       time.Hour,
		Logger:    shared.NewLogger(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m, store
}

func TestManager(t *testing.T) {
	t.Run("NewManager", func(t *testing.T) {
		t.Run("requires store", func(t *testing.T) {
			if _, err := NewManager(Options{SecretKey: "x"}); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("requires secret", func(t *testing.T) {
			if _, err := NewManager(Options{Store: NewMemoryStore()}); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("defaults cookie name", func(t *testing.T) {
			m, _ := newTestManager(t)
			if m.cookie != defaultCookieName {
				t.Errorf("expected %s, got %s", defaultCookieName, m.cookie)
			}
		})
	})

	t.Run("Sign And Verify", func(t *testing.T) {
		m, _ := newTestManager(t)
		id := shared.GenerateID()

		value, err := m.Sign(id)
		if err != nil {
			t.Fatalf("sign failed: %v", err)
		}

		got, err := m.Verify(value)
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if got != id {
			t.Errorf("expected %s, got %s", id, got)
		}

		t.Run("rejects other secret", func(t *testing.T) {
			other, _ := NewManager(Options{Store: NewMemoryStore(), SecretKey: "other", Logger: shared.NewLogger(io.Discard)})
			if _, err := other.Verify(value); !errors.Is(err, shared.ErrInvalidSession) {
				t.Errorf("expected ErrInvalidSession, got %v", err)
			}
		})

		t.Run("rejects expired cookie", func(t *testing.T) {
			m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
			defer func() { m.now = time.Now }()
			if _, err := m.Verify(value); err == nil {
				t.Error("expected expired cookie to fail")
			}
		})

		t.Run("rejects none algorithm", func(t *testing.T) {
			token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
				SessionID:        id,
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			})
			unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
			if err != nil {
				t.Fatalf("failed to build unsigned token: %v", err)
			}
			if _, err := m.Verify(unsigned); err == nil {
				t.Error("expected unsigned token to be rejected")
			}
		})

		t.Run("rejects non uuid session id", func(t *testing.T) {
			value, _ := m.Sign("not-a-uuid")
			if _, err := m.Verify(value); !errors.Is(err, shared.ErrInvalidSession) {
				t.Errorf("expected ErrInvalidSession, got %v", err)
			}
		})
	})

	t.Run("Middleware", func(t *testing.T) {
		m, _ := newTestManager(t)

		var seen TokenStore
		handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = FromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		t.Run("new visitor gets a cookie", func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			cookies := rec.Result().Cookies()
			if len(cookies) != 1 || cookies[0].Name != defaultCookieName {
				t.Fatalf("expected session cookie, got %v", cookies)
			}
			if !cookies[0].HttpOnly || cookies[0].SameSite != http.SameSiteLaxMode {
				t.Error("expected HttpOnly, SameSite=Lax cookie")
			}
			if seen == nil {
				t.Fatal("expected token store in context")
			}
		})

		t.Run("returning visitor keeps session", func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			cookie := rec.Result().Cookies()[0]

			if err := seen.Set(context.Background(), sampleBundle("persisted")); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			first := seen.(*Tokens).ID()

			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			req.AddCookie(cookie)
			rec = httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if len(rec.Result().Cookies()) != 0 {
				t.Error("valid cookie should not be reissued")
			}
			if seen.(*Tokens).ID() != first {
				t.Errorf("expected session %s, got %s", first, seen.(*Tokens).ID())
			}
			b, err := seen.Get(context.Background())
			if err != nil || b == nil || b.AccessToken != "persisted" {
				t.Errorf("expected persisted bundle, got (%v, %v)", b, err)
			}
		})

		t.Run("tampered cookie starts anonymous session", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: defaultCookieName, Value: "garbage"})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if len(rec.Result().Cookies()) != 1 {
				t.Error("expected replacement cookie")
			}
			b, err := seen.Get(context.Background())
			if err != nil || b != nil {
				t.Errorf("expected empty session, got (%v, %v)", b, err)
			}
		})
	})

	t.Run("FromContext without middleware", func(t *testing.T) {
		if FromContext(context.Background()) != nil {
			t.Error("expected nil token store")
		}
	})
}
