package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

const defaultCookieName = "spotify-music-recommender"

type ctxKey struct{}

// Claims is the payload of the session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Options configures a [Manager].
type Options struct {
	Store      Store
	SecretKey  string
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     *log.Logger
}

// Manager issues session cookies and binds a [TokenStore] to each request.
type Manager struct {
	store  Store
	secret []byte
	cookie string
	ttl    time.Duration
	secure bool
	logger *log.Logger
	now    func() time.Time
}

// NewManager creates a [Manager]. Store and SecretKey are required.
func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: session store is required", shared.ErrInvalidConfig)
	}
	if opts.SecretKey == "" {
		return nil, fmt.Errorf("%w: session secret key is required", shared.ErrMissingCredentials)
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Manager{
		store:  opts.Store,
		secret: []byte(opts.SecretKey),
		cookie: opts.CookieName,
		ttl:    opts.TTL,
		secure: opts.Secure,
		logger: opts.Logger,
		now:    time.Now,
	}, nil
}

// Sign returns the signed cookie value for session id.
func (m *Manager) Sign(id string) (string, error) {
	now := m.now()
	claims := Claims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks a cookie value and returns the session id it carries.
func (m *Manager) Verify(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !shared.IsID(claims.SessionID) {
		return "", shared.ErrInvalidSession
	}
	return claims.SessionID, nil
}

// Middleware resolves the session for every request, creating one when the cookie is missing or invalid.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.resolve(r)
		if err != nil {
			id = shared.GenerateID()
			value, signErr := m.Sign(id)
			if signErr != nil {
				m.logger.Error("failed to sign session cookie", "error", signErr)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, m.newCookie(value))
			m.logger.Debug("started session", "session", id, "reason", err)
		}

		ctx := WithTokenStore(r.Context(), NewTokens(m.store, id, m.ttl))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) resolve(r *http.Request) (string, error) {
	c, err := r.Cookie(m.cookie)
	if err != nil {
		return "", err
	}
	return m.Verify(c.Value)
}

func (m *Manager) newCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// WithTokenStore returns a copy of ctx carrying ts.
func WithTokenStore(ctx context.Context, ts TokenStore) context.Context {
	return context.WithValue(ctx, ctxKey{}, ts)
}

// FromContext returns the request's [TokenStore], or nil outside [Manager.Middleware].
func FromContext(ctx context.Context) TokenStore {
	ts, _ := ctx.Value(ctxKey{}).(TokenStore)
	return ts
}
