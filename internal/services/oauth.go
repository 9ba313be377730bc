package services

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/session"
	"github.com/desertthunder/spotrec/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes requested at login.
var Scopes = []string{
	"user-read-email",
	"user-read-private",
	"user-library-modify",
	"user-library-read",
	"user-read-recently-played",
	"user-top-read",
	"playlist-read-private",
	"playlist-modify-private",
	"playlist-modify-public",
}

// OAuthManager runs the authorization code flow and keeps a session's token bundle fresh.
type OAuthManager struct {
	config     *oauth2.Config
	showDialog bool
	httpClient *http.Client
	logger     *log.Logger
	now        func() time.Time
}

// NewOAuthManager creates an [OAuthManager] from the Spotify credentials and endpoints in cfg.
func NewOAuthManager(cfg *shared.Config, logger *log.Logger) (*OAuthManager, error) {
	creds := cfg.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, shared.ErrMissingCredentials
	}
	if creds.RedirectURI == "" {
		return nil, shared.ErrMissingConfig
	}

	authURL, tokenURL := cfg.Spotify.AuthURL, cfg.Spotify.TokenURL
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &OAuthManager{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		showDialog: cfg.Spotify.ShowDialog,
		logger:     shared.WithLogger(logger, "component", "oauth"),
		now:        time.Now,
	}, nil
}

// SetHTTPClient overrides the client used to reach the token endpoint.
func (m *OAuthManager) SetHTTPClient(c *http.Client) { m.httpClient = c }

// AuthorizeURL returns the URL the user is sent to for consent. It has no side effects.
func (m *OAuthManager) AuthorizeURL() string {
	var opts []oauth2.AuthCodeOption
	if m.showDialog {
		opts = append(opts, oauth2.SetAuthURLParam("show_dialog", "true"))
	}
	return m.config.AuthCodeURL("", opts...)
}

// Exchange trades an authorization code for a token bundle and stores it.
func (m *OAuthManager) Exchange(ctx context.Context, code string, store session.TokenStore) (*models.TokenBundle, error) {
	if code == "" {
		return nil, &shared.AuthError{Op: "exchange", Err: shared.ErrMissingArgument}
	}

	token, err := m.config.Exchange(m.context(ctx), code)
	if err != nil {
		return nil, &shared.AuthError{Op: "exchange", Err: err}
	}

	bundle := models.NewTokenBundle(token)
	if err := bundle.Validate(); err != nil {
		return nil, &shared.AuthError{Op: "exchange", Err: err}
	}
	if err := store.Set(ctx, bundle); err != nil {
		return nil, err
	}

	m.logger.Info("exchanged authorization code", "expires_at", bundle.ExpiresAt, "scopes", len(bundle.Scope))
	return bundle, nil
}

// ValidToken returns the session's bundle, refreshing it once when expired.
//
// A failed refresh returns an [shared.AuthError] and leaves the stored bundle untouched.
func (m *OAuthManager) ValidToken(ctx context.Context, store session.TokenStore) (*models.TokenBundle, error) {
	bundle, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if !bundle.Expired(m.now()) {
		return bundle, nil
	}

	fresh, err := m.refresh(ctx, bundle)
	if err != nil {
		m.logger.Warn("token refresh failed", "error", err)
		return nil, err
	}
	if err := store.Set(ctx, fresh); err != nil {
		return nil, err
	}

	m.logger.Debug("refreshed access token", "expires_at", fresh.ExpiresAt)
	return fresh, nil
}

func (m *OAuthManager) refresh(ctx context.Context, stale *models.TokenBundle) (*models.TokenBundle, error) {
	if stale.RefreshToken == "" {
		return nil, &shared.AuthError{Op: "refresh", Err: shared.ErrNoRefreshToken}
	}

	// An empty access token forces the source to hit the token endpoint.
	src := m.config.TokenSource(m.context(ctx), &oauth2.Token{RefreshToken: stale.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, &shared.AuthError{Op: "refresh", Err: err}
	}

	fresh := models.NewTokenBundle(token)
	if err := fresh.Validate(); err != nil {
		return nil, &shared.AuthError{Op: "refresh", Err: err}
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = stale.RefreshToken
	}
	if len(fresh.Scope) == 0 {
		fresh.Scope = stale.Scope
	}
	return fresh, nil
}

func (m *OAuthManager) context(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}
