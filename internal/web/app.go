package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/server"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/session"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/desertthunder/spotrec/internal/tasks"
)

// Options configures an [App].
type Options struct {
	Auth        services.Authenticator
	Clients     services.ClientFactory
	Recommender *tasks.Recommender
	Logger      *log.Logger
}

// App serves the recommender's pages.
type App struct {
	auth      services.Authenticator
	newClient services.ClientFactory
	rec       *tasks.Recommender
	views     map[string]*template.Template
	logger    *log.Logger
}

// New creates an [App]. Auth and Clients are required.
func New(opts Options) (*App, error) {
	if opts.Auth == nil || opts.Clients == nil {
		return nil, fmt.Errorf("%w: web app needs an authenticator and a client factory", shared.ErrInvalidConfig)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Recommender == nil {
		opts.Recommender = tasks.NewRecommender(tasks.Options{Logger: opts.Logger})
	}

	views, err := parseViews()
	if err != nil {
		return nil, err
	}

	return &App{
		auth:      opts.Auth,
		newClient: opts.Clients,
		rec:       opts.Recommender,
		views:     views,
		logger:    shared.WithLogger(opts.Logger, "component", "web"),
	}, nil
}

// Register adds the app's routes to r.
func (a *App) Register(r server.Router) {
	r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(a.home))
	r.Handle(http.MethodGet, "/login", http.HandlerFunc(a.login))
	r.Handle(http.MethodGet, "/callback", http.HandlerFunc(a.callback))
	r.Handle(http.MethodGet, "/logout", http.HandlerFunc(a.logout))
	r.Handle(http.MethodGet, "/profile", a.authenticated(a.profile))
	r.Handle(http.MethodGet, "/recommendations", a.authenticated(a.recommendations))
	r.Handle(http.MethodPost, "/create_playlist", a.authenticated(a.createPlaylist))
	r.Handle(http.MethodGet, "/playlist_success", http.HandlerFunc(a.playlistSuccess))
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(a.healthz))
}

// authedHandler is a handler that runs with an API client for the session's user.
type authedHandler func(w http.ResponseWriter, r *http.Request, api services.API)

// authenticated runs h only when the session holds a valid token bundle, redirecting to /login otherwise.
func (a *App) authenticated(h authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, ok := a.tokens(w, r)
		if !ok {
			return
		}

		bundle, err := a.auth.ValidToken(r.Context(), store)
		if err != nil {
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				a.logger.Warn("session token unusable", "path", r.URL.Path, "error", err)
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		h(w, r, a.newClient(bundle))
	})
}

// tokens returns the request's token store, answering 500 when the session middleware is missing.
func (a *App) tokens(w http.ResponseWriter, r *http.Request) (session.TokenStore, bool) {
	store := session.FromContext(r.Context())
	if store == nil {
		a.logger.Error("no session bound to request", "path", r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return store, true
}
