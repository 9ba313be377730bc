package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/spotrec/internal/server"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/session"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/desertthunder/spotrec/internal/tasks"
	"github.com/desertthunder/spotrec/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve starts the web server and blocks until SIGINT/SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		config.Server.Port = port
	}
	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			r.logger.Warn("failed to close session store", "error", err)
		}
	}()

	handler, err := r.buildHandler(config, store)
	if err != nil {
		return err
	}

	if p, ok := store.(session.Pruner); ok {
		ttl, _ := config.Session.SessionTTL()
		sweepCtx, stopSweep := context.WithCancel(ctx)
		defer stopSweep()
		go session.Sweep(sweepCtx, p, sweepInterval(ttl), r.logger)
	}

	var ready chan string
	if cmd.Bool("open") {
		ready = make(chan string, 1)
		go func() {
			select {
			case addr := <-ready:
				if err := r.openBrowser("http://" + addr + "/"); err != nil {
					r.logger.Warn("failed to open browser", "error", err)
				}
			case <-ctx.Done():
			}
		}()
	}

	return server.Serve(ctx, config.Server.Addr(), handler, r.logger, ready)
}

// openStore builds the session backend selected by config.
func (r *Runner) openStore(ctx context.Context, config *shared.Config) (session.Store, func() error, error) {
	noop := func() error { return nil }

	switch config.Session.Backend {
	case "", shared.BackendMemory:
		r.logger.Info("using in-memory session store")
		return session.NewMemoryStore(), noop, nil
	case shared.BackendSQLite:
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open session database: %w", err)
		}
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

		applied, err := shared.RunMigrations(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		r.logger.Info("using sqlite session store", "path", config.Database.Path, "migrations", applied)
		return session.NewSQLiteStore(db), db.Close, nil
	case shared.BackendRedis:
		store, err := session.NewRedisStore(ctx, config.Session.RedisURL, config.Session.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		r.logger.Info("using redis session store")
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, config.Session.Backend)
	}
}

// buildHandler wires the OAuth manager, API client factory and web app behind the middleware stack.
func (r *Runner) buildHandler(config *shared.Config, store session.Store) (http.Handler, error) {
	ttl, err := config.Session.SessionTTL()
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(session.Options{
		Store:      store,
		SecretKey:  config.Server.SecretKey,
		CookieName: config.Server.CookieName,
		TTL:        ttl,
		Secure:     config.Server.SecureCookie,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, err
	}

	oauth, err := services.NewOAuthManager(config, r.logger)
	if err != nil {
		return nil, err
	}
	oauth.SetHTTPClient(r.httpClient)

	app, err := web.New(web.Options{
		Auth:    oauth,
		Clients: services.NewClientFactory(config.Spotify.APIURL, r.httpClient),
		Recommender: tasks.NewRecommender(tasks.Options{
			TopLimit:            config.Spotify.TopLimit,
			RecommendationLimit: config.Spotify.RecommendationLimit,
			LookupRate:          config.Spotify.LookupRate,
			Logger:              r.logger,
		}),
		Logger: r.logger,
	})
	if err != nil {
		return nil, err
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger), sessions.Middleware)
	app.Register(router)
	return router, nil
}

// sweepInterval runs the store sweep a few times per session lifetime, at most every minute.
func sweepInterval(ttl time.Duration) time.Duration {
	if every := ttl / 4; every > time.Minute {
		return every
	}
	return time.Minute
}
