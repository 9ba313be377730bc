package session

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spotrec/internal/models"
)

// Store persists token bundles keyed by session id.
//
// Load returns (nil, nil) when the id is unknown or its entry has expired.
type Store interface {
	Load(ctx context.Context, id string) (*models.TokenBundle, error)
	Save(ctx context.Context, id string, bundle *models.TokenBundle, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// TokenStore is the token bundle of a single session.
type TokenStore interface {
	Get(ctx context.Context) (*models.TokenBundle, error) // Get returns (nil, nil) when logged out
	Set(ctx context.Context, bundle *models.TokenBundle) error
	Clear(ctx context.Context) error
}

// Tokens binds a [Store] to one session id.
type Tokens struct {
	store Store
	id    string
	ttl   time.Duration
}

// NewTokens returns the [TokenStore] for session id.
func NewTokens(store Store, id string, ttl time.Duration) *Tokens {
	return &Tokens{store: store, id: id, ttl: ttl}
}

// ID returns the session id.
func (t *Tokens) ID() string { return t.id }

func (t *Tokens) Get(ctx context.Context) (*models.TokenBundle, error) {
	b, err := t.store.Load(ctx, t.id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", t.id, err)
	}
	return b, nil
}

// Set replaces the session's bundle wholesale.
func (t *Tokens) Set(ctx context.Context, bundle *models.TokenBundle) error {
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("refusing to store bundle: %w", err)
	}
	if err := t.store.Save(ctx, t.id, bundle, t.ttl); err != nil {
		return fmt.Errorf("failed to save session %s: %w", t.id, err)
	}
	return nil
}

func (t *Tokens) Clear(ctx context.Context) error {
	if err := t.store.Delete(ctx, t.id); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", t.id, err)
	}
	return nil
}

func cloneBundle(b *models.TokenBundle) *models.TokenBundle {
	if b == nil {
		return nil
	}
	c := *b
	if b.Scope != nil {
		c.Scope = append([]string(nil), b.Scope...)
	}
	return &c
}
