// internal/app/store/oauthstate/store.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
)

// Collection holds pending OAuth states keyed by the state token.
const Collection = "oauthStates"

// State represents an OAuth2 state token stored for CSRF protection.
type State struct {
	State     string    `bson:"_id"`
	ReturnURL string    `bson:"return_url,omitempty"` // Where to redirect after auth
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// Store manages OAuth2 state tokens.
type Store struct {
	ds docstore.Store
}

// New creates a new OAuth state Store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Save stores a state token with the given expiration time and optional
// return URL.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	return s.ds.Set(ctx, Collection, state, State{
		State:     state,
		ReturnURL: returnURL,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	})
}

// Validate checks if a state token exists and is not expired.
// The token is deleted whether or not it is still valid (one-time use).
// Returns "" and false if the state is unknown or expired.
func (s *Store) Validate(ctx context.Context, state string) (returnURL string, valid bool, err error) {
	var st State
	err = s.ds.Get(ctx, Collection, state, &st)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if err := s.ds.Delete(ctx, Collection, state); err != nil {
		return "", false, err
	}
	if !st.ExpiresAt.After(time.Now()) {
		return "", false, nil
	}
	return st.ReturnURL, true, nil
}

// CleanupExpired removes expired state tokens. On MongoDB the TTL index on
// expires_at does this too; the memory backend relies on it.
func (s *Store) CleanupExpired(ctx context.Context) (int, error) {
	var all []State
	if err := s.ds.Query(ctx, Collection, docstore.Query{}, &all); err != nil {
		return 0, err
	}
	now := time.Now()
	n := 0
	for _, st := range all {
		if st.ExpiresAt.After(now) {
			continue
		}
		if err := s.ds.Delete(ctx, Collection, st.State); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
