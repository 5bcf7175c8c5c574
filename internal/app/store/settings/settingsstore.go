// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Collection is the settings collection name.
const Collection = "settings"

// Store provides access to the singleton settings document.
type Store struct {
	ds          docstore.Store
	defaultRate int64
}

// New creates a new settings store. defaultRate (cents) is reported until a
// rate has been saved; zero means models.DefaultDuesRate.
func New(ds docstore.Store, defaultRate int64) *Store {
	if defaultRate <= 0 {
		defaultRate = models.DefaultDuesRate
	}
	return &Store{ds: ds, defaultRate: defaultRate}
}

// Get returns the club settings.
// If no settings exist, returns default settings.
func (s *Store) Get(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := s.ds.Get(ctx, Collection, models.SettingsID, &settings)
	if errors.Is(err, docstore.ErrNotFound) {
		return models.Settings{ID: models.SettingsID, DuesRate: s.defaultRate}, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	if settings.DuesRate <= 0 {
		settings.DuesRate = s.defaultRate
	}
	return settings, nil
}

// SetRate merges a new dues rate into the settings document, creating it
// when missing.
func (s *Store) SetRate(ctx context.Context, cents int64, updatedBy string) error {
	now := time.Now().UTC()
	err := s.ds.Update(ctx, Collection, models.SettingsID, map[string]any{
		"dues_rate":  cents,
		"updated_at": now,
		"updated_by": updatedBy,
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return s.ds.Set(ctx, Collection, models.SettingsID, models.Settings{
			ID:        models.SettingsID,
			DuesRate:  cents,
			UpdatedAt: &now,
			UpdatedBy: updatedBy,
		})
	}
	return err
}

// Exists checks if settings have been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	return s.ds.Exists(ctx, Collection, models.SettingsID)
}
