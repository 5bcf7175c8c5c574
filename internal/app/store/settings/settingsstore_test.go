package settingsstore_test

import (
	"testing"

	settingsstore "github.com/dalemusser/clubhub/internal/app/store/settings"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
)

func TestStore_Get_NoSettings(t *testing.T) {
	store := settingsstore.New(docstore.NewMemory(), 0)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.DuesRate != models.DefaultDuesRate {
		t.Errorf("DuesRate: got %d, want default %d", settings.DuesRate, models.DefaultDuesRate)
	}

	exists, _ := store.Exists(ctx)
	if exists {
		t.Error("Get must not create the settings document")
	}
}

func TestStore_Get_ConfiguredDefault(t *testing.T) {
	store := settingsstore.New(docstore.NewMemory(), 2000)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	settings, _ := store.Get(ctx)
	if settings.DuesRate != 2000 {
		t.Errorf("DuesRate: got %d, want 2000", settings.DuesRate)
	}
}

func TestStore_SetRate_CreatesThenMerges(t *testing.T) {
	ds := docstore.NewMemory()
	store := settingsstore.New(ds, 0)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SetRate(ctx, 2500, "ana@club.org"); err != nil {
		t.Fatalf("SetRate: %v", err)
	}
	if err := store.SetRate(ctx, 3000, "bruno@club.org"); err != nil {
		t.Fatalf("second SetRate: %v", err)
	}

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.DuesRate != 3000 || settings.UpdatedBy != "bruno@club.org" {
		t.Errorf("got %+v", settings)
	}
	if settings.UpdatedAt == nil {
		t.Error("UpdatedAt not set")
	}

	n, _ := ds.Count(ctx, settingsstore.Collection)
	if n != 1 {
		t.Errorf("settings documents: got %d, want 1", n)
	}
}
