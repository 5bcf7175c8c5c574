package eventstore_test

import (
	"errors"
	"testing"

	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
)

func TestStore_CreateUpdateDelete(t *testing.T) {
	store := eventstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e, err := store.Create(ctx, models.Event{Name: "Food drive", Date: "2024-04-20"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	orig, _ := store.Get(ctx, e.ID)
	e.Venue = "Town hall"
	upd, err := store.Update(ctx, e)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !upd.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("CreatedAt changed on update")
	}

	got, _ := store.Get(ctx, e.ID)
	if got.Venue != "Town hall" {
		t.Errorf("Venue: got %q", got.Venue)
	}

	if err := store.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, e.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Get after delete: got %v", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := eventstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _ = store.Create(ctx, models.Event{Name: "Old", Date: "2023-12-01"})
	_, _ = store.Create(ctx, models.Event{Name: "New", Date: "2024-02-01"})

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "New" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
