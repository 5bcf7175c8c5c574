package memberstore_test

import (
	"errors"
	"testing"

	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
)

func TestStore_CreateDefaults(t *testing.T) {
	store := memberstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.Create(ctx, models.Member{Name: "  João Silva "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected generated id")
	}
	if m.Name != "João Silva" {
		t.Errorf("Name: got %q", m.Name)
	}
	if m.NameCI != text.Fold("João Silva") {
		t.Errorf("NameCI: got %q, want %q", m.NameCI, text.Fold("João Silva"))
	}
	if m.Status != models.MemberActive || m.Role != models.DefaultMemberRole {
		t.Errorf("defaults: status=%q role=%q", m.Status, m.Role)
	}

	got, err := store.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != m.Name {
		t.Errorf("Get name: got %q, want %q", got.Name, m.Name)
	}
}

func TestStore_ListActive_OrderedAndFiltered(t *testing.T) {
	store := memberstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, n := range []string{"Carla", "Ana", "Bruno"} {
		if _, err := store.Create(ctx, models.Member{Name: n}); err != nil {
			t.Fatalf("Create %s: %v", n, err)
		}
	}
	gone, _ := store.Create(ctx, models.Member{Name: "Aaron"})
	if err := store.SetStatus(ctx, gone.ID, models.MemberInactive); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	var names []string
	for _, m := range active {
		names = append(names, m.Name)
	}
	want := []string{"Ana", "Bruno", "Carla"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("List: got %d members, want 4", len(all))
	}
}

func TestStore_UpdateKeepsStatusAndCreatedAt(t *testing.T) {
	store := memberstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, _ := store.Create(ctx, models.Member{Name: "Ana"})
	_ = store.SetStatus(ctx, m.ID, models.MemberInactive)
	orig, _ := store.Get(ctx, m.ID)

	upd, err := store.Update(ctx, models.Member{ID: m.ID, Name: "Ana Souza", School: "EE Central"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Status != models.MemberInactive {
		t.Errorf("Status: got %q, want inactive", upd.Status)
	}
	if !upd.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", orig.CreatedAt, upd.CreatedAt)
	}

	if _, err := store.Update(ctx, models.Member{ID: "missing", Name: "X"}); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Update missing: got %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store := memberstore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, _ := store.Create(ctx, models.Member{Name: "Ana"})
	if err := store.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, m.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}
