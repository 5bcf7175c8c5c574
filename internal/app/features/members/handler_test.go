package members

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	ds := docstore.NewMemory()
	return NewHandler(ds, zap.NewNop()), testutil.NewFixtures(t, ds)
}

func TestHandleCreate(t *testing.T) {
	h, _ := newTestHandler(t)
	user := testutil.Director()

	body := map[string]any{
		"name":      "  Ana <b>Souza</b> ",
		"role":      "secretary",
		"birthdate": "2008-05-01",
		"languages": []map[string]string{{"language": "English", "level": "B2"}},
	}
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/api/members", body), user))

	rec.AssertStatus(t, http.StatusCreated)
	var got models.Member
	rec.DecodeJSON(t, &got)
	if got.ID == "" {
		t.Fatal("expected generated id")
	}
	if got.Name != "Ana Souza" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.Status != models.MemberActive || got.Role != "secretary" {
		t.Errorf("status/role: got %q/%q", got.Status, got.Role)
	}
	if len(got.Languages) != 1 || got.Languages[0].Level != "B2" {
		t.Errorf("languages: got %+v", got.Languages)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := h.Members.Get(ctx, got.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "Ana Souza" {
		t.Errorf("stored name: got %q", stored.Name)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing name", map[string]any{"name": "  "}, "Name is required."},
		{"bad role", map[string]any{"name": "Ana", "role": "king"}, "Role is invalid."},
		{"bad birthdate", map[string]any{"name": "Ana", "birthdate": "01/05/2008"}, "Birthdate must be a date in YYYY-MM-DD format."},
		{"bad level", map[string]any{"name": "Ana", "languages": []map[string]string{{"language": "English", "level": "Z9"}}}, "Level is invalid."},
		{"unknown field", map[string]any{"name": "Ana", "shoe": 42}, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, testutil.NewJSONRequest(t, "POST", "/api/members", tt.body))
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, tt.want)
		})
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	members, _ := h.Members.List(ctx)
	if len(members) != 0 {
		t.Errorf("no member should be stored, got %d", len(members))
	}
}

func TestHandleUpdate(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")

	req := testutil.NewJSONRequest(t, "PUT", "/api/members/"+ana.ID, map[string]any{"name": "Ana Souza", "school": "Central"})
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", ana.ID))

	rec.AssertStatus(t, http.StatusOK)
	got, err := h.Members.Get(ctx, ana.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Ana Souza" || got.School != "Central" {
		t.Errorf("unexpected member %+v", got)
	}
	if got.Status != models.MemberActive || got.Role != models.DefaultMemberRole {
		t.Errorf("status and role should be kept, got %q/%q", got.Status, got.Role)
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "PUT", "/api/members/nope", map[string]any{"name": "Ana"})
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", "nope"))

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDeactivate(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")

	rec := testutil.NewRecorder()
	h.HandleDeactivate(rec, testutil.WithChiURLParam(testutil.NewRequest("POST", "/"), "id", ana.ID))

	rec.AssertStatus(t, http.StatusNoContent)
	got, _ := h.Members.Get(ctx, ana.ID)
	if got.Status != models.MemberInactive {
		t.Errorf("status: got %q", got.Status)
	}

	rec = testutil.NewRecorder()
	h.HandleDeactivate(rec, testutil.WithChiURLParam(testutil.NewRequest("POST", "/"), "id", "missing"))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ana := fx.CreateMember(ctx, "Ana")

	rec := testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(testutil.NewRequest("DELETE", "/"), "id", ana.ID))

	rec.AssertStatus(t, http.StatusNoContent)
	members, _ := h.Members.List(ctx)
	if len(members) != 0 {
		t.Errorf("expected no members, got %d", len(members))
	}
}

func TestServeList(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateMember(ctx, "Carla")
	fx.CreateMember(ctx, "Ana")
	fx.CreateInactiveMember(ctx, "Bruno")

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all ordered by name", "/api/members", []string{"Ana", "Bruno", "Carla"}},
		{"active only", "/api/members?status=active", []string{"Ana", "Carla"}},
		{"inactive only", "/api/members?status=inactive", []string{"Bruno"}},
		{"search", "/api/members?q=car", []string{"Carla"}},
		{"search by role", "/api/members?q=member&status=active", []string{"Ana", "Carla"}},
		{"no match", "/api/members?q=zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeList(rec, testutil.NewRequest("GET", tt.target))
			rec.AssertStatus(t, http.StatusOK)

			var resp listResponse
			rec.DecodeJSON(t, &resp)
			if resp.Total != 3 || resp.Active != 2 {
				t.Errorf("counts: got total=%d active=%d", resp.Total, resp.Active)
			}
			if len(resp.Members) != len(tt.want) {
				t.Fatalf("got %d members, want %v", len(resp.Members), tt.want)
			}
			for i, name := range tt.want {
				if resp.Members[i].Name != name {
					t.Errorf("member %d: got %q, want %q", i, resp.Members[i].Name, name)
				}
			}
		})
	}
}

func TestBirthdaysInWeek(t *testing.T) {
	// Wednesday 2024-03-20; week is Sunday 17 to Saturday 23.
	now := time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC)
	members := []models.Member{
		{ID: "1", Name: "Sat", Birthdate: "2008-03-23"},
		{ID: "2", Name: "Sun", Birthdate: "2009-03-17"},
		{ID: "3", Name: "Next week", Birthdate: "2008-03-24"},
		{ID: "4", Name: "Last week", Birthdate: "2008-03-16"},
		{ID: "5", Name: "No date"},
		{ID: "6", Name: "Bad date", Birthdate: "20/03/2008"},
	}

	got := birthdaysInWeek(members, now)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Name != "Sun" || got[0].Date != "2024-03-17" {
		t.Errorf("first: got %+v", got[0])
	}
	if got[1].Name != "Sat" || got[1].Date != "2024-03-23" {
		t.Errorf("second: got %+v", got[1])
	}
}

func TestBirthdaysInWeek_AcrossNewYear(t *testing.T) {
	// Monday 2024-12-30; week is Sunday Dec 29 to Saturday Jan 4.
	now := time.Date(2024, time.December, 30, 9, 0, 0, 0, time.UTC)
	members := []models.Member{
		{ID: "1", Name: "January", Birthdate: "2008-01-02"},
		{ID: "2", Name: "December", Birthdate: "2007-12-31"},
	}

	got := birthdaysInWeek(members, now)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Date != "2024-12-31" || got[1].Date != "2025-01-02" {
		t.Errorf("unexpected order %+v", got)
	}
}

func TestServeBirthdays(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h.now = func() time.Time { return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.Local) }

	ana := fx.CreateMember(ctx, "Ana")
	ana.Birthdate = "2008-03-21"
	if _, err := h.Members.Update(ctx, ana); err != nil {
		t.Fatalf("update: %v", err)
	}

	rec := testutil.NewRecorder()
	h.ServeBirthdays(rec, testutil.NewRequest("GET", "/api/members/birthdays"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"date":"2024-03-21"`)
}
