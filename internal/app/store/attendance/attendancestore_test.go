package attendancestore_test

import (
	"testing"

	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	"github.com/dalemusser/clubhub/internal/app/system/docstore"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
)

func TestStore_UpsertIsReplace(t *testing.T) {
	store := attendancestore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := models.AttendanceRecord{
		MemberID:      "m1",
		ReferenceID:   "s1",
		ReferenceKind: models.SessionMeeting,
		Status:        models.AttendancePresent,
	}
	first, err := store.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.ID != "meeting_s1_m1" {
		t.Errorf("ID: got %q, want meeting_s1_m1", first.ID)
	}

	rec.Status = models.AttendanceExcused
	rec.Note = "sick"
	if _, err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	n, _ := store.Count(ctx)
	if n != 1 {
		t.Fatalf("Count: got %d, want 1", n)
	}
	recs, _ := store.ForSession(ctx, models.SessionMeeting, "s1")
	if len(recs) != 1 || recs[0].Status != models.AttendanceExcused || recs[0].Note != "sick" {
		t.Errorf("unexpected records: %+v", recs)
	}
}

func TestStore_ForSessionSeparatesKinds(t *testing.T) {
	store := attendancestore.New(docstore.NewMemory())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, kind := range []string{models.SessionMeeting, models.SessionEvent} {
		if _, err := store.Upsert(ctx, models.AttendanceRecord{
			MemberID: "m1", ReferenceID: "same-id", ReferenceKind: kind, Status: models.AttendancePresent,
		}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	recs, err := store.ForSession(ctx, models.SessionEvent, "same-id")
	if err != nil {
		t.Fatalf("ForSession: %v", err)
	}
	if len(recs) != 1 || recs[0].ReferenceKind != models.SessionEvent {
		t.Errorf("unexpected records: %+v", recs)
	}

	n, err := store.DeleteForSession(ctx, models.SessionMeeting, "same-id")
	if err != nil || n != 1 {
		t.Fatalf("DeleteForSession: n=%d err=%v", n, err)
	}
	if total, _ := store.Count(ctx); total != 1 {
		t.Errorf("Count after delete: got %d, want 1", total)
	}
}
