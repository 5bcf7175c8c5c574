package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/validators"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range []string{"members", "meetings", "events", "attendance", "finances", "memberPayments", "settings", "oauthStates"} {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestValidators_RejectAndAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	now := time.Now().UTC()

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"member ok", "members", bson.M{"name": "Ana", "name_ci": "ana", "status": "active", "role": "secretary"}, false},
		{"member missing name", "members", bson.M{"status": "active", "role": "member"}, true},
		{"member bad role", "members", bson.M{"name": "Ana", "name_ci": "ana", "status": "active", "role": "captain"}, true},
		{"member bad level", "members", bson.M{"name": "Ana", "name_ci": "ana", "status": "active", "role": "member",
			"languages": bson.A{bson.M{"language": "english", "level": "Z9"}}}, true},
		{"meeting ok", "meetings", bson.M{"date": "2024-03-05", "kind": "regular", "status": "pending"}, false},
		{"meeting bad status", "meetings", bson.M{"date": "2024-03-05", "kind": "regular", "status": "done"}, true},
		{"event blank name", "events", bson.M{"name": "  ", "date": "2024-03-05"}, true},
		{"attendance ok", "attendance", bson.M{"member_id": "m1", "reference_id": "s1", "reference_kind": "event",
			"status": "excused", "note": "", "updated_at": now}, false},
		{"attendance bad status", "attendance", bson.M{"member_id": "m1", "reference_id": "s1", "reference_kind": "event", "status": "late"}, true},
		{"finance ok", "finances", bson.M{"kind": "income", "amount": int64(1500), "date": "2024-03-05",
			"month": 2, "year": 2024, "origin": "dues"}, false},
		{"finance negative amount", "finances", bson.M{"kind": "expense", "amount": int64(-1), "date": "2024-03-05",
			"month": 2, "year": 2024, "origin": "manual"}, true},
		{"finance month out of range", "finances", bson.M{"kind": "expense", "amount": int64(1), "date": "2024-03-05",
			"month": 12, "year": 2024, "origin": "manual"}, true},
		{"payment ok", "memberPayments", bson.M{"member_id": "m1", "month": 0, "year": 2024, "paid_at": now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error inserting into %s", tt.coll)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("insert into %s failed: %v", tt.coll, err)
			}
		})
	}
}
