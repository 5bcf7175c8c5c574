// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Problems are aggregated so any failure is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"members", membersIndexes()},
		{"meetings", sessionIndexes("idx_meetings_date")},
		{"events", sessionIndexes("idx_events_date")},
		{"attendance", attendanceIndexes()},
		{"finances", financeIndexes()},
		{"memberPayments", paymentIndexes()},
		{"oauthStates", oauthStateIndexes()},
	}
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.coll), s.models, logger); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func membersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// active roster ordered by name (dashboard, roster, dues grid)
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("idx_members_status_name")},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: options.Index().SetName("idx_members_name_ci")},
	}
}

func sessionIndexes(name string) []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}, Options: options.Index().SetName(name)},
	}
}

func attendanceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "reference_id", Value: 1}, {Key: "reference_kind", Value: 1}}, Options: options.Index().SetName("idx_attendance_reference")},
		{Keys: bson.D{{Key: "member_id", Value: 1}}, Options: options.Index().SetName("idx_attendance_member")},
	}
}

func financeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}}, Options: options.Index().SetName("idx_finances_period")},
		// dues entry lookup on un-mark
		{Keys: bson.D{{Key: "origin", Value: 1}, {Key: "member_id", Value: 1}, {Key: "month", Value: 1}, {Key: "year", Value: 1}}, Options: options.Index().SetName("idx_finances_dues")},
	}
}

func paymentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "year", Value: 1}, {Key: "member_id", Value: 1}}, Options: options.Index().SetName("idx_payments_year_member")},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				logger.Warn("failed to decode existing index", zap.String("collection", coll.Name()), zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
		cur.Close(ctx)
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if sameBoolPtr(unique, ex.Unique) && (name == "" || ex.Name == name) {
				logger.Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// Name or options differ: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		logger.Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func oauthStateIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// TTL: expired sign-in states are removed by the server
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_ttl")},
	}
}
