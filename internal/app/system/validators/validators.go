// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/clubhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema, logger); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("members", membersSchema())
	ensure("meetings", meetingsSchema())
	ensure("events", eventsSchema())
	ensure("attendance", attendanceSchema())
	ensure("finances", financesSchema())
	ensure("memberPayments", paymentsSchema())

	// No validators; the collections just need to exist.
	ensure("settings", nil)
	ensure("oauthStates", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		logger.Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			logger.Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	logger.Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M, logger *zap.Logger) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	logger.Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(values []string) bson.A {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return a
}

var monthRange = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0, "maximum": 11}

func membersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "status", "role"},
			"properties": bson.M{
				"name":      nonBlank,
				"name_ci":   nonBlank,
				"status":    bson.M{"enum": bson.A{models.MemberActive, models.MemberInactive}},
				"role":      bson.M{"enum": enum(models.MemberRoles)},
				"birthdate": bson.M{"bsonType": "string"},
				"languages": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"language"},
						"properties": bson.M{
							"language": bson.M{"bsonType": "string"},
							"level":    bson.M{"enum": enum(models.LanguageLevels)},
						},
					},
				},
			},
		},
	}
}

func meetingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"date", "kind", "status"},
			"properties": bson.M{
				"date":   nonBlank,
				"kind":   bson.M{"enum": bson.A{models.MeetingRegular, models.MeetingCancelled}},
				"status": bson.M{"enum": bson.A{models.MeetingPending, models.MeetingCompleted, models.MeetingNotHeld}},
				"reason": bson.M{"bsonType": "string"},
			},
		},
	}
}

func eventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "date"},
			"properties": bson.M{
				"name": nonBlank,
				"date": nonBlank,
			},
		},
	}
}

func attendanceSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"member_id", "reference_id", "reference_kind", "status"},
			"properties": bson.M{
				"member_id":      nonBlank,
				"reference_id":   nonBlank,
				"reference_kind": bson.M{"enum": bson.A{models.SessionMeeting, models.SessionEvent}},
				"status":         bson.M{"enum": bson.A{models.AttendancePresent, models.AttendanceAbsent, models.AttendanceExcused}},
				"note":           bson.M{"bsonType": "string"},
				"updated_at":     bson.M{"bsonType": "date"},
			},
		},
	}
}

func financesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"kind", "amount", "date", "month", "year", "origin"},
			"properties": bson.M{
				"kind":       bson.M{"enum": bson.A{models.FinanceIncome, models.FinanceExpense}},
				"amount":     bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"date":       nonBlank,
				"month":      monthRange,
				"year":       bson.M{"bsonType": bson.A{"int", "long"}},
				"origin":     bson.M{"enum": bson.A{models.OriginManual, models.OriginDues}},
				"member_id":  bson.M{"bsonType": "string"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func paymentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"member_id", "month", "year"},
			"properties": bson.M{
				"member_id": nonBlank,
				"month":     monthRange,
				"year":      bson.M{"bsonType": bson.A{"int", "long"}},
				"paid_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}
