// Package txn runs grouped MongoDB writes in a transaction when the server
// supports one.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// unknownCommitLabel marks a commit whose outcome the driver could not
// confirm. The writes may have been applied.
const unknownCommitLabel = "UnknownTransactionCommitResult"

// Run executes fn inside a MongoDB multi-document transaction.
//
// Standalone servers (no replica set) cannot run transactions. When the
// server reports that, Run logs at debug level and executes fn again
// without a transaction, so callers get sequential writes instead of a
// failure. The refused attempt has written nothing. A commit with an
// unknown outcome is returned as an error and never re-run. fn should
// still prefer writes keyed by deterministic ids.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions not supported; running without", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the server refused to run the
// transaction at all (standalone server, operation not allowed in a
// transaction, no session support). Errors from a commit whose outcome is
// unknown never qualify.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var le mongo.LabeledError
	if errors.As(err, &le) && le.HasErrorLabel(unknownCommitLabel) {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, ..., OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }

	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("illegal operation"):
		return true
	}
	return false
}
