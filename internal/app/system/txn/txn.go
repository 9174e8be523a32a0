// internal/app/system/txn/txn.go

// Package txn detects whether the connected MongoDB deployment supports
// multi-document transactions and runs callbacks inside one when it does.
// Standalone servers (common in dev and small deployments) reject
// transactions, so callers fall back to sequential writes.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes returned when transactions are not available:
// 20 IllegalOperation, 51 NoSuchTransaction-adjacent illegal op, and
// 263 OperationNotSupportedInTransaction.
var notSupportedCodes = map[int32]bool{
	20:  true,
	51:  true,
	263: true,
}

// Keyword pairs that indicate a transaction-support failure when the error
// arrives without a structured code (e.g. wrapped by a driver layer).
var notSupportedHints = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"illegal operation", "transaction"},
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions (not a replica set / sessions unsupported).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return notSupportedCodes[cmdErr.Code]
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range notSupportedHints {
		if strings.Contains(msg, hint[0]) && strings.Contains(msg, hint[1]) {
			return true
		}
	}
	return false
}

// Run executes fn inside a session transaction. The caller is responsible
// for checking IsNotSupported on the returned error and falling back.
func Run(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
