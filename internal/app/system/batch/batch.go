// internal/app/system/batch/batch.go

// Package batch accumulates a bounded sequence of document mutations and
// commits them in ordered sub-batches. Mutations within one sub-batch share
// all-or-nothing semantics when the deployment supports transactions; there
// is no atomicity across sub-batches, so cascades larger than MaxOps are
// only eventually consistent and every queued mutation must be idempotent.
package batch

import (
	"context"
	"fmt"

	"github.com/dalemusser/voluhub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MaxOps is the maximum number of mutations in one physical commit,
// matching typical document-store batch limits.
const MaxOps = 500

// Kind discriminates the mutation types a batch can carry.
type Kind int

const (
	KindUpdate Kind = iota
	KindDelete
)

// Op is one queued document mutation.
type Op struct {
	Kind       Kind
	Collection string
	Filter     bson.M
	Update     interface{} // update document or pipeline; nil for deletes
	Upsert     bool
}

// Result describes the outcome of Commit.
//
// Committed counts mutations that made it to the store. When a sub-batch
// fails, FailedAt holds the index (into the queued sequence) of the first
// mutation that did not commit; everything before the failing sub-batch
// stays committed.
type Result struct {
	Committed int
	FailedAt  *int
	Err       error
}

// Coordinator queues mutations against one database. Not safe for
// concurrent use; build one per logical operation and discard it after
// Commit.
type Coordinator struct {
	db     *mongo.Database
	log    *zap.Logger
	maxOps int
	ops    []Op
}

// New creates a Coordinator with the standard MaxOps bound.
func New(db *mongo.Database, log *zap.Logger) *Coordinator {
	return &Coordinator{db: db, log: log, maxOps: MaxOps}
}

// NewWithLimit creates a Coordinator with a custom per-commit bound.
// Used by tests to force partitioning without queuing 500 mutations.
func NewWithLimit(db *mongo.Database, log *zap.Logger, maxOps int) *Coordinator {
	if maxOps <= 0 {
		maxOps = MaxOps
	}
	return &Coordinator{db: db, log: log, maxOps: maxOps}
}

// AddUpdate queues an update-one mutation.
func (c *Coordinator) AddUpdate(collection string, filter bson.M, update interface{}) {
	c.ops = append(c.ops, Op{Kind: KindUpdate, Collection: collection, Filter: filter, Update: update})
}

// AddDelete queues a delete-one mutation.
func (c *Coordinator) AddDelete(collection string, filter bson.M) {
	c.ops = append(c.ops, Op{Kind: KindDelete, Collection: collection, Filter: filter})
}

// Add queues a prepared Op.
func (c *Coordinator) Add(op Op) {
	c.ops = append(c.ops, op)
}

// Len returns the number of queued mutations.
func (c *Coordinator) Len() int {
	return len(c.ops)
}

// Partition returns the queued mutations split into ordered chunks of at
// most maxOps. Exposed so the chunking rule is testable without a store.
func Partition(ops []Op, maxOps int) [][]Op {
	if maxOps <= 0 {
		maxOps = MaxOps
	}
	var chunks [][]Op
	for len(ops) > 0 {
		n := len(ops)
		if n > maxOps {
			n = maxOps
		}
		chunks = append(chunks, ops[:n])
		ops = ops[n:]
	}
	return chunks
}

// Commit applies the queued mutations in order, one physical commit per
// sub-batch, stopping at the first sub-batch that fails. The queue is left
// intact so a caller may discard the coordinator and rebuild from scratch.
func (c *Coordinator) Commit(ctx context.Context) Result {
	if len(c.ops) == 0 {
		return Result{}
	}

	committed := 0
	for _, chunk := range Partition(c.ops, c.maxOps) {
		if err := c.commitChunk(ctx, chunk); err != nil {
			failedAt := committed
			if c.log != nil {
				c.log.Warn("batch sub-commit failed",
					zap.Int("committed", committed),
					zap.Int("failed_at", failedAt),
					zap.Int("chunk_size", len(chunk)),
					zap.Error(err))
			}
			return Result{Committed: committed, FailedAt: &failedAt, Err: err}
		}
		committed += len(chunk)
	}
	return Result{Committed: committed}
}

// commitChunk applies one sub-batch atomically when the deployment supports
// transactions, otherwise sequentially (standalone fallback). The fallback
// weakens the sub-batch to best-effort ordering, which is acceptable because
// all queued mutations are idempotent set operations or deletes.
func (c *Coordinator) commitChunk(ctx context.Context, chunk []Op) error {
	err := txn.Run(ctx, c.db.Client(), func(sc mongo.SessionContext) error {
		return c.applyOps(sc, chunk)
	})
	if err == nil {
		return nil
	}
	if !txn.IsNotSupported(err) {
		return err
	}
	if c.log != nil {
		c.log.Debug("transactions unsupported; committing sub-batch sequentially",
			zap.Int("chunk_size", len(chunk)))
	}
	return c.applyOps(ctx, chunk)
}

func (c *Coordinator) applyOps(ctx context.Context, chunk []Op) error {
	for i, op := range chunk {
		coll := c.db.Collection(op.Collection)
		var err error
		switch op.Kind {
		case KindUpdate:
			_, err = coll.UpdateOne(ctx, op.Filter, op.Update, options.Update().SetUpsert(op.Upsert))
		case KindDelete:
			_, err = coll.DeleteOne(ctx, op.Filter)
		default:
			err = fmt.Errorf("unknown batch op kind %d", op.Kind)
		}
		if err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Collection, err)
		}
	}
	return nil
}
