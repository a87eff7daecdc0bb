package dbmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (f *fakeTx) Commit() error   { return nil }
func (f *fakeTx) Rollback() error { return nil }

type fakeDB struct {
	DBExecutor
}

func TestGetExecutor(t *testing.T) {
	db := &fakeDB{}
	tx := &fakeTx{}

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}

func TestOperation(t *testing.T) {
	tests := map[string]string{
		"SELECT id FROM schedules":         "select",
		"\n  INSERT INTO appointments (id)": "insert",
		"UPDATE time_slots SET is_booked":  "update",
		"DELETE FROM schedules":            "delete",
		"LOCK TABLE schedules":             "other",
		"":                                 "other",
	}

	for query, want := range tests {
		assert.Equal(t, want, operation(query), query)
	}
}
