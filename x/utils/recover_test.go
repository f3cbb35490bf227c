package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/splitnet"
	"github.com/iov-one/splitnet/errors"
	"github.com/iov-one/splitnet/splittest"
	"github.com/iov-one/splitnet/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	ctx := splitnet.WithLogger(context.Background(), log.NewTMLogger(&buf))
	kv := store.MemStore()
	h := &splittest.Handler{Panic: "unit ledger corrupted"}

	assert.Panics(t, func() { h.Check(ctx, kv, nil) })

	_, err := NewRecovery().Check(ctx, kv, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "check: unit ledger corrupted")

	_, err = NewRecovery().Deliver(ctx, kv, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, buf.String(), "phase=deliver")

	// without a panic the result is passed on untouched
	res, err := NewRecovery().Deliver(ctx, kv, nil, &splittest.Handler{DeliverResult: splitnet.DeliverResult{Log: "fine"}})
	assert.NoError(t, err)
	assert.Equal(t, "fine", res.Log)
}
