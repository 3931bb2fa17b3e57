package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txLog struct {
	begins, commits, rollbacks int
	commitErr                  error
}

type stubTx struct{ log *txLog }

func (t stubTx) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }
func (t stubTx) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (t stubTx) QueryRow(context.Context, string, ...any) Row        { return nil }
func (t stubTx) Commit(context.Context) error {
	t.log.commits++
	return t.log.commitErr
}
func (t stubTx) Rollback(context.Context) error {
	t.log.rollbacks++
	return nil
}

type stubDB struct {
	stubTx
	beginErr error
}

func (d stubDB) Ping(context.Context) error { return nil }
func (d stubDB) Close() error               { return nil }
func (d stubDB) SQLDB() *sql.DB             { return nil }
func (d stubDB) Begin(context.Context) (Tx, error) {
	d.log.begins++
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.stubTx, nil
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	log := &txLog{}
	require.NoError(t, WithTx(ctx, stubDB{stubTx: stubTx{log}}, func(Tx) error { return nil }))
	assert.Equal(t, 1, log.commits)

	log = &txLog{}
	boom := errors.New("boom")
	err := WithTx(ctx, stubDB{stubTx: stubTx{log}}, func(Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, log.commits)
	assert.Equal(t, 1, log.rollbacks)

	log = &txLog{commitErr: errors.New("serialization failure")}
	err = WithTx(ctx, stubDB{stubTx: stubTx{log}}, func(Tx) error { return nil })
	assert.ErrorContains(t, err, "commit: serialization failure")

	log = &txLog{}
	err = WithTx(ctx, stubDB{stubTx: stubTx{log}, beginErr: errors.New("no conn")}, func(Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorContains(t, err, "begin: no conn")

	assert.Error(t, WithTx(ctx, nil, func(Tx) error { return nil }))
}
