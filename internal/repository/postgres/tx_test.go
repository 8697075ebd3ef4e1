package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	var sawTx bool
	err := NewTransactor(mock).InTransaction(context.Background(), func(ctx context.Context) error {
		_, sawTx = txFromContext(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewTransactor(mock).InTransaction(context.Background(), func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_BeginFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err := NewTransactor(mock).InTransaction(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}

func TestTransactor_NestedReusesOuter(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tx := NewTransactor(mock)
	err := tx.InTransaction(context.Background(), func(ctx context.Context) error {
		return tx.InTransaction(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
