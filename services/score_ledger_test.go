package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDelta(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewScoreLedger(db)
	user := createTestUser(t, db, 10)

	require.NoError(t, ledger.ApplyDelta(nil, user.ID, 25))
	assert.Equal(t, 35, userScore(t, db, user.ID))

	require.NoError(t, ledger.ApplyDelta(nil, user.ID, -5))
	assert.Equal(t, 30, userScore(t, db, user.ID))
}

func TestApplyDeltaMissingUser(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewScoreLedger(db)

	// A dangling reference is logged, not surfaced.
	assert.NoError(t, ledger.ApplyDelta(nil, uuid.NewString(), 25))
}

func TestBoundedDebit(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewScoreLedger(db)

	rich := createTestUser(t, db, 30)
	require.NoError(t, ledger.BoundedDebit(nil, rich.ID, 20))
	assert.Equal(t, 10, userScore(t, db, rich.ID))

	poor := createTestUser(t, db, 10)
	require.NoError(t, ledger.BoundedDebit(nil, poor.ID, 20))
	assert.Equal(t, 0, userScore(t, db, poor.ID))

	exact := createTestUser(t, db, 20)
	require.NoError(t, ledger.BoundedDebit(nil, exact.ID, 20))
	assert.Equal(t, 0, userScore(t, db, exact.ID))
}

func TestApplyDeltaInsideTransaction(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewScoreLedger(db)
	user := createTestUser(t, db, 0)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, ledger.ApplyDelta(tx, user.ID, 40))
	require.NoError(t, tx.Rollback().Error)

	// The credit rolls back with the enclosing transaction.
	assert.Equal(t, 0, userScore(t, db, user.ID))
}
