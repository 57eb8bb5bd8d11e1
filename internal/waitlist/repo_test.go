package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWaitlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	entries := `
CREATE TABLE IF NOT EXISTS waitlist_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  buyer_id INTEGER NOT NULL,
  joined_at DATETIME NOT NULL,
  UNIQUE (product_id, buyer_id)
);`
	require.NoError(t, db.Exec(entries).Error)
	return db
}

func joinBuyers(t *testing.T, repo Repository, productID int64, buyerIDs ...int64) {
	t.Helper()

	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	for i, buyerID := range buyerIDs {
		joined, err := repo.Join(context.Background(), productID, buyerID, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.True(t, joined)
	}
}

func TestRepositoryPosition_firstJoinerIsFirst(t *testing.T) {
	repo := NewRepository(setupWaitlistTestDB(t))
	ctx := context.Background()

	joinBuyers(t, repo, 5101, 801, 802, 803)

	for i, buyerID := range []int64{801, 802, 803} {
		pos, err := repo.Position(ctx, 5101, buyerID)
		require.NoError(t, err)
		assert.Equal(t, i+1, pos)
	}
}

func TestRepositoryLeave_renumbersRemainingPositions(t *testing.T) {
	repo := NewRepository(setupWaitlistTestDB(t))
	ctx := context.Background()

	joinBuyers(t, repo, 5102, 811, 812, 813)

	removed, err := repo.Leave(ctx, 5102, 811)
	require.NoError(t, err)
	require.True(t, removed)

	pos, err := repo.Position(ctx, 5102, 812)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = repo.Position(ctx, 5102, 813)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	buyers, err := repo.ListBuyers(ctx, 5102)
	require.NoError(t, err)
	require.Len(t, buyers, 2)
	assert.Equal(t, int64(812), buyers[0].BuyerID)
	assert.Equal(t, int64(813), buyers[1].BuyerID)

	_, err = repo.Position(ctx, 5102, 811)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryJoin_secondJoinIsNoop(t *testing.T) {
	repo := NewRepository(setupWaitlistTestDB(t))
	ctx := context.Background()

	joinBuyers(t, repo, 5103, 821)

	joined, err := repo.Join(ctx, 5103, 821, time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, joined)

	pos, err := repo.Position(ctx, 5103, 821)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestRepositoryLeave_missingEntryReportsFalse(t *testing.T) {
	repo := NewRepository(setupWaitlistTestDB(t))

	removed, err := repo.Leave(context.Background(), 5104, 831)
	require.NoError(t, err)
	assert.False(t, removed)
}
