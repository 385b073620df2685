package repo

import (
	"context"
	"testing"
	"time"

	"github.com/KNICEX/arbitrage-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离, 只保留一个连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, InitTables(db))
	return db
}

func TestOpportunityRepo(t *testing.T) {
	r := NewOpportunityRepo(initTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]int64, 0, 3)
	for i, signal := range []string{"a", "b", "c"} {
		id, err := r.Create(ctx, entity.Opportunity{
			SignalId:   signal,
			Path:       "USDT -> BTC -> ETH -> USDT",
			CycleKey:   "BTC,ETH,USDT",
			Hops:       3,
			Profit:     1.01 + float64(i)/100,
			DetectedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	recent, err := r.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].SignalId)
	assert.Equal(t, "b", recent[1].SignalId)
	assert.InDelta(t, 1.03, recent[0].Profit, 1e-9)

	count, err := r.CountSince(ctx, base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = r.Create(ctx, entity.Opportunity{SignalId: "a", DetectedAt: base})
	assert.Error(t, err, "signal id is unique")
}
