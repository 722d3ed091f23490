package warehousemap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waremaphq/waremap-backend/internal/testdb"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
)

func TestBlockIsIdempotentUpsert(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	wm := f.Map(t, "Ground Floor", f.StockRoot, 10, 10)

	first, err := svc.Block(ctx, wm.ID, BlockInput{PosX: 3, PosY: 3})
	require.NoError(t, err)
	assert.Equal(t, enums.BlockTypeOther, first.BlockType)
	assert.Equal(t, models.DefaultBlockColor, first.BlockColor)

	wall := enums.BlockTypeWall
	red := "#ff0000"
	second, err := svc.Block(ctx, wm.ID, BlockInput{PosX: 3, PosY: 3, BlockType: &wall, BlockColor: &red})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, enums.BlockTypeWall, second.BlockType)
	assert.Equal(t, red, second.BlockColor)

	var count int64
	require.NoError(t, conn.Model(&models.BlockedCell{}).Where("warehouse_map_id = ?", wm.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBlockDoesNotTouchPlacedStock(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	wm := f.Map(t, "Ground Floor", f.StockRoot, 10, 10)
	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	occupant := f.Quant(t, product, f.ShelfA, &lot, 5, 0)
	placeAt(t, f, occupant, 4, 4, 0)

	_, err := svc.Block(ctx, wm.ID, BlockInput{PosX: 4, PosY: 4})
	require.NoError(t, err)

	// Snapshot renders both the occupant and the blocked overlay.
	snapshot, err := svc.Snapshot(ctx, wm.ID)
	require.NoError(t, err)
	_, occupied := snapshot.Lots["4_4_0"]
	_, blocked := snapshot.BlockedCells["4_4_0"]
	assert.True(t, occupied)
	assert.True(t, blocked)
}

func TestUnblockIsNoOpWhenMissing(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	wm := f.Map(t, "Ground Floor", f.StockRoot, 10, 10)

	_, err := svc.Block(ctx, wm.ID, BlockInput{PosX: 1, PosY: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Unblock(ctx, wm.ID, UnblockInput{PosX: 1, PosY: 2}))
	require.NoError(t, svc.Unblock(ctx, wm.ID, UnblockInput{PosX: 1, PosY: 2}))

	cells, err := svc.BlockedCells(ctx, wm.ID)
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestBlockedCellsKeyedByPosition(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	wm := f.Map(t, "Ground Floor", f.StockRoot, 10, 10)
	stairs := enums.BlockTypeStairs
	note := "mezzanine access"
	_, err := svc.Block(ctx, wm.ID, BlockInput{PosX: 0, PosY: 5, PosZ: 1, BlockType: &stairs, Note: &note})
	require.NoError(t, err)

	cells, err := svc.BlockedCells(ctx, wm.ID)
	require.NoError(t, err)
	require.Len(t, cells, 1)

	view, ok := cells["0_5_1"]
	require.True(t, ok)
	assert.Equal(t, enums.BlockTypeStairs, view.BlockType)
	assert.Equal(t, "Stairs", view.BlockLabel)
	require.NotNil(t, view.Note)
	assert.Equal(t, note, *view.Note)
}
