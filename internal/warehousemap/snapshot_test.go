package warehousemap

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waremaphq/waremap-backend/internal/testdb"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
)

func placeAt(t *testing.T, f *testdb.Fixture, quant models.Quant, x, y, z int) {
	t.Helper()
	err := f.DB.Model(&models.Quant{}).Where("id = ?", quant.ID).
		Updates(map[string]any{"posx": x, "posy": y, "posz": z}).Error
	require.NoError(t, err)
}

func TestSnapshotCollectsEligibleQuants(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	wm := f.Map(t, "Ground Floor", f.StockRoot, 8, 12)

	tracked := f.Product(t, "Widget", enums.TrackingLot, true)
	lot := f.Lot(t, tracked, "LOT-001")
	require.NoError(t, conn.Model(&models.Lot{}).Where("id = ?", lot.ID).Update("vendor_id", f.Vendor.ID).Error)
	visible := f.Quant(t, tracked, f.ShelfA, &lot, 5, 12)
	placeAt(t, f, visible, 2, 3, 0)

	// Untracked products, empty quants and hidden quants never appear.
	untracked := f.Product(t, "Bulk Sand", enums.TrackingNone, false)
	loose := f.Quant(t, untracked, f.ShelfA, nil, 9, 1)
	placeAt(t, f, loose, 4, 4, 0)

	empty := f.Quant(t, tracked, f.ShelfB, &lot, 0, 1)
	placeAt(t, f, empty, 5, 5, 0)

	hidden := f.Quant(t, tracked, f.ShelfB, &lot, 3, 1)
	placeAt(t, f, hidden, 6, 6, 0)
	require.NoError(t, conn.Model(&models.Quant{}).Where("id = ?", hidden.ID).Update("display_on_map", false).Error)

	snapshot, err := svc.Snapshot(ctx, wm.ID)
	require.NoError(t, err)

	assert.Equal(t, "Ground Floor", snapshot.Name)
	assert.Equal(t, 8, snapshot.Rows)
	assert.Equal(t, 12, snapshot.Columns)
	assert.Equal(t, f.Warehouse.Name, snapshot.WarehouseName)

	require.Len(t, snapshot.Lots, 1)
	cell, ok := snapshot.Lots["2_3_0"]
	require.True(t, ok)
	assert.Equal(t, visible.ID, cell.QuantID)
	assert.Equal(t, "LOT-001", cell.LotName)
	assert.Equal(t, *tracked.DefaultCode, cell.ProductCode)
	assert.Equal(t, f.Vendor.Name, cell.VendorName)
	assert.Equal(t, "Shelf A", cell.LocationName)
	assert.Equal(t, "WH/Stock/Shelf A", cell.LocationPath)
	assert.Equal(t, 12, cell.DaysInStock)
	assert.True(t, cell.Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, time.Now().AddDate(0, 0, -12).Format(InDateLayout), cell.InDate)
}

func TestSnapshotFallbackLabels(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})

	wm := f.Map(t, "Ground Floor", f.StockRoot, 10, 10)
	tracked := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, tracked, "LOT-XYZ")
	quant := f.Quant(t, tracked, f.ShelfA, &lot, 2, 0)
	placeAt(t, f, quant, 1, 1, 0)

	snapshot, err := svc.Snapshot(context.Background(), wm.ID)
	require.NoError(t, err)

	cell := snapshot.Lots["1_1_0"]
	assert.Equal(t, "LOT-XYZ", cell.LotName)
	assert.Equal(t, NoVendorLabel, cell.VendorName)
}

func TestSnapshotNilCoordinatesCollapseToOrigin(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})

	wm := f.Map(t, "Ground Floor", f.StockRoot, 10, 10)
	tracked := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, tracked, "LOT-001")
	quant := f.Quant(t, tracked, f.ShelfA, &lot, 2, 0)

	snapshot, err := svc.Snapshot(context.Background(), wm.ID)
	require.NoError(t, err)

	cell, ok := snapshot.Lots["0_0_0"]
	require.True(t, ok)
	assert.Equal(t, quant.ID, cell.QuantID)
}

func TestSnapshotLastLoadedWinsOnKeyCollision(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})

	wm := f.Map(t, "Ground Floor", f.StockRoot, 10, 10)
	tracked := f.Product(t, "Widget", enums.TrackingLot, false)
	lotA := f.Lot(t, tracked, "LOT-A")
	lotB := f.Lot(t, tracked, "LOT-B")

	first := f.Quant(t, tracked, f.ShelfA, &lotA, 2, 0)
	second := f.Quant(t, tracked, f.ShelfB, &lotB, 3, 0)
	placeAt(t, f, first, 2, 2, 0)
	placeAt(t, f, second, 2, 2, 0)

	snapshot, err := svc.Snapshot(context.Background(), wm.ID)
	require.NoError(t, err)

	require.Len(t, snapshot.Lots, 1)
	winner := snapshot.Lots["2_2_0"]
	loser := first.ID
	if winner.QuantID == first.ID {
		loser = second.ID
	}
	assert.NotEqual(t, winner.QuantID, loser)
}

func TestSnapshotScopedToMapSubtree(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})

	// A map bound to Shelf A must not see Shelf B stock.
	wm := f.Map(t, "Shelf A Map", f.ShelfA, 10, 10)
	tracked := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, tracked, "LOT-001")

	inside := f.Quant(t, tracked, f.ShelfA, &lot, 2, 0)
	placeAt(t, f, inside, 1, 1, 0)
	outside := f.Quant(t, tracked, f.ShelfB, &lot, 2, 0)
	placeAt(t, f, outside, 3, 3, 0)

	snapshot, err := svc.Snapshot(context.Background(), wm.ID)
	require.NoError(t, err)

	require.Len(t, snapshot.Lots, 1)
	_, ok := snapshot.Lots["1_1_0"]
	assert.True(t, ok)
}

func TestSnapshotMissingMap(t *testing.T) {
	conn := testdb.Open(t)
	testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})

	_, err := svc.Snapshot(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := errors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeNotFound, appErr.Code())
}

func TestSnapshotEmptySubtree(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})

	wm := f.Map(t, "Empty Floor", f.ShelfB, 4, 4)

	snapshot, err := svc.Snapshot(context.Background(), wm.ID)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Lots)
	assert.Empty(t, snapshot.BlockedCells)
}
