package operations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waremaphq/waremap-backend/internal/testdb"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
)

func assertCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestDispatchPickBuildsOutgoingDocument(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	quant := f.Quant(t, product, f.ShelfA, &lot, 7, 5)

	qty := decimal.NewFromInt(3)
	result, err := svc.Dispatch(ctx, DispatchInput{
		Kind: enums.OperationPick, QuantID: quant.ID, Quantity: &qty,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.PickingStateConfirmed, result.State)
	assert.Equal(t, f.ShelfA.ID, result.SrcLocationID)
	assert.Equal(t, f.Customers.ID, result.DestLocationID)
	require.NotNil(t, result.MoveLineID)

	var picking models.Picking
	require.NoError(t, conn.First(&picking, "id = ?", result.PickingID).Error)
	assert.Equal(t, f.Outgoing.ID, picking.PickingTypeID)
	assert.Equal(t, "PICK - Shelf A", picking.Origin)

	var line models.MoveLine
	require.NoError(t, conn.First(&line, "id = ?", *result.MoveLineID).Error)
	require.NotNil(t, line.LotID)
	assert.Equal(t, lot.ID, *line.LotID)
	assert.True(t, line.Quantity.Equal(qty))
	assert.Equal(t, enums.MoveStateAssigned, line.State)

	// Reservation landed on the source quant.
	var reloaded models.Quant
	require.NoError(t, conn.First(&reloaded, "id = ?", quant.ID).Error)
	assert.True(t, reloaded.ReservedQuantity.Equal(qty), "reserved %s", reloaded.ReservedQuantity)
}

func TestDispatchDefaultsQuantityToAvailable(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	quant := f.Quant(t, product, f.ShelfA, &lot, 6, 0)
	require.NoError(t, conn.Model(&models.Quant{}).Where("id = ?", quant.ID).
		Update("reserved_quantity", decimal.NewFromInt(2)).Error)

	result, err := svc.Dispatch(ctx, DispatchInput{Kind: enums.OperationPick, QuantID: quant.ID})
	require.NoError(t, err)

	var move models.StockMove
	require.NoError(t, conn.First(&move, "id = ?", result.MoveID).Error)
	assert.True(t, move.Quantity.Equal(decimal.NewFromInt(4)), "move qty %s", move.Quantity)
}

func TestDispatchMoveRequiresDestination(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	quant := f.Quant(t, product, f.ShelfA, &lot, 5, 0)

	_, err := svc.Dispatch(ctx, DispatchInput{Kind: enums.OperationMove, QuantID: quant.ID})
	assertCode(t, err, errors.CodeValidation)

	result, err := svc.Dispatch(ctx, DispatchInput{
		Kind: enums.OperationMove, QuantID: quant.ID, DestLocationID: &f.ShelfB.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.ShelfB.ID, result.DestLocationID)

	var picking models.Picking
	require.NoError(t, conn.First(&picking, "id = ?", result.PickingID).Error)
	assert.Equal(t, f.Internal.ID, picking.PickingTypeID)
}

func TestDispatchPickWithoutOutgoingType(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	require.NoError(t, conn.Delete(&models.PickingType{}, "id = ?", f.Outgoing.ID).Error)

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	quant := f.Quant(t, product, f.ShelfA, &lot, 5, 0)

	_, err := svc.Dispatch(ctx, DispatchInput{Kind: enums.OperationPick, QuantID: quant.ID})
	assertCode(t, err, errors.CodeDependency)
}

func seedSecondWarehouse(t *testing.T, f *testdb.Fixture) (models.Warehouse, models.Location) {
	t.Helper()
	root := models.Location{ID: uuid.New(), Name: "WH2", CompleteName: "WH2", Usage: enums.LocationUsageView}
	require.NoError(t, f.DB.Create(&root).Error)
	stockRoot := models.Location{ID: uuid.New(), Name: "Stock", CompleteName: "WH2/Stock", Usage: enums.LocationUsageInternal, ParentID: &root.ID}
	require.NoError(t, f.DB.Create(&stockRoot).Error)
	wh := models.Warehouse{ID: uuid.New(), Name: "Second Warehouse", Code: "WH2", StockLocationID: stockRoot.ID}
	require.NoError(t, f.DB.Create(&wh).Error)
	return wh, stockRoot
}

func TestDispatchTransferToOtherWarehouse(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	_, destRoot := seedSecondWarehouse(t, f)

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	quant := f.Quant(t, product, f.ShelfA, &lot, 5, 0)

	result, err := svc.Dispatch(ctx, DispatchInput{
		Kind: enums.OperationTransfer, QuantID: quant.ID, DestLocationID: &destRoot.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, destRoot.ID, result.DestLocationID)

	// A matching internal type was synthesized for the route.
	var pt models.PickingType
	require.NoError(t, conn.Joins("JOIN pickings ON pickings.picking_type_id = picking_types.id").
		Where("pickings.id = ?", result.PickingID).First(&pt).Error)
	assert.Equal(t, enums.PickingTypeInternal, pt.Code)
	require.NotNil(t, pt.DefaultDestLocationID)
	assert.Equal(t, destRoot.ID, *pt.DefaultDestLocationID)

	// A second transfer on the same route reuses the synthesized type.
	quant2 := f.Quant(t, product, f.ShelfA, &lot, 5, 0)
	result2, err := svc.Dispatch(ctx, DispatchInput{
		Kind: enums.OperationTransfer, QuantID: quant2.ID, DestLocationID: &destRoot.ID,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.PickingType{}).
		Where("code = ? AND default_dest_location_id = ?", enums.PickingTypeInternal, destRoot.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.NotEqual(t, result.PickingID, result2.PickingID)
}

func TestDispatchTransferRejectsSameWarehouse(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	quant := f.Quant(t, product, f.ShelfA, &lot, 5, 0)

	_, err := svc.Dispatch(ctx, DispatchInput{
		Kind: enums.OperationTransfer, QuantID: quant.ID, DestLocationID: &f.StockRoot.ID,
	})
	assertCode(t, err, errors.CodeValidation)

	// A plain internal location of another warehouse is not a stock root.
	_, err = svc.Dispatch(ctx, DispatchInput{
		Kind: enums.OperationTransfer, QuantID: quant.ID, DestLocationID: &f.ShelfB.ID,
	})
	assertCode(t, err, errors.CodeValidation)
}

func TestDispatchRejectsNonPositiveQuantity(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	quant := f.Quant(t, product, f.ShelfA, &lot, 5, 0)

	zero := decimal.Zero
	_, err := svc.Dispatch(ctx, DispatchInput{Kind: enums.OperationPick, QuantID: quant.ID, Quantity: &zero})
	assertCode(t, err, errors.CodeValidation)

	// Fully reserved quant has nothing available to default to.
	require.NoError(t, conn.Model(&models.Quant{}).Where("id = ?", quant.ID).
		Update("reserved_quantity", decimal.NewFromInt(5)).Error)
	_, err = svc.Dispatch(ctx, DispatchInput{Kind: enums.OperationPick, QuantID: quant.ID})
	assertCode(t, err, errors.CodeValidation)
}

func TestDispatchRejectsForeignLot(t *testing.T) {
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	svc := NewService(ServiceParams{DB: conn})
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	other := f.Product(t, "Gadget", enums.TrackingLot, false)
	foreignLot := f.Lot(t, other, "LOT-OTHER")
	quant := f.Quant(t, product, f.ShelfA, nil, 5, 0)

	_, err := svc.Dispatch(ctx, DispatchInput{
		Kind: enums.OperationPick, QuantID: quant.ID, LotID: &foreignLot.ID,
	})
	assertCode(t, err, errors.CodeValidation)
}
