package vendortrace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waremaphq/waremap-backend/internal/stock"
	"github.com/waremaphq/waremap-backend/internal/testdb"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
)

func newStack(t *testing.T) (*testdb.Fixture, stock.Service) {
	t.Helper()
	conn := testdb.Open(t)
	f := testdb.NewFixture(t, conn)
	stockSvc := stock.NewService(stock.ServiceParams{DB: conn})
	NewService(ServiceParams{}).Register(stockSvc)
	return f, stockSvc
}

func seedReceipt(t *testing.T, f *testdb.Fixture, product models.Product, lot models.Lot, withPurchase bool) models.MoveLine {
	t.Helper()

	picking := models.Picking{
		ID: uuid.New(), Name: "WH/IN/0001", PickingTypeID: f.Incoming.ID,
		SrcLocationID: f.Suppliers.ID, DestLocationID: f.StockRoot.ID, State: enums.PickingStateDraft,
	}
	require.NoError(t, f.DB.Create(&picking).Error)

	move := models.StockMove{
		ID: uuid.New(), PickingID: &picking.ID, ProductID: product.ID,
		Description: product.Name, Quantity: decimal.NewFromInt(10), UoMID: f.Unit.ID,
		SrcLocationID: f.Suppliers.ID, DestLocationID: f.StockRoot.ID, State: enums.MoveStateConfirmed,
	}
	if withPurchase {
		po := models.PurchaseOrder{ID: uuid.New(), Name: "PO/0001", PartnerID: f.Vendor.ID}
		require.NoError(t, f.DB.Create(&po).Error)
		poLine := models.PurchaseOrderLine{ID: uuid.New(), OrderID: po.ID, ProductID: product.ID, Quantity: decimal.NewFromInt(10)}
		require.NoError(t, f.DB.Create(&poLine).Error)
		move.PurchaseLineID = &poLine.ID
	}
	require.NoError(t, f.DB.Create(&move).Error)

	line := models.MoveLine{
		ID: uuid.New(), MoveID: move.ID, PickingID: &picking.ID, ProductID: product.ID,
		LotID: &lot.ID, Quantity: decimal.NewFromInt(10), UoMID: f.Unit.ID,
		SrcLocationID: f.Suppliers.ID, DestLocationID: f.StockRoot.ID, State: enums.MoveStateConfirmed,
	}
	require.NoError(t, f.DB.Create(&line).Error)
	return line
}

func lotVendor(t *testing.T, f *testdb.Fixture, lotID uuid.UUID) *uuid.UUID {
	t.Helper()
	var lot models.Lot
	require.NoError(t, f.DB.First(&lot, "id = ?", lotID).Error)
	return lot.VendorID
}

func TestReceiptPropagatesPurchaseVendor(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, true)
	lot := f.Lot(t, product, "LOT-001")
	line := seedReceipt(t, f, product, lot, true)

	_, err := stockSvc.CompleteMoveLine(ctx, line.ID)
	require.NoError(t, err)

	vendorID := lotVendor(t, f, lot.ID)
	require.NotNil(t, vendorID)
	assert.Equal(t, f.Vendor.ID, *vendorID)
}

func TestReceiptSkipsOptedOutProduct(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, false)
	lot := f.Lot(t, product, "LOT-001")
	line := seedReceipt(t, f, product, lot, true)

	_, err := stockSvc.CompleteMoveLine(ctx, line.ID)
	require.NoError(t, err)

	assert.Nil(t, lotVendor(t, f, lot.ID))
}

func TestExistingVendorIsNeverOverwritten(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	original := models.Partner{ID: uuid.New(), Name: "Original Vendor"}
	require.NoError(t, f.DB.Create(&original).Error)

	product := f.Product(t, "Widget", enums.TrackingLot, true)
	lot := f.Lot(t, product, "LOT-001")
	require.NoError(t, f.DB.Model(&models.Lot{}).Where("id = ?", lot.ID).Update("vendor_id", original.ID).Error)

	line := seedReceipt(t, f, product, lot, true)
	_, err := stockSvc.CompleteMoveLine(ctx, line.ID)
	require.NoError(t, err)

	vendorID := lotVendor(t, f, lot.ID)
	require.NotNil(t, vendorID)
	assert.Equal(t, original.ID, *vendorID)
}

func TestSplitMoveInheritsVendorFromOrigin(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, true)
	parentLot := f.Lot(t, product, "LOT-PARENT")
	require.NoError(t, f.DB.Model(&models.Lot{}).Where("id = ?", parentLot.ID).Update("vendor_id", f.Vendor.ID).Error)
	childLot := f.Lot(t, product, "LOT-CHILD")

	parentMove := models.StockMove{
		ID: uuid.New(), ProductID: product.ID, Description: product.Name,
		Quantity: decimal.NewFromInt(10), UoMID: f.Unit.ID,
		SrcLocationID: f.Suppliers.ID, DestLocationID: f.StockRoot.ID, State: enums.MoveStateDone,
	}
	require.NoError(t, f.DB.Create(&parentMove).Error)
	parentLine := models.MoveLine{
		ID: uuid.New(), MoveID: parentMove.ID, ProductID: product.ID, LotID: &parentLot.ID,
		Quantity: decimal.NewFromInt(10), UoMID: f.Unit.ID,
		SrcLocationID: f.Suppliers.ID, DestLocationID: f.StockRoot.ID, State: enums.MoveStateDone,
	}
	require.NoError(t, f.DB.Create(&parentLine).Error)

	childMove := models.StockMove{
		ID: uuid.New(), ProductID: product.ID, Description: product.Name,
		Quantity: decimal.NewFromInt(4), UoMID: f.Unit.ID,
		SrcLocationID: f.StockRoot.ID, DestLocationID: f.ShelfA.ID,
		State: enums.MoveStateConfirmed, OriginMoveID: &parentMove.ID,
	}
	require.NoError(t, f.DB.Create(&childMove).Error)
	childLine := models.MoveLine{
		ID: uuid.New(), MoveID: childMove.ID, ProductID: product.ID, LotID: &childLot.ID,
		Quantity: decimal.NewFromInt(4), UoMID: f.Unit.ID,
		SrcLocationID: f.StockRoot.ID, DestLocationID: f.ShelfA.ID, State: enums.MoveStateConfirmed,
	}
	require.NoError(t, f.DB.Create(&childLine).Error)
	f.Quant(t, product, f.StockRoot, &childLot, 4, 0)

	_, err := stockSvc.CompleteMoveLine(ctx, childLine.ID)
	require.NoError(t, err)

	vendorID := lotVendor(t, f, childLot.ID)
	require.NotNil(t, vendorID)
	assert.Equal(t, f.Vendor.ID, *vendorID)
}

func TestFallbackToVendorAtDestination(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	product := f.Product(t, "Widget", enums.TrackingLot, true)
	stockedLot := f.Lot(t, product, "LOT-STOCKED")
	require.NoError(t, f.DB.Model(&models.Lot{}).Where("id = ?", stockedLot.ID).Update("vendor_id", f.Vendor.ID).Error)
	f.Quant(t, product, f.ShelfA, &stockedLot, 3, 30)

	incomingLot := f.Lot(t, product, "LOT-NEW")
	move := models.StockMove{
		ID: uuid.New(), ProductID: product.ID, Description: product.Name,
		Quantity: decimal.NewFromInt(2), UoMID: f.Unit.ID,
		SrcLocationID: f.StockRoot.ID, DestLocationID: f.ShelfA.ID, State: enums.MoveStateConfirmed,
	}
	require.NoError(t, f.DB.Create(&move).Error)
	line := models.MoveLine{
		ID: uuid.New(), MoveID: move.ID, ProductID: product.ID, LotID: &incomingLot.ID,
		Quantity: decimal.NewFromInt(2), UoMID: f.Unit.ID,
		SrcLocationID: f.StockRoot.ID, DestLocationID: f.ShelfA.ID, State: enums.MoveStateConfirmed,
	}
	require.NoError(t, f.DB.Create(&line).Error)
	f.Quant(t, product, f.StockRoot, &incomingLot, 2, 0)

	_, err := stockSvc.CompleteMoveLine(ctx, line.ID)
	require.NoError(t, err)

	vendorID := lotVendor(t, f, incomingLot.ID)
	require.NotNil(t, vendorID)
	assert.Equal(t, f.Vendor.ID, *vendorID)
}

func TestProductionPropagatesFirstConsumedVendor(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	rawProduct := f.Product(t, "Widget Part", enums.TrackingLot, true)
	rawLot := f.Lot(t, rawProduct, "LOT-RAW")
	require.NoError(t, f.DB.Model(&models.Lot{}).Where("id = ?", rawLot.ID).Update("vendor_id", f.Vendor.ID).Error)

	finishedProduct := f.Product(t, "Assembled Widget", enums.TrackingLot, true)
	finishedLot := f.Lot(t, finishedProduct, "LOT-FIN")
	byProduct := f.Product(t, "Widget Offcut", enums.TrackingLot, false)
	byLot := f.Lot(t, byProduct, "LOT-BY")

	production := models.Production{ID: uuid.New(), Name: "MO/0001", ProductID: finishedProduct.ID, State: enums.ProductionStateProgress}
	require.NoError(t, f.DB.Create(&production).Error)

	rawRole := enums.ProductionRoleRaw
	finRole := enums.ProductionRoleFinished
	byRole := enums.ProductionRoleByproduct

	seedProductionMove := func(p models.Product, lot models.Lot, role *enums.ProductionRole, src, dest models.Location) {
		move := models.StockMove{
			ID: uuid.New(), ProductID: p.ID, Description: p.Name,
			Quantity: decimal.NewFromInt(1), UoMID: f.Unit.ID,
			SrcLocationID: src.ID, DestLocationID: dest.ID,
			State: enums.MoveStateConfirmed, ProductionID: &production.ID, ProductionRole: role,
		}
		require.NoError(t, f.DB.Create(&move).Error)
		line := models.MoveLine{
			ID: uuid.New(), MoveID: move.ID, ProductID: p.ID, LotID: &lot.ID,
			Quantity: decimal.NewFromInt(1), UoMID: f.Unit.ID,
			SrcLocationID: src.ID, DestLocationID: dest.ID, State: enums.MoveStateConfirmed,
		}
		require.NoError(t, f.DB.Create(&line).Error)
	}
	seedProductionMove(rawProduct, rawLot, &rawRole, f.ShelfA, f.Production)
	seedProductionMove(finishedProduct, finishedLot, &finRole, f.Production, f.ShelfA)
	seedProductionMove(byProduct, byLot, &byRole, f.Production, f.ShelfA)

	_, err := stockSvc.MarkProductionDone(ctx, production.ID)
	require.NoError(t, err)

	vendorID := lotVendor(t, f, finishedLot.ID)
	require.NotNil(t, vendorID)
	assert.Equal(t, f.Vendor.ID, *vendorID)

	// Byproduct's product opted out, so its lot stays untouched.
	assert.Nil(t, lotVendor(t, f, byLot.ID))
}

func TestProductionPicksEarliestConsumedVendorOfTwo(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	firstVendor := models.Partner{ID: uuid.New(), Name: "First Vendor"}
	secondVendor := models.Partner{ID: uuid.New(), Name: "Second Vendor"}
	require.NoError(t, f.DB.Create(&firstVendor).Error)
	require.NoError(t, f.DB.Create(&secondVendor).Error)

	partA := f.Product(t, "Widget Part A", enums.TrackingLot, true)
	lotA := f.Lot(t, partA, "LOT-RAW-A")
	require.NoError(t, f.DB.Model(&models.Lot{}).Where("id = ?", lotA.ID).Update("vendor_id", firstVendor.ID).Error)
	partB := f.Product(t, "Widget Part B", enums.TrackingLot, true)
	lotB := f.Lot(t, partB, "LOT-RAW-B")
	require.NoError(t, f.DB.Model(&models.Lot{}).Where("id = ?", lotB.ID).Update("vendor_id", secondVendor.ID).Error)

	finishedProduct := f.Product(t, "Assembled Widget", enums.TrackingLot, true)
	finishedLot := f.Lot(t, finishedProduct, "LOT-FIN")

	production := models.Production{ID: uuid.New(), Name: "MO/0003", ProductID: finishedProduct.ID, State: enums.ProductionStateProgress}
	require.NoError(t, f.DB.Create(&production).Error)

	rawRole := enums.ProductionRoleRaw
	finRole := enums.ProductionRoleFinished

	// Raw moves scan in id order, so pin the ids to make part A first.
	seed := func(moveID uuid.UUID, p models.Product, lot models.Lot, role *enums.ProductionRole, src, dest models.Location) {
		move := models.StockMove{
			ID: moveID, ProductID: p.ID, Description: p.Name,
			Quantity: decimal.NewFromInt(1), UoMID: f.Unit.ID,
			SrcLocationID: src.ID, DestLocationID: dest.ID,
			State: enums.MoveStateConfirmed, ProductionID: &production.ID, ProductionRole: role,
		}
		require.NoError(t, f.DB.Create(&move).Error)
		line := models.MoveLine{
			ID: uuid.New(), MoveID: move.ID, ProductID: p.ID, LotID: &lot.ID,
			Quantity: decimal.NewFromInt(1), UoMID: f.Unit.ID,
			SrcLocationID: src.ID, DestLocationID: dest.ID, State: enums.MoveStateConfirmed,
		}
		require.NoError(t, f.DB.Create(&line).Error)
	}
	seed(uuid.MustParse("00000000-0000-0000-0000-000000000001"), partA, lotA, &rawRole, f.ShelfA, f.Production)
	seed(uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"), partB, lotB, &rawRole, f.ShelfA, f.Production)
	seed(uuid.New(), finishedProduct, finishedLot, &finRole, f.Production, f.ShelfA)

	_, err := stockSvc.MarkProductionDone(ctx, production.ID)
	require.NoError(t, err)

	vendorID := lotVendor(t, f, finishedLot.ID)
	require.NotNil(t, vendorID)
	assert.Equal(t, firstVendor.ID, *vendorID)
}

func TestProductionWithNoConsumedVendorIsNoOp(t *testing.T) {
	f, stockSvc := newStack(t)
	ctx := context.Background()

	rawProduct := f.Product(t, "Widget Part", enums.TrackingLot, true)
	rawLot := f.Lot(t, rawProduct, "LOT-RAW")
	finishedProduct := f.Product(t, "Assembled Widget", enums.TrackingLot, true)
	finishedLot := f.Lot(t, finishedProduct, "LOT-FIN")

	production := models.Production{ID: uuid.New(), Name: "MO/0002", ProductID: finishedProduct.ID, State: enums.ProductionStateProgress}
	require.NoError(t, f.DB.Create(&production).Error)

	rawRole := enums.ProductionRoleRaw
	finRole := enums.ProductionRoleFinished
	for _, seed := range []struct {
		p    models.Product
		lot  models.Lot
		role *enums.ProductionRole
	}{
		{rawProduct, rawLot, &rawRole},
		{finishedProduct, finishedLot, &finRole},
	} {
		move := models.StockMove{
			ID: uuid.New(), ProductID: seed.p.ID, Description: seed.p.Name,
			Quantity: decimal.NewFromInt(1), UoMID: f.Unit.ID,
			SrcLocationID: f.ShelfA.ID, DestLocationID: f.Production.ID,
			State: enums.MoveStateConfirmed, ProductionID: &production.ID, ProductionRole: seed.role,
		}
		require.NoError(t, f.DB.Create(&move).Error)
		line := models.MoveLine{
			ID: uuid.New(), MoveID: move.ID, ProductID: seed.p.ID, LotID: &seed.lot.ID,
			Quantity: decimal.NewFromInt(1), UoMID: f.Unit.ID,
			SrcLocationID: f.ShelfA.ID, DestLocationID: f.Production.ID, State: enums.MoveStateConfirmed,
		}
		require.NoError(t, f.DB.Create(&line).Error)
	}

	_, err := stockSvc.MarkProductionDone(ctx, production.ID)
	require.NoError(t, err)

	assert.Nil(t, lotVendor(t, f, finishedLot.ID))
}
