package testdb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// Fixture is a minimal but complete warehouse: a location tree, picking type
// templates and a vendor, ready for stock rows to be layered on top.
type Fixture struct {
	DB *gorm.DB

	Vendor models.Partner
	Unit   models.UoM

	RootView   models.Location
	StockRoot  models.Location
	ShelfA     models.Location
	ShelfB     models.Location
	Customers  models.Location
	Suppliers  models.Location
	Production models.Location

	Warehouse models.Warehouse
	Incoming  models.PickingType
	Outgoing  models.PickingType
	Internal  models.PickingType
}

// NewFixture seeds the standard warehouse into conn.
func NewFixture(t *testing.T, conn *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{DB: conn}

	f.Vendor = models.Partner{ID: uuid.New(), Name: "Acme Supplies"}
	f.Unit = models.UoM{ID: uuid.New(), Name: "Units", Rounding: decimal.NewFromFloat(0.001)}
	mustCreate(t, conn, &f.Vendor, &f.Unit)

	f.RootView = models.Location{ID: uuid.New(), Name: "WH", CompleteName: "WH", Usage: enums.LocationUsageView}
	mustCreate(t, conn, &f.RootView)
	f.StockRoot = models.Location{ID: uuid.New(), Name: "Stock", CompleteName: "WH/Stock", Usage: enums.LocationUsageInternal, ParentID: &f.RootView.ID}
	mustCreate(t, conn, &f.StockRoot)
	f.ShelfA = models.Location{ID: uuid.New(), Name: "Shelf A", CompleteName: "WH/Stock/Shelf A", Usage: enums.LocationUsageInternal, ParentID: &f.StockRoot.ID}
	f.ShelfB = models.Location{ID: uuid.New(), Name: "Shelf B", CompleteName: "WH/Stock/Shelf B", Usage: enums.LocationUsageInternal, ParentID: &f.StockRoot.ID}
	f.Customers = models.Location{ID: uuid.New(), Name: "Customers", CompleteName: "Partners/Customers", Usage: enums.LocationUsageCustomer}
	f.Suppliers = models.Location{ID: uuid.New(), Name: "Vendors", CompleteName: "Partners/Vendors", Usage: enums.LocationUsageSupplier}
	f.Production = models.Location{ID: uuid.New(), Name: "Production", CompleteName: "Virtual/Production", Usage: enums.LocationUsageProduction}
	mustCreate(t, conn, &f.ShelfA, &f.ShelfB, &f.Customers, &f.Suppliers, &f.Production)

	f.Warehouse = models.Warehouse{ID: uuid.New(), Name: "Main Warehouse", Code: "WH", StockLocationID: f.StockRoot.ID}
	mustCreate(t, conn, &f.Warehouse)

	f.Incoming = models.PickingType{
		ID: uuid.New(), WarehouseID: f.Warehouse.ID, Name: "Receipts",
		Code: enums.PickingTypeIncoming, DefaultSrcLocationID: &f.Suppliers.ID, DefaultDestLocationID: &f.StockRoot.ID, Sequence: 1,
	}
	f.Outgoing = models.PickingType{
		ID: uuid.New(), WarehouseID: f.Warehouse.ID, Name: "Delivery Orders",
		Code: enums.PickingTypeOutgoing, DefaultSrcLocationID: &f.StockRoot.ID, DefaultDestLocationID: &f.Customers.ID, Sequence: 2,
	}
	f.Internal = models.PickingType{
		ID: uuid.New(), WarehouseID: f.Warehouse.ID, Name: "Internal Transfers",
		Code: enums.PickingTypeInternal, DefaultSrcLocationID: &f.StockRoot.ID, DefaultDestLocationID: &f.StockRoot.ID, Sequence: 3,
	}
	mustCreate(t, conn, &f.Incoming, &f.Outgoing, &f.Internal)

	return f
}

// Product inserts a tracked product.
func (f *Fixture) Product(t *testing.T, name string, tracking enums.ProductTracking, trackVendor bool) models.Product {
	t.Helper()
	code := "P-" + uuid.NewString()[:8]
	product := models.Product{
		ID: uuid.New(), Name: name, DefaultCode: &code,
		Tracking: tracking, UoMID: f.Unit.ID, TrackVendorByLot: trackVendor,
	}
	mustCreate(t, f.DB, &product)
	return product
}

// Lot inserts a lot for the product.
func (f *Fixture) Lot(t *testing.T, product models.Product, name string) models.Lot {
	t.Helper()
	lot := models.Lot{ID: uuid.New(), Name: name, ProductID: product.ID}
	mustCreate(t, f.DB, &lot)
	return lot
}

// Quant inserts a visible quant at the location with the given on-hand
// quantity and an in_date of daysAgo days before now.
func (f *Fixture) Quant(t *testing.T, product models.Product, location models.Location, lot *models.Lot, qty float64, daysAgo int) models.Quant {
	t.Helper()
	entered := time.Now().AddDate(0, 0, -daysAgo)
	quant := models.Quant{
		ID: uuid.New(), ProductID: product.ID, LocationID: location.ID,
		Quantity: decimal.NewFromFloat(qty), InDate: &entered, DisplayOnMap: true,
	}
	if lot != nil {
		quant.LotID = &lot.ID
	}
	mustCreate(t, f.DB, &quant)
	return quant
}

// Map inserts an active warehouse map over the given location.
func (f *Fixture) Map(t *testing.T, name string, location models.Location, rows, columns int) models.WarehouseMap {
	t.Helper()
	wm := models.WarehouseMap{
		ID: uuid.New(), Name: name, WarehouseID: f.Warehouse.ID, LocationID: location.ID,
		Rows: rows, Columns: columns, Sequence: 10, Active: true,
	}
	mustCreate(t, f.DB, &wm)
	return wm
}

func mustCreate(t *testing.T, conn *gorm.DB, rows ...any) {
	t.Helper()
	for _, row := range rows {
		if err := conn.Create(row).Error; err != nil {
			t.Fatalf("seed fixture row: %v", err)
		}
	}
}
