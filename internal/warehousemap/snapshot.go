package warehousemap

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
	"github.com/waremaphq/waremap-backend/pkg/types"
)

// Snapshot aggregates one full renderable view of a map: header, occupied
// cells keyed by position, and blocked cells keyed by position.
func (s *service) Snapshot(ctx context.Context, mapID uuid.UUID) (*MapSnapshot, error) {
	maps, stocks := s.repos(s.db)

	wm, err := maps.Find(ctx, mapID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeNotFound, "warehouse map not found")
		}
		return nil, err
	}

	snapshot := &MapSnapshot{
		ID:                    wm.ID,
		Name:                  wm.Name,
		WarehouseID:           wm.WarehouseID,
		LocationID:            wm.LocationID,
		Rows:                  wm.Rows,
		Columns:               wm.Columns,
		RowSpacingInterval:    wm.RowSpacingInterval,
		ColumnSpacingInterval: wm.ColumnSpacingInterval,
		Lots:                  map[string]OccupiedCell{},
		BlockedCells:          map[string]BlockedCellView{},
	}
	if wm.Warehouse != nil {
		snapshot.WarehouseName = wm.Warehouse.Name
	}

	locations, err := stocks.DescendantLocations(ctx, wm.LocationID, enums.LocationUsageInternal)
	if err != nil {
		return nil, err
	}
	if len(locations) > 0 {
		ids := make([]uuid.UUID, len(locations))
		for i, loc := range locations {
			ids[i] = loc.ID
		}
		quants, err := stocks.MapQuants(ctx, ids)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		for _, quant := range quants {
			cell := occupiedCellFromQuant(quant, now)
			// Later quants overwrite earlier ones on the same key.
			snapshot.Lots[types.Position{X: cell.PosX, Y: cell.PosY, Z: cell.PosZ}.Key()] = cell
		}
	}

	blocked, err := s.BlockedCells(ctx, mapID)
	if err != nil {
		return nil, err
	}
	snapshot.BlockedCells = blocked

	return snapshot, nil
}

// occupiedCellFromQuant renders one quant into its snapshot cell. Missing
// coordinates collapse to the origin.
func occupiedCellFromQuant(quant models.Quant, now time.Time) OccupiedCell {
	cell := OccupiedCell{
		QuantID:           quant.ID,
		ProductID:         quant.ProductID,
		LotID:             quant.LotID,
		LotName:           NoLotLabel,
		VendorName:        NoVendorLabel,
		Quantity:          quant.Quantity,
		ReservedQuantity:  quant.ReservedQuantity,
		AvailableQuantity: quant.AvailableQuantity(),
		LocationID:        quant.LocationID,
		DaysInStock:       quant.DaysInStock(now),
		PosZ:              quant.PosZ,
	}
	if quant.PosX != nil {
		cell.PosX = *quant.PosX
	}
	if quant.PosY != nil {
		cell.PosY = *quant.PosY
	}
	if quant.Product != nil {
		cell.ProductName = quant.Product.DisplayName()
		if quant.Product.DefaultCode != nil {
			cell.ProductCode = *quant.Product.DefaultCode
		}
		if quant.Product.UoM != nil {
			cell.UoM = quant.Product.UoM.Name
		}
	}
	if quant.Lot != nil {
		cell.LotName = quant.Lot.Name
		if quant.Lot.Vendor != nil {
			cell.VendorName = quant.Lot.Vendor.Name
		}
	}
	if quant.Location != nil {
		cell.LocationName = quant.Location.Name
		cell.LocationPath = quant.Location.CompleteName
	}
	if quant.InDate != nil {
		cell.InDate = quant.InDate.Format(InDateLayout)
	}
	return cell
}
