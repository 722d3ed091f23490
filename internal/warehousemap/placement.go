package warehousemap

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/internal/stock"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
)

// Place puts stock on a map cell. Assign mode repositions an existing quant;
// create mode materializes a new quant at the map's root location. The
// collision check runs inside the write transaction so two concurrent
// placements cannot land on the same cell.
func (s *service) Place(ctx context.Context, mapID uuid.UUID, input PlaceInput) (*models.Quant, error) {
	var placed *models.Quant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maps, stocks := s.repos(tx)

		wm, err := maps.Find(ctx, mapID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "warehouse map not found")
			}
			return err
		}
		if input.PosX < 0 || input.PosX >= wm.Columns || input.PosY < 0 || input.PosY >= wm.Rows || input.PosZ < 0 {
			return errors.New(errors.CodeValidation, "coordinate is outside the map grid").
				WithDetails(map[string]int{"rows": wm.Rows, "columns": wm.Columns})
		}

		switch input.Mode {
		case PlaceModeAssign:
			placed, err = s.placeExisting(ctx, maps, stocks, wm, input)
		case PlaceModeCreate:
			placed, err = s.placeNew(ctx, maps, stocks, wm, input)
		default:
			err = errors.New(errors.CodeValidation, "unknown placement mode")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithMapID(ctx, mapID.String()), "quant placed on map")
	return placed, nil
}

func (s *service) placeExisting(ctx context.Context, maps *Repository, stocks *stock.Repository, wm *models.WarehouseMap, input PlaceInput) (*models.Quant, error) {
	if input.QuantID == nil {
		return nil, errors.New(errors.CodeValidation, "quant_id is required in assign mode")
	}
	quant, err := stocks.FindQuant(ctx, *input.QuantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeNotFound, "quant not found")
		}
		return nil, err
	}
	product, err := stocks.FindProduct(ctx, quant.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Tracking.Tracked() {
		return nil, errors.New(errors.CodeValidation, "only lot or serial tracked products can be placed on a map")
	}
	if !quant.Quantity.IsPositive() {
		return nil, errors.New(errors.CodeValidation, "quant has no on-hand quantity")
	}

	locationIDs, err := s.mapLocationIDs(ctx, stocks, wm)
	if err != nil {
		return nil, err
	}
	if !containsLocation(locationIDs, quant.LocationID) {
		return nil, errors.New(errors.CodeValidation, "quant is outside the map's location subtree")
	}

	// Blocked cells may be overridden when repositioning existing stock.
	if err := s.checkCellFree(ctx, stocks, locationIDs, input, &quant.ID); err != nil {
		return nil, err
	}

	quant.PosX = &input.PosX
	quant.PosY = &input.PosY
	quant.PosZ = input.PosZ
	quant.DisplayOnMap = true
	if err := stocks.SaveQuant(ctx, quant); err != nil {
		return nil, err
	}
	return quant, nil
}

func (s *service) placeNew(ctx context.Context, maps *Repository, stocks *stock.Repository, wm *models.WarehouseMap, input PlaceInput) (*models.Quant, error) {
	if input.ProductID == nil {
		return nil, errors.New(errors.CodeValidation, "product_id is required in create mode")
	}
	product, err := stocks.FindProduct(ctx, *input.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	if !product.Tracking.Tracked() {
		return nil, errors.New(errors.CodeValidation, "only lot or serial tracked products can be placed on a map")
	}
	if input.LotID != nil {
		lot, err := stocks.FindLot(ctx, *input.LotID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.New(errors.CodeNotFound, "lot not found")
			}
			return nil, err
		}
		if lot.ProductID != product.ID {
			return nil, errors.New(errors.CodeValidation, "lot does not belong to the product")
		}
	}
	quantity := decimal.NewFromInt(1)
	if input.Quantity != nil {
		if !input.Quantity.IsPositive() {
			return nil, errors.New(errors.CodeValidation, "quantity must be positive")
		}
		quantity = *input.Quantity
	}

	// New stock never lands on a blocked coordinate.
	if _, err := maps.FindBlockedCell(ctx, wm.ID, input.PosX, input.PosY, input.PosZ); err == nil {
		return nil, errors.New(errors.CodeConflict, "cell is blocked")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	locationIDs, err := s.mapLocationIDs(ctx, stocks, wm)
	if err != nil {
		return nil, err
	}
	if err := s.checkCellFree(ctx, stocks, locationIDs, input, nil); err != nil {
		return nil, err
	}

	entered := time.Now()
	quant := &models.Quant{
		ProductID:    product.ID,
		LocationID:   wm.LocationID,
		LotID:        input.LotID,
		Quantity:     quantity,
		InDate:       &entered,
		PosX:         &input.PosX,
		PosY:         &input.PosY,
		PosZ:         input.PosZ,
		DisplayOnMap: true,
	}
	if err := stocks.CreateQuant(ctx, quant); err != nil {
		return nil, err
	}
	return quant, nil
}

// mapLocationIDs resolves the internal locations that make up the map's
// subtree, the map root included.
func (s *service) mapLocationIDs(ctx context.Context, stocks *stock.Repository, wm *models.WarehouseMap) ([]uuid.UUID, error) {
	locations, err := stocks.DescendantLocations(ctx, wm.LocationID, enums.LocationUsageInternal)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(locations))
	for i, loc := range locations {
		ids[i] = loc.ID
	}
	return ids, nil
}

func containsLocation(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// checkCellFree enforces the collision rule: at most one visible
// positive-quantity quant per coordinate within the map's location subtree.
func (s *service) checkCellFree(ctx context.Context, stocks *stock.Repository, locationIDs []uuid.UUID, input PlaceInput, excludeID *uuid.UUID) error {
	occupant, err := stocks.VisibleQuantAtCell(ctx, locationIDs, input.PosX, input.PosY, input.PosZ, excludeID)
	switch {
	case err == gorm.ErrRecordNotFound:
		return nil
	case err != nil:
		return err
	default:
		return errors.New(errors.CodeConflict, "cell is already occupied").
			WithDetails(map[string]string{"quant_id": occupant.ID.String()})
	}
}

// ClearPlacement hides a quant from the map, freeing its cell. Coordinates
// are kept so the quant can be re-shown in place later.
func (s *service) ClearPlacement(ctx context.Context, quantID uuid.UUID) (*models.Quant, error) {
	var cleared *models.Quant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, stocks := s.repos(tx)
		quant, err := stocks.FindQuant(ctx, quantID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "quant not found")
			}
			return err
		}
		quant.DisplayOnMap = false
		if err := stocks.SaveQuant(ctx, quant); err != nil {
			return err
		}
		cleared = quant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}
