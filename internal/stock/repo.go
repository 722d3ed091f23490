package stock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/internal/repo"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// Repository exposes the inventory primitives: locations, warehouses,
// picking types, products, lots, quants, pickings, moves and productions.
type Repository struct {
	repo.Base
}

// NewRepository constructs a stock repository over the provided connection.
// Pass a transaction handle to scope all operations to that transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindLocation loads one location by id.
func (r *Repository) FindLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := r.DB(ctx).First(&loc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// DescendantLocations returns the subtree rooted at rootID (inclusive),
// filtered to the given usage. The walk is breadth-first over parent links so
// it works identically on Postgres and SQLite.
func (r *Repository) DescendantLocations(ctx context.Context, rootID uuid.UUID, usage enums.LocationUsage) ([]models.Location, error) {
	root, err := r.FindLocation(ctx, rootID)
	if err != nil {
		return nil, err
	}

	var result []models.Location
	if root.Usage == usage {
		result = append(result, *root)
	}

	frontier := []uuid.UUID{rootID}
	for len(frontier) > 0 {
		var children []models.Location
		if err := r.DB(ctx).Where("parent_id IN ?", frontier).Order("name").Find(&children).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, child := range children {
			frontier = append(frontier, child.ID)
			if child.Usage == usage {
				result = append(result, child)
			}
		}
	}
	return result, nil
}

// WarehouseForLocation resolves the warehouse owning a location by following
// the parent chain upward until a warehouse stock root is reached.
func (r *Repository) WarehouseForLocation(ctx context.Context, locationID uuid.UUID) (*models.Warehouse, error) {
	current := &locationID
	for current != nil {
		var wh models.Warehouse
		err := r.DB(ctx).First(&wh, "stock_location_id = ?", *current).Error
		if err == nil {
			return &wh, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		loc, err := r.FindLocation(ctx, *current)
		if err != nil {
			return nil, err
		}
		current = loc.ParentID
	}
	return nil, gorm.ErrRecordNotFound
}

// FindWarehouse loads one warehouse by id.
func (r *Repository) FindWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var wh models.Warehouse
	if err := r.DB(ctx).First(&wh, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

// WarehouseByStockLocation finds the warehouse whose stock root is exactly
// the given location.
func (r *Repository) WarehouseByStockLocation(ctx context.Context, locationID uuid.UUID) (*models.Warehouse, error) {
	var wh models.Warehouse
	if err := r.DB(ctx).First(&wh, "stock_location_id = ?", locationID).Error; err != nil {
		return nil, err
	}
	return &wh, nil
}

// PickingTypeByCode returns the warehouse's picking type with the given code,
// preferring the lowest sequence.
func (r *Repository) PickingTypeByCode(ctx context.Context, warehouseID uuid.UUID, code enums.PickingTypeCode) (*models.PickingType, error) {
	var pt models.PickingType
	err := r.DB(ctx).
		Where("warehouse_id = ? AND code = ?", warehouseID, code).
		Order("sequence, name").
		First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// PickingTypeByRoute returns an internal-transfer type whose default source
// and destination match the requested pair.
func (r *Repository) PickingTypeByRoute(ctx context.Context, code enums.PickingTypeCode, srcID, destID uuid.UUID) (*models.PickingType, error) {
	var pt models.PickingType
	err := r.DB(ctx).
		Where("code = ? AND default_src_location_id = ? AND default_dest_location_id = ?", code, srcID, destID).
		Order("sequence, name").
		First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// CreatePickingType persists a new picking type template.
func (r *Repository) CreatePickingType(ctx context.Context, pt *models.PickingType) error {
	return r.DB(ctx).Create(pt).Error
}

// FindProduct loads one product by id.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindLot loads one lot by id.
func (r *Repository) FindLot(ctx context.Context, id uuid.UUID) (*models.Lot, error) {
	var lot models.Lot
	if err := r.DB(ctx).First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// SetLotVendor writes the vendor onto a lot only when the lot still has none.
// The guard re-reads inside the current transaction so concurrent writers
// converge on the first committer. Returns true when the write happened.
func (r *Repository) SetLotVendor(ctx context.Context, lotID, vendorID uuid.UUID) (bool, error) {
	res := r.DB(ctx).Model(&models.Lot{}).
		Where("id = ? AND vendor_id IS NULL", lotID).
		Update("vendor_id", vendorID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindQuant loads one quant by id.
func (r *Repository) FindQuant(ctx context.Context, id uuid.UUID) (*models.Quant, error) {
	var quant models.Quant
	if err := r.DB(ctx).First(&quant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quant, nil
}

// CreateQuant persists a new quant.
func (r *Repository) CreateQuant(ctx context.Context, quant *models.Quant) error {
	return r.DB(ctx).Create(quant).Error
}

// SaveQuant writes back quant fields.
func (r *Repository) SaveQuant(ctx context.Context, quant *models.Quant) error {
	return r.DB(ctx).Save(quant).Error
}

// VisibleQuantAtCell finds a visible, positive-quantity quant occupying the
// coordinate within the given locations, excluding excludeID when non-nil.
func (r *Repository) VisibleQuantAtCell(ctx context.Context, locationIDs []uuid.UUID, x, y, z int, excludeID *uuid.UUID) (*models.Quant, error) {
	query := r.DB(ctx).
		Where("location_id IN ?", locationIDs).
		Where("posx = ? AND posy = ? AND posz = ?", x, y, z).
		Where("display_on_map = ?", true).
		Where("quantity > 0")
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var quant models.Quant
	if err := query.First(&quant).Error; err != nil {
		return nil, err
	}
	return &quant, nil
}

// MapQuants returns the quants eligible for a map snapshot: inside the given
// locations, positive quantity, visible, and lot/serial tracked. Ordered by
// id so key collisions resolve deterministically (latest loaded wins).
func (r *Repository) MapQuants(ctx context.Context, locationIDs []uuid.UUID) ([]models.Quant, error) {
	var quants []models.Quant
	err := r.DB(ctx).
		Joins("JOIN products ON products.id = quants.product_id").
		Where("quants.location_id IN ?", locationIDs).
		Where("quants.quantity > 0").
		Where("quants.display_on_map = ?", true).
		Where("products.tracking <> ?", enums.TrackingNone).
		Preload("Product").
		Preload("Product.UoM").
		Preload("Lot").
		Preload("Lot.Vendor").
		Preload("Location").
		Order("quants.id").
		Find(&quants).Error
	if err != nil {
		return nil, err
	}
	return quants, nil
}

// QuantForReservation finds the source quant backing a lot-bound move line.
func (r *Repository) QuantForReservation(ctx context.Context, productID, locationID uuid.UUID, lotID *uuid.UUID) (*models.Quant, error) {
	query := r.DB(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Where("quantity > 0")
	if lotID != nil {
		query = query.Where("lot_id = ?", *lotID)
	}
	var quant models.Quant
	if err := query.Order("in_date").First(&quant).Error; err != nil {
		return nil, err
	}
	return &quant, nil
}

// CreatePicking persists a picking header.
func (r *Repository) CreatePicking(ctx context.Context, picking *models.Picking) error {
	return r.DB(ctx).Create(picking).Error
}

// FindPicking loads one picking with its moves and lines.
func (r *Repository) FindPicking(ctx context.Context, id uuid.UUID) (*models.Picking, error) {
	var picking models.Picking
	err := r.DB(ctx).
		Preload("Moves").
		Preload("Moves.Lines").
		First(&picking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &picking, nil
}

// CreateMove persists a stock move.
func (r *Repository) CreateMove(ctx context.Context, move *models.StockMove) error {
	return r.DB(ctx).Create(move).Error
}

// CreateMoveLine persists a move line.
func (r *Repository) CreateMoveLine(ctx context.Context, line *models.MoveLine) error {
	return r.DB(ctx).Create(line).Error
}

// FindMoveLine loads one move line with its move.
func (r *Repository) FindMoveLine(ctx context.Context, id uuid.UUID) (*models.MoveLine, error) {
	var line models.MoveLine
	err := r.DB(ctx).
		Preload("Move").
		Preload("Product").
		First(&line, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// MoveLinesForMove returns the lines of a move ordered by id.
func (r *Repository) MoveLinesForMove(ctx context.Context, moveID uuid.UUID) ([]models.MoveLine, error) {
	var lines []models.MoveLine
	if err := r.DB(ctx).Where("move_id = ?", moveID).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindProduction loads one production order.
func (r *Repository) FindProduction(ctx context.Context, id uuid.UUID) (*models.Production, error) {
	var production models.Production
	if err := r.DB(ctx).First(&production, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &production, nil
}

// ProductionMoves returns the production's moves with the given role,
// ordered by id so "first consumed vendor" is deterministic across retries.
func (r *Repository) ProductionMoves(ctx context.Context, productionID uuid.UUID, roles ...enums.ProductionRole) ([]models.StockMove, error) {
	var moves []models.StockMove
	err := r.DB(ctx).
		Where("production_id = ? AND production_role IN ?", productionID, roles).
		Preload("Product").
		Order("id").
		Find(&moves).Error
	if err != nil {
		return nil, err
	}
	return moves, nil
}
