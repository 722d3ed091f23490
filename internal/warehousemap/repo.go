package warehousemap

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/internal/repo"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
)

// Repository persists map descriptors and their blocked cells.
type Repository struct {
	repo.Base
}

// NewRepository constructs a map repository over the provided connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new map descriptor.
func (r *Repository) Create(ctx context.Context, wm *models.WarehouseMap) error {
	return r.DB(ctx).Create(wm).Error
}

// Find loads one map with its warehouse.
func (r *Repository) Find(ctx context.Context, id uuid.UUID) (*models.WarehouseMap, error) {
	var wm models.WarehouseMap
	err := r.DB(ctx).
		Preload("Warehouse").
		Preload("Location").
		First(&wm, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wm, nil
}

// Save writes back descriptor fields.
func (r *Repository) Save(ctx context.Context, wm *models.WarehouseMap) error {
	return r.DB(ctx).Save(wm).Error
}

// Delete removes a map; blocked cells cascade at the database level. SQLite
// test databases have no FK cascade wired, so the cells go explicitly.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DB(ctx).Where("warehouse_map_id = ?", id).Delete(&models.BlockedCell{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Delete(&models.WarehouseMap{}, "id = ?", id).Error
}

// List returns maps ordered by sequence then name. When activeOnly is set,
// archived maps are skipped.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.WarehouseMap, error) {
	query := r.DB(ctx).Order("sequence, name")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var maps []models.WarehouseMap
	if err := query.Find(&maps).Error; err != nil {
		return nil, err
	}
	return maps, nil
}

// CountBlockedCells returns how many cells a map has blocked.
func (r *Repository) CountBlockedCells(ctx context.Context, mapID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.BlockedCell{}).
		Where("warehouse_map_id = ?", mapID).
		Count(&count).Error
	return count, err
}

// FindBlockedCell loads the cell at an exact coordinate, if present.
func (r *Repository) FindBlockedCell(ctx context.Context, mapID uuid.UUID, x, y, z int) (*models.BlockedCell, error) {
	var cell models.BlockedCell
	err := r.DB(ctx).
		Where("warehouse_map_id = ? AND posx = ? AND posy = ? AND posz = ?", mapID, x, y, z).
		First(&cell).Error
	if err != nil {
		return nil, err
	}
	return &cell, nil
}

// CreateBlockedCell persists a new blocked cell.
func (r *Repository) CreateBlockedCell(ctx context.Context, cell *models.BlockedCell) error {
	return r.DB(ctx).Create(cell).Error
}

// SaveBlockedCell writes back cell fields.
func (r *Repository) SaveBlockedCell(ctx context.Context, cell *models.BlockedCell) error {
	return r.DB(ctx).Save(cell).Error
}

// DeleteBlockedCell removes the cell at a coordinate, reporting whether a
// row existed.
func (r *Repository) DeleteBlockedCell(ctx context.Context, mapID uuid.UUID, x, y, z int) (bool, error) {
	res := r.DB(ctx).
		Where("warehouse_map_id = ? AND posx = ? AND posy = ? AND posz = ?", mapID, x, y, z).
		Delete(&models.BlockedCell{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// BlockedCellsForMap returns all blocked cells of a map.
func (r *Repository) BlockedCellsForMap(ctx context.Context, mapID uuid.UUID) ([]models.BlockedCell, error) {
	var cells []models.BlockedCell
	err := r.DB(ctx).
		Where("warehouse_map_id = ?", mapID).
		Order("posz, posy, posx").
		Find(&cells).Error
	if err != nil {
		return nil, err
	}
	return cells, nil
}
