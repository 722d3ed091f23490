package warehousemap

import (
	"context"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/internal/stock"
	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
	"github.com/waremaphq/waremap-backend/pkg/logger"
)

// Service manages map descriptors and serves the map views built on them.
type Service interface {
	CreateMap(ctx context.Context, input CreateMapInput) (*models.WarehouseMap, error)
	UpdateMap(ctx context.Context, id uuid.UUID, input UpdateMapInput) (*models.WarehouseMap, error)
	DeleteMap(ctx context.Context, id uuid.UUID) error
	GetMap(ctx context.Context, id uuid.UUID) (*models.WarehouseMap, error)
	ListMaps(ctx context.Context, activeOnly bool) ([]MapSummary, error)

	Snapshot(ctx context.Context, mapID uuid.UUID) (*MapSnapshot, error)

	Block(ctx context.Context, mapID uuid.UUID, input BlockInput) (*models.BlockedCell, error)
	Unblock(ctx context.Context, mapID uuid.UUID, input UnblockInput) error
	BlockedCells(ctx context.Context, mapID uuid.UUID) (map[string]BlockedCellView, error)

	Place(ctx context.Context, mapID uuid.UUID, input PlaceInput) (*models.Quant, error)
	ClearPlacement(ctx context.Context, quantID uuid.UUID) (*models.Quant, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

type service struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewService constructs the warehouse-map service.
func NewService(params ServiceParams) Service {
	logg := params.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "warehousemap", Output: io.Discard})
	}
	return &service{db: params.DB, logg: logg}
}

func (s *service) repos(tx *gorm.DB) (*Repository, *stock.Repository) {
	return NewRepository(tx), stock.NewRepository(tx)
}

// CreateMap validates and persists a new descriptor. The bound location must
// be internal usage and live inside the owning warehouse's stock tree.
func (s *service) CreateMap(ctx context.Context, input CreateMapInput) (*models.WarehouseMap, error) {
	var created *models.WarehouseMap
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maps, stocks := s.repos(tx)

		wh, err := stocks.FindWarehouse(ctx, input.WarehouseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "warehouse not found")
			}
			return err
		}
		if err := validateMapLocation(ctx, stocks, wh, input.LocationID); err != nil {
			return err
		}

		wm := &models.WarehouseMap{
			Name:                  input.Name,
			WarehouseID:           wh.ID,
			LocationID:            input.LocationID,
			Rows:                  input.Rows,
			Columns:               input.Columns,
			RowSpacingInterval:    input.RowSpacingInterval,
			ColumnSpacingInterval: input.ColumnSpacingInterval,
			Sequence:              10,
			Active:                true,
		}
		if input.Sequence != nil {
			wm.Sequence = *input.Sequence
		}
		if err := maps.Create(ctx, wm); err != nil {
			return err
		}
		created = wm
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithMapID(ctx, created.ID.String()), "warehouse map created")
	return created, nil
}

// UpdateMap applies a partial descriptor update.
func (s *service) UpdateMap(ctx context.Context, id uuid.UUID, input UpdateMapInput) (*models.WarehouseMap, error) {
	var updated *models.WarehouseMap
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maps, _ := s.repos(tx)
		wm, err := maps.Find(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "warehouse map not found")
			}
			return err
		}
		if input.Name != nil {
			wm.Name = *input.Name
		}
		if input.Rows != nil {
			if *input.Rows < 1 {
				return errors.New(errors.CodeValidation, "rows must be at least 1")
			}
			wm.Rows = *input.Rows
		}
		if input.Columns != nil {
			if *input.Columns < 1 {
				return errors.New(errors.CodeValidation, "columns must be at least 1")
			}
			wm.Columns = *input.Columns
		}
		if input.RowSpacingInterval != nil {
			wm.RowSpacingInterval = *input.RowSpacingInterval
		}
		if input.ColumnSpacingInterval != nil {
			wm.ColumnSpacingInterval = *input.ColumnSpacingInterval
		}
		if input.Sequence != nil {
			wm.Sequence = *input.Sequence
		}
		if input.Active != nil {
			wm.Active = *input.Active
		}
		if err := maps.Save(ctx, wm); err != nil {
			return err
		}
		updated = wm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteMap removes the descriptor and its blocked cells.
func (s *service) DeleteMap(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maps, _ := s.repos(tx)
		if _, err := maps.Find(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "warehouse map not found")
			}
			return err
		}
		return maps.Delete(ctx, id)
	})
}

// GetMap loads one descriptor.
func (s *service) GetMap(ctx context.Context, id uuid.UUID) (*models.WarehouseMap, error) {
	wm, err := NewRepository(s.db).Find(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeNotFound, "warehouse map not found")
		}
		return nil, err
	}
	return wm, nil
}

// ListMaps returns map summaries ordered by sequence then name.
func (s *service) ListMaps(ctx context.Context, activeOnly bool) ([]MapSummary, error) {
	maps := NewRepository(s.db)
	descriptors, err := maps.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	summaries := make([]MapSummary, 0, len(descriptors))
	for _, wm := range descriptors {
		blocked, err := maps.CountBlockedCells(ctx, wm.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, MapSummary{
			ID:               wm.ID,
			Name:             wm.Name,
			WarehouseID:      wm.WarehouseID,
			LocationID:       wm.LocationID,
			Rows:             wm.Rows,
			Columns:          wm.Columns,
			Sequence:         wm.Sequence,
			Active:           wm.Active,
			BlockedCellCount: blocked,
		})
	}
	return summaries, nil
}

// validateMapLocation checks the map location is internal usage and belongs
// to the warehouse's stock tree.
func validateMapLocation(ctx context.Context, stocks *stock.Repository, wh *models.Warehouse, locationID uuid.UUID) error {
	loc, err := stocks.FindLocation(ctx, locationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.New(errors.CodeNotFound, "location not found")
		}
		return err
	}
	if loc.Usage != enums.LocationUsageInternal {
		return errors.New(errors.CodeValidation, "map location must have internal usage")
	}
	current := loc
	for {
		if current.ID == wh.StockLocationID {
			return nil
		}
		if current.ParentID == nil {
			return errors.New(errors.CodeValidation, "map location does not belong to the warehouse")
		}
		parent, err := stocks.FindLocation(ctx, *current.ParentID)
		if err != nil {
			return err
		}
		current = parent
	}
}
