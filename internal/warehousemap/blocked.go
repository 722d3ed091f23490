package warehousemap

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/waremaphq/waremap-backend/pkg/db/models"
	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/errors"
	"github.com/waremaphq/waremap-backend/pkg/types"
)

// Block marks one coordinate non-storable. Re-blocking an already blocked
// coordinate updates it in place, so the call is idempotent.
func (s *service) Block(ctx context.Context, mapID uuid.UUID, input BlockInput) (*models.BlockedCell, error) {
	var result *models.BlockedCell
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maps, _ := s.repos(tx)
		if _, err := maps.Find(ctx, mapID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "warehouse map not found")
			}
			return err
		}

		blockType := enums.BlockTypeOther
		if input.BlockType != nil {
			if !input.BlockType.IsValid() {
				return errors.New(errors.CodeValidation, "unknown block type")
			}
			blockType = *input.BlockType
		}
		color := models.DefaultBlockColor
		if input.BlockColor != nil && *input.BlockColor != "" {
			color = *input.BlockColor
		}

		existing, err := maps.FindBlockedCell(ctx, mapID, input.PosX, input.PosY, input.PosZ)
		switch {
		case err == gorm.ErrRecordNotFound:
			cell := &models.BlockedCell{
				WarehouseMapID: mapID,
				PosX:           input.PosX,
				PosY:           input.PosY,
				PosZ:           input.PosZ,
				BlockType:      blockType,
				BlockColor:     color,
				Note:           input.Note,
			}
			if err := maps.CreateBlockedCell(ctx, cell); err != nil {
				return err
			}
			result = cell
		case err != nil:
			return err
		default:
			existing.BlockType = blockType
			existing.BlockColor = color
			if input.Note != nil {
				existing.Note = input.Note
			}
			if err := maps.SaveBlockedCell(ctx, existing); err != nil {
				return err
			}
			result = existing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unblock removes the blocked cell at a coordinate. Missing cells are a
// no-op.
func (s *service) Unblock(ctx context.Context, mapID uuid.UUID, input UnblockInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maps, _ := s.repos(tx)
		if _, err := maps.Find(ctx, mapID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.CodeNotFound, "warehouse map not found")
			}
			return err
		}
		_, err := maps.DeleteBlockedCell(ctx, mapID, input.PosX, input.PosY, input.PosZ)
		return err
	})
}

// BlockedCells returns the map's blocked coordinates keyed by position key.
func (s *service) BlockedCells(ctx context.Context, mapID uuid.UUID) (map[string]BlockedCellView, error) {
	maps := NewRepository(s.db)
	cells, err := maps.BlockedCellsForMap(ctx, mapID)
	if err != nil {
		return nil, err
	}
	views := make(map[string]BlockedCellView, len(cells))
	for _, cell := range cells {
		views[types.Position{X: cell.PosX, Y: cell.PosY, Z: cell.PosZ}.Key()] = BlockedCellView{
			PosX:       cell.PosX,
			PosY:       cell.PosY,
			PosZ:       cell.PosZ,
			BlockType:  cell.BlockType,
			BlockLabel: cell.BlockType.Label(),
			BlockColor: cell.BlockColor,
			Note:       cell.Note,
		}
	}
	return views, nil
}
