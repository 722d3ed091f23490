package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/pkg/enums"
	"github.com/waremaphq/waremap-backend/pkg/types"
)

// DefaultBlockColor is the hex color rendered for blocked cells unless the
// wizard picks another one.
const DefaultBlockColor = "#9e9e9e"

// BlockedCell marks one map coordinate as non-storable.
// (warehouse_map_id, posx, posy, posz) is unique.
type BlockedCell struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseMapID uuid.UUID       `gorm:"column:warehouse_map_id;type:uuid;not null;uniqueIndex:uq_blocked_cell_position,priority:1"`
	PosX           int             `gorm:"column:posx;not null;uniqueIndex:uq_blocked_cell_position,priority:2"`
	PosY           int             `gorm:"column:posy;not null;uniqueIndex:uq_blocked_cell_position,priority:3"`
	PosZ           int             `gorm:"column:posz;not null;default:0;uniqueIndex:uq_blocked_cell_position,priority:4"`
	BlockType      enums.BlockType `gorm:"column:block_type;type:block_type;not null;default:'other'"`
	BlockColor     string          `gorm:"column:block_color;not null;default:'#9e9e9e'"`
	Note           *string         `gorm:"column:note"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Position returns the cell coordinate.
func (c BlockedCell) Position() types.Position {
	return types.Position{X: c.PosX, Y: c.PosY, Z: c.PosZ}
}
