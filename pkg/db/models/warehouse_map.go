package models

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseMap is a named rectangular grid bound to one internal location.
// Spacing intervals are pure rendering hints: a visual gap after every N
// rows/columns; 0 disables the gap.
type WarehouseMap struct {
	ID                    uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                  string        `gorm:"column:name;not null"`
	WarehouseID           uuid.UUID     `gorm:"column:warehouse_id;type:uuid;not null"`
	Warehouse             *Warehouse    `gorm:"foreignKey:WarehouseID"`
	LocationID            uuid.UUID     `gorm:"column:location_id;type:uuid;not null"`
	Location              *Location     `gorm:"foreignKey:LocationID"`
	Rows                  int           `gorm:"column:rows;not null;default:10"`
	Columns               int           `gorm:"column:columns;not null;default:10"`
	RowSpacingInterval    int           `gorm:"column:row_spacing_interval;not null;default:0"`
	ColumnSpacingInterval int           `gorm:"column:column_spacing_interval;not null;default:0"`
	Sequence              int           `gorm:"column:sequence;not null;default:10"`
	Active                bool          `gorm:"column:active;not null;default:true"`
	BlockedCells          []BlockedCell `gorm:"foreignKey:WarehouseMapID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
