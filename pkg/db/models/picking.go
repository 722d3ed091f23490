package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// Picking is a stock-transfer document: a header plus its moves and lines.
type Picking struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string             `gorm:"column:name;not null"`
	PickingTypeID  uuid.UUID          `gorm:"column:picking_type_id;type:uuid;not null"`
	PickingType    *PickingType       `gorm:"foreignKey:PickingTypeID"`
	SrcLocationID  uuid.UUID          `gorm:"column:src_location_id;type:uuid;not null"`
	SrcLocation    *Location          `gorm:"foreignKey:SrcLocationID"`
	DestLocationID uuid.UUID          `gorm:"column:dest_location_id;type:uuid;not null"`
	DestLocation   *Location          `gorm:"foreignKey:DestLocationID"`
	Origin         string             `gorm:"column:origin"`
	State          enums.PickingState `gorm:"column:state;type:picking_state;not null;default:'draft'"`
	Moves          []StockMove        `gorm:"foreignKey:PickingID;constraint:OnDelete:CASCADE"`
	MoveLines      []MoveLine         `gorm:"foreignKey:PickingID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
