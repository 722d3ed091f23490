package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// MoveLine is the lot-level detail of a stock move.
type MoveLine struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MoveID         uuid.UUID       `gorm:"column:move_id;type:uuid;not null"`
	Move           *StockMove      `gorm:"foreignKey:MoveID"`
	PickingID      *uuid.UUID      `gorm:"column:picking_id;type:uuid"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product        *Product        `gorm:"foreignKey:ProductID"`
	LotID          *uuid.UUID      `gorm:"column:lot_id;type:uuid"`
	Lot            *Lot            `gorm:"foreignKey:LotID"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:numeric(16,3);not null"`
	UoMID          uuid.UUID       `gorm:"column:uom_id;type:uuid;not null"`
	SrcLocationID  uuid.UUID       `gorm:"column:src_location_id;type:uuid;not null"`
	DestLocationID uuid.UUID       `gorm:"column:dest_location_id;type:uuid;not null"`
	State          enums.MoveState `gorm:"column:state;type:move_state;not null;default:'draft'"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
