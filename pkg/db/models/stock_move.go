package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// StockMove is the planned movement of one product between two locations.
type StockMove struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PickingID      *uuid.UUID      `gorm:"column:picking_id;type:uuid"`
	ProductID      uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product        *Product        `gorm:"foreignKey:ProductID"`
	Description    string          `gorm:"column:description;not null"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:numeric(16,3);not null"`
	UoMID          uuid.UUID       `gorm:"column:uom_id;type:uuid;not null"`
	SrcLocationID  uuid.UUID       `gorm:"column:src_location_id;type:uuid;not null"`
	DestLocationID uuid.UUID       `gorm:"column:dest_location_id;type:uuid;not null"`
	State          enums.MoveState `gorm:"column:state;type:move_state;not null;default:'draft'"`

	// PurchaseLineID links receipt moves back to the ordering document.
	PurchaseLineID *uuid.UUID         `gorm:"column:purchase_line_id;type:uuid"`
	PurchaseLine   *PurchaseOrderLine `gorm:"foreignKey:PurchaseLineID"`

	// OriginMoveID chains split/chained moves to their parent.
	OriginMoveID *uuid.UUID `gorm:"column:origin_move_id;type:uuid"`
	OriginMove   *StockMove `gorm:"foreignKey:OriginMoveID"`

	// Production linkage; role distinguishes raw consumption from outputs.
	ProductionID   *uuid.UUID            `gorm:"column:production_id;type:uuid"`
	ProductionRole *enums.ProductionRole `gorm:"column:production_role;type:production_role"`

	Lines     []MoveLine `gorm:"foreignKey:MoveID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
