package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quant is one (product, location, lot) stock bucket, extended with the map
// coordinate and display flag.
type Quant struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product          *Product        `gorm:"foreignKey:ProductID"`
	LocationID       uuid.UUID       `gorm:"column:location_id;type:uuid;not null"`
	Location         *Location       `gorm:"foreignKey:LocationID"`
	LotID            *uuid.UUID      `gorm:"column:lot_id;type:uuid"`
	Lot              *Lot            `gorm:"foreignKey:LotID"`
	Quantity         decimal.Decimal `gorm:"column:quantity;type:numeric(16,3);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"column:reserved_quantity;type:numeric(16,3);not null;default:0"`
	InDate           *time.Time      `gorm:"column:in_date"`

	// Map coordinate. Null PosX/PosY means the quant has not been placed;
	// the snapshot renders it at the origin.
	PosX         *int `gorm:"column:posx"`
	PosY         *int `gorm:"column:posy"`
	PosZ         int  `gorm:"column:posz;not null;default:0"`
	DisplayOnMap bool `gorm:"column:display_on_map;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// AvailableQuantity is on hand minus reserved.
func (q Quant) AvailableQuantity() decimal.Decimal {
	return q.Quantity.Sub(q.ReservedQuantity)
}

// DaysInStock derives the whole days elapsed since the quant entered stock.
// Returns 0 when the entry date is unknown.
func (q Quant) DaysInStock(now time.Time) int {
	if q.InDate == nil {
		return 0
	}
	days := int(now.Sub(*q.InDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
