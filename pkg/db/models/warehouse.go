package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse groups a stock location tree with its picking type templates.
type Warehouse struct {
	ID              uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string        `gorm:"column:name;not null"`
	Code            string        `gorm:"column:code;not null"`
	StockLocationID uuid.UUID     `gorm:"column:stock_location_id;type:uuid;not null"`
	StockLocation   *Location     `gorm:"foreignKey:StockLocationID"`
	PickingTypes    []PickingType `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
