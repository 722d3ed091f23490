package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// Production is a manufacturing order: raw-material moves in, finished and
// byproduct moves out.
type Production struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	ProductID uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product              `gorm:"foreignKey:ProductID"`
	State     enums.ProductionState `gorm:"column:state;type:production_state;not null;default:'draft'"`
	Moves     []StockMove           `gorm:"foreignKey:ProductionID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
