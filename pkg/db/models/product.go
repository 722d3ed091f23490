package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// Product is a stockable item. Only lot/serial-tracked products appear on the
// warehouse map.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	DefaultCode *string               `gorm:"column:default_code"`
	Tracking    enums.ProductTracking `gorm:"column:tracking;type:product_tracking;not null;default:'none'"`
	UoMID       uuid.UUID             `gorm:"column:uom_id;type:uuid;not null"`
	UoM         *UoM                  `gorm:"foreignKey:UoMID"`
	// TrackVendorByLot opts the product into vendor propagation onto its lots.
	TrackVendorByLot bool      `gorm:"column:track_vendor_by_lot;not null;default:false"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName mirrors the "[code] name" rendering used in snapshots.
func (p Product) DisplayName() string {
	if p.DefaultCode != nil && *p.DefaultCode != "" {
		return "[" + *p.DefaultCode + "] " + p.Name
	}
	return p.Name
}
