package models

import (
	"time"

	"github.com/google/uuid"
)

// Lot is the identity token tracked per physical batch or serial of a product.
// VendorID is filled by vendor propagation and never overwritten once set.
type Lot struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
	VendorID  *uuid.UUID `gorm:"column:vendor_id;type:uuid"`
	Vendor    *Partner   `gorm:"foreignKey:VendorID"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
