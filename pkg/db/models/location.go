package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// Location is one node of the warehouse location tree.
type Location struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"column:name;not null"`
	CompleteName string              `gorm:"column:complete_name;not null"`
	Usage        enums.LocationUsage `gorm:"column:usage;type:location_usage;not null;default:'internal'"`
	ParentID     *uuid.UUID          `gorm:"column:parent_id;type:uuid"`
	Parent       *Location           `gorm:"foreignKey:ParentID"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
