package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// PickingType is a warehouse-owned template defining default source and
// destination for a class of transfer documents.
type PickingType struct {
	ID                    uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID           uuid.UUID             `gorm:"column:warehouse_id;type:uuid;not null"`
	Name                  string                `gorm:"column:name;not null"`
	Code                  enums.PickingTypeCode `gorm:"column:code;type:picking_type_code;not null"`
	DefaultSrcLocationID  *uuid.UUID            `gorm:"column:default_src_location_id;type:uuid"`
	DefaultDestLocationID *uuid.UUID            `gorm:"column:default_dest_location_id;type:uuid"`
	Sequence              int                   `gorm:"column:sequence;not null;default:10"`
	CreatedAt             time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
