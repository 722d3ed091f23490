package warehousemap

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/waremaphq/waremap-backend/pkg/enums"
)

// InDateLayout is the day-month-year rendering used for cell entry dates.
const InDateLayout = "02-01-2006"

// Fallback labels rendered when a cell has no lot or no known vendor.
const (
	NoVendorLabel = "No Vendor"
	NoLotLabel    = "No Lot"
)

// OccupiedCell is one lot-on-coordinate entry of a map snapshot.
type OccupiedCell struct {
	QuantID           uuid.UUID       `json:"quant_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductCode       string          `json:"product_code"`
	LotID             *uuid.UUID      `json:"lot_id,omitempty"`
	LotName           string          `json:"lot_name"`
	VendorName        string          `json:"vendor_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UoM               string          `json:"uom"`
	LocationID        uuid.UUID       `json:"location_id"`
	LocationName      string          `json:"location_name"`
	LocationPath      string          `json:"location_path"`
	InDate            string          `json:"in_date"`
	DaysInStock       int             `json:"days_in_stock"`
	PosX              int             `json:"posx"`
	PosY              int             `json:"posy"`
	PosZ              int             `json:"posz"`
}

// BlockedCellView is the rendering payload of one blocked coordinate.
type BlockedCellView struct {
	PosX       int             `json:"posx"`
	PosY       int             `json:"posy"`
	PosZ       int             `json:"posz"`
	BlockType  enums.BlockType `json:"block_type"`
	BlockLabel string          `json:"block_label"`
	BlockColor string          `json:"block_color"`
	Note       *string         `json:"note,omitempty"`
}

// MapSnapshot is the full renderable view of one map. Lots and BlockedCells
// are keyed by "x_y_z" position keys.
type MapSnapshot struct {
	ID                    uuid.UUID                  `json:"id"`
	Name                  string                     `json:"name"`
	WarehouseID           uuid.UUID                  `json:"warehouse_id"`
	WarehouseName         string                     `json:"warehouse_name"`
	LocationID            uuid.UUID                  `json:"location_id"`
	Rows                  int                        `json:"rows"`
	Columns               int                        `json:"columns"`
	RowSpacingInterval    int                        `json:"row_spacing_interval"`
	ColumnSpacingInterval int                        `json:"column_spacing_interval"`
	Lots                  map[string]OccupiedCell    `json:"lots"`
	BlockedCells          map[string]BlockedCellView `json:"blocked_cells"`
}

// CreateMapInput carries a new map descriptor.
type CreateMapInput struct {
	Name                  string    `json:"name" validate:"required"`
	WarehouseID           uuid.UUID `json:"warehouse_id" validate:"required"`
	LocationID            uuid.UUID `json:"location_id" validate:"required"`
	Rows                  int       `json:"rows" validate:"required,min=1"`
	Columns               int       `json:"columns" validate:"required,min=1"`
	RowSpacingInterval    int       `json:"row_spacing_interval" validate:"min=0"`
	ColumnSpacingInterval int       `json:"column_spacing_interval" validate:"min=0"`
	Sequence              *int      `json:"sequence,omitempty"`
}

// UpdateMapInput carries a partial map update; nil fields stay untouched.
type UpdateMapInput struct {
	Name                  *string `json:"name,omitempty"`
	Rows                  *int    `json:"rows,omitempty" validate:"omitempty,min=1"`
	Columns               *int    `json:"columns,omitempty" validate:"omitempty,min=1"`
	RowSpacingInterval    *int    `json:"row_spacing_interval,omitempty" validate:"omitempty,min=0"`
	ColumnSpacingInterval *int    `json:"column_spacing_interval,omitempty" validate:"omitempty,min=0"`
	Sequence              *int    `json:"sequence,omitempty"`
	Active                *bool   `json:"active,omitempty"`
}

// MapSummary is the list-view projection of a map descriptor.
type MapSummary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	WarehouseID      uuid.UUID `json:"warehouse_id"`
	LocationID       uuid.UUID `json:"location_id"`
	Rows             int       `json:"rows"`
	Columns          int       `json:"columns"`
	Sequence         int       `json:"sequence"`
	Active           bool      `json:"active"`
	BlockedCellCount int64     `json:"blocked_cell_count"`
}

// BlockInput marks one coordinate as non-storable.
type BlockInput struct {
	PosX       int              `json:"posx" validate:"min=0"`
	PosY       int              `json:"posy" validate:"min=0"`
	PosZ       int              `json:"posz" validate:"min=0"`
	BlockType  *enums.BlockType `json:"block_type,omitempty"`
	BlockColor *string          `json:"block_color,omitempty"`
	Note       *string          `json:"note,omitempty"`
}

// UnblockInput clears one blocked coordinate.
type UnblockInput struct {
	PosX int `json:"posx" validate:"min=0"`
	PosY int `json:"posy" validate:"min=0"`
	PosZ int `json:"posz" validate:"min=0"`
}

// PlaceMode selects how the placement engine sources the quant.
type PlaceMode string

const (
	// PlaceModeAssign repositions an existing quant.
	PlaceModeAssign PlaceMode = "assign"
	// PlaceModeCreate materializes a new quant at the map's root location.
	PlaceModeCreate PlaceMode = "create"
)

// PlaceInput is one placement request against a map.
type PlaceInput struct {
	Mode PlaceMode `json:"mode" validate:"required,oneof=assign create"`
	PosX int       `json:"posx" validate:"min=0"`
	PosY int       `json:"posy" validate:"min=0"`
	PosZ int       `json:"posz" validate:"min=0"`

	// assign mode
	QuantID *uuid.UUID `json:"quant_id,omitempty"`

	// create mode
	ProductID *uuid.UUID       `json:"product_id,omitempty"`
	LotID     *uuid.UUID       `json:"lot_id,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
}
