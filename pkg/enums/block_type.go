package enums

import "fmt"

// BlockType explains why a map cell cannot store stock.
type BlockType string

const (
	BlockTypeWall      BlockType = "wall"
	BlockTypeAisle     BlockType = "aisle"
	BlockTypeStairs    BlockType = "stairs"
	BlockTypeEquipment BlockType = "equipment"
	BlockTypeHazard    BlockType = "hazard"
	BlockTypeReserved  BlockType = "reserved"
	BlockTypeOther     BlockType = "other"
)

var validBlockTypes = []BlockType{
	BlockTypeWall,
	BlockTypeAisle,
	BlockTypeStairs,
	BlockTypeEquipment,
	BlockTypeHazard,
	BlockTypeReserved,
	BlockTypeOther,
}

var blockTypeLabels = map[BlockType]string{
	BlockTypeWall:      "Wall/Pillar",
	BlockTypeAisle:     "Aisle",
	BlockTypeStairs:    "Stairs",
	BlockTypeEquipment: "Fixed Equipment",
	BlockTypeHazard:    "Hazard Area",
	BlockTypeReserved:  "Reserved Area",
	BlockTypeOther:     "Other",
}

// String implements fmt.Stringer.
func (b BlockType) String() string {
	return string(b)
}

// Label returns the human-readable name used in snapshots.
func (b BlockType) Label() string {
	if label, ok := blockTypeLabels[b]; ok {
		return label
	}
	return blockTypeLabels[BlockTypeOther]
}

// IsValid reports whether the value is a known BlockType.
func (b BlockType) IsValid() bool {
	for _, candidate := range validBlockTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBlockType converts raw input into a BlockType.
func ParseBlockType(value string) (BlockType, error) {
	for _, candidate := range validBlockTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid block type %q", value)
}
