package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is one cell coordinate inside a warehouse map grid.
// X addresses the column, Y the row, Z the level/shelf.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Key renders the stable snapshot identifier of the cell, "x_y_z" with plain
// decimal integers (e.g. "12_3_0").
func (p Position) Key() string {
	return fmt.Sprintf("%d_%d_%d", p.X, p.Y, p.Z)
}

// String implements fmt.Stringer with the bracket form used in messages.
func (p Position) String() string {
	return fmt.Sprintf("[%d, %d, %d]", p.X, p.Y, p.Z)
}

// ParsePositionKey parses the "x_y_z" wire format back into a Position.
func ParsePositionKey(key string) (Position, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return Position{}, fmt.Errorf("invalid position key %q", key)
	}
	var coords [3]int
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return Position{}, fmt.Errorf("invalid position key %q: %w", key, err)
		}
		coords[i] = value
	}
	return Position{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
