package enums

import "fmt"

// OperationKind names a stock operation launched from the map.
type OperationKind string

const (
	// OperationPick ships stock out to the warehouse's customer location.
	OperationPick OperationKind = "pick"
	// OperationMove relocates stock within one warehouse.
	OperationMove OperationKind = "move"
	// OperationTransfer relocates stock to another warehouse's stock location.
	OperationTransfer OperationKind = "transfer"
)

var validOperationKinds = []OperationKind{
	OperationPick,
	OperationMove,
	OperationTransfer,
}

// String implements fmt.Stringer.
func (k OperationKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known OperationKind.
func (k OperationKind) IsValid() bool {
	for _, candidate := range validOperationKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseOperationKind converts raw input into an OperationKind.
func ParseOperationKind(value string) (OperationKind, error) {
	for _, candidate := range validOperationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation kind %q", value)
}
