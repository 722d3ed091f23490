package enums

import "fmt"

// PickingTypeCode labels a warehouse picking type template.
type PickingTypeCode string

const (
	PickingTypeIncoming PickingTypeCode = "incoming"
	PickingTypeOutgoing PickingTypeCode = "outgoing"
	PickingTypeInternal PickingTypeCode = "internal"
)

var validPickingTypeCodes = []PickingTypeCode{
	PickingTypeIncoming,
	PickingTypeOutgoing,
	PickingTypeInternal,
}

// String implements fmt.Stringer.
func (c PickingTypeCode) String() string {
	return string(c)
}

// IsValid reports whether the value is a known PickingTypeCode.
func (c PickingTypeCode) IsValid() bool {
	for _, candidate := range validPickingTypeCodes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParsePickingTypeCode converts raw input into a PickingTypeCode.
func ParsePickingTypeCode(value string) (PickingTypeCode, error) {
	for _, candidate := range validPickingTypeCodes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid picking type code %q", value)
}

// PickingState tracks the lifecycle of a transfer document.
type PickingState string

const (
	PickingStateDraft     PickingState = "draft"
	PickingStateConfirmed PickingState = "confirmed"
	PickingStateAssigned  PickingState = "assigned"
	PickingStateDone      PickingState = "done"
	PickingStateCancel    PickingState = "cancel"
)

// String implements fmt.Stringer.
func (s PickingState) String() string {
	return string(s)
}

// MoveState tracks the lifecycle of a single stock move or move line.
type MoveState string

const (
	MoveStateDraft     MoveState = "draft"
	MoveStateConfirmed MoveState = "confirmed"
	MoveStateAssigned  MoveState = "assigned"
	MoveStateDone      MoveState = "done"
	MoveStateCancel    MoveState = "cancel"
)

// String implements fmt.Stringer.
func (s MoveState) String() string {
	return string(s)
}
