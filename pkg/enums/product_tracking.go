package enums

import "fmt"

// ProductTracking controls how units of a product are identified.
type ProductTracking string

const (
	TrackingNone   ProductTracking = "none"
	TrackingLot    ProductTracking = "lot"
	TrackingSerial ProductTracking = "serial"
)

var validProductTrackings = []ProductTracking{
	TrackingNone,
	TrackingLot,
	TrackingSerial,
}

// String implements fmt.Stringer.
func (t ProductTracking) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ProductTracking.
func (t ProductTracking) IsValid() bool {
	for _, candidate := range validProductTrackings {
		if candidate == t {
			return true
		}
	}
	return false
}

// Tracked reports whether the product carries lot or serial identities.
// Only tracked products are eligible for the warehouse map.
func (t ProductTracking) Tracked() bool {
	return t == TrackingLot || t == TrackingSerial
}

// ParseProductTracking converts raw input into a ProductTracking.
func ParseProductTracking(value string) (ProductTracking, error) {
	for _, candidate := range validProductTrackings {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product tracking %q", value)
}
