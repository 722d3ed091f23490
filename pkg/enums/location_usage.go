package enums

import "fmt"

// LocationUsage classifies what a stock location is used for.
type LocationUsage string

const (
	LocationUsageInternal   LocationUsage = "internal"
	LocationUsageCustomer   LocationUsage = "customer"
	LocationUsageSupplier   LocationUsage = "supplier"
	LocationUsageProduction LocationUsage = "production"
	LocationUsageInventory  LocationUsage = "inventory"
	LocationUsageTransit    LocationUsage = "transit"
	LocationUsageView       LocationUsage = "view"
)

var validLocationUsages = []LocationUsage{
	LocationUsageInternal,
	LocationUsageCustomer,
	LocationUsageSupplier,
	LocationUsageProduction,
	LocationUsageInventory,
	LocationUsageTransit,
	LocationUsageView,
}

// String implements fmt.Stringer.
func (u LocationUsage) String() string {
	return string(u)
}

// IsValid reports whether the value is a known LocationUsage.
func (u LocationUsage) IsValid() bool {
	for _, candidate := range validLocationUsages {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseLocationUsage converts raw input into a LocationUsage.
func ParseLocationUsage(value string) (LocationUsage, error) {
	for _, candidate := range validLocationUsages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location usage %q", value)
}
