package enums

import "fmt"

// ReferenceType names the record an inventory transaction points back to.
type ReferenceType string

const (
	ReferenceTypeOrder             ReferenceType = "order"
	ReferenceTypeOrderCancellation ReferenceType = "order_cancellation"
	ReferenceTypeManualAdjustment  ReferenceType = "manual_adjustment"
)

var validReferenceTypes = []ReferenceType{
	ReferenceTypeOrder,
	ReferenceTypeOrderCancellation,
	ReferenceTypeManualAdjustment,
}

// String implements fmt.Stringer.
func (t ReferenceType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ReferenceType.
func (t ReferenceType) IsValid() bool {
	for _, candidate := range validReferenceTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseReferenceType converts raw input into a ReferenceType.
func ParseReferenceType(value string) (ReferenceType, error) {
	for _, candidate := range validReferenceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reference type %q", value)
}
