package enums

import "fmt"

// StockTxType is the direction of an inventory transaction.
type StockTxType string

const (
	StockTxTypeIn  StockTxType = "in"
	StockTxTypeOut StockTxType = "out"
)

var validStockTxTypes = []StockTxType{
	StockTxTypeIn,
	StockTxTypeOut,
}

// String implements fmt.Stringer.
func (t StockTxType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known StockTxType.
func (t StockTxType) IsValid() bool {
	for _, candidate := range validStockTxTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockTxType converts raw input into a StockTxType.
func ParseStockTxType(value string) (StockTxType, error) {
	for _, candidate := range validStockTxTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock transaction type %q", value)
}
