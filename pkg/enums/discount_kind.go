package enums

import "fmt"

// DiscountKind distinguishes percentage discounts from fixed-amount ones.
type DiscountKind string

const (
	DiscountKindPercentage DiscountKind = "percentage"
	DiscountKindFixed      DiscountKind = "fixed"
)

var validDiscountKinds = []DiscountKind{
	DiscountKindPercentage,
	DiscountKindFixed,
}

func (d DiscountKind) String() string {
	return string(d)
}

// IsValid reports whether the kind is known.
func (d DiscountKind) IsValid() bool {
	for _, candidate := range validDiscountKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountKind converts raw input into a DiscountKind.
func ParseDiscountKind(value string) (DiscountKind, error) {
	for _, candidate := range validDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount kind %q", value)
}
