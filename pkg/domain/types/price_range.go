package types

import "fmt"

// PriceRange is a dollar-sign price tier such as "$$"
type PriceRange string

const (
	PriceRangeBudget    PriceRange = "$"
	PriceRangeModerate  PriceRange = "$$"
	PriceRangeExpensive PriceRange = "$$$"
	PriceRangeLuxury    PriceRange = "$$$$"
)

// DefaultPriceRange is used when a listing carries no price tier
const DefaultPriceRange = PriceRangeModerate

// IsValid checks if the price range is one of the four tiers
func (p PriceRange) IsValid() bool {
	switch p {
	case PriceRangeBudget,
		PriceRangeModerate,
		PriceRangeExpensive,
		PriceRangeLuxury:
		return true
	default:
		return false
	}
}

func (p PriceRange) String() string {
	return string(p)
}

// ParsePriceRange parses a string into a PriceRange. Empty input yields an
// empty PriceRange without error.
func ParsePriceRange(s string) (PriceRange, error) {
	if s == "" {
		return "", nil
	}
	p := PriceRange(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid price range: %s", s)
	}
	return p, nil
}
