// Package money represents cedi amounts as integer pesewas.
// 100 pesewas = 1 cedi; float arithmetic never touches stored amounts
package money

import "fmt"

// Amount is a quantity of money in minor units (pesewas)
type Amount int64

// MinorPerMajor is the number of pesewas in a cedi
const MinorPerMajor = 100

// Code is the ISO currency code for all amounts in the system
const Code = "GHS"

// FromMajor converts a major-unit value (cedis) to an Amount, rounding to the
// nearest pesewa
func FromMajor(v float64) Amount {
	if v >= 0 {
		return Amount(v*MinorPerMajor + 0.5)
	}
	return Amount(v*MinorPerMajor - 0.5)
}

// FromMinor wraps a pesewa count
func FromMinor(v int64) Amount { return Amount(v) }

// Minor returns the amount in pesewas
func (a Amount) Minor() int64 { return int64(a) }

// Major returns the amount in cedis as a float (display only)
func (a Amount) Major() float64 { return float64(a) / MinorPerMajor }

// String formats like "GHS 15.00"
func (a Amount) String() string {
	neg := ""
	v := int64(a)
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%s%s %d.%02d", neg, Code, v/MinorPerMajor, v%MinorPerMajor)
}
