package payment

import "math"

// Package is a purchasable coin bundle with a fixed VND price
type Package struct {
	Coins     float64 `json:"coins"`
	AmountVND float64 `json:"amount_vnd"`
}

// Catalog is the fixed list of purchasable coin packages
var Catalog = []Package{
	{Coins: 20, AmountVND: 52000},
	{Coins: 60, AmountVND: 130000},
	{Coins: 130, AmountVND: 260000},
	{Coins: 270, AmountVND: 520000},
	{Coins: 700, AmountVND: 1300000},
	{Coins: 1500, AmountVND: 2600000},
}

const (
	// coinTolerance absorbs float noise in client-submitted coin counts
	coinTolerance = 1e-9
	// amountTolerance matches bank notifications that round to the cent
	amountTolerance = 0.01
)

// FindPackage returns the catalog entry matching the requested coin count
// and amount, or ErrInvalidPackage when no entry matches both.
func FindPackage(coins, amountVND float64) (Package, error) {
	for _, p := range Catalog {
		if math.Abs(p.Coins-coins) < coinTolerance && math.Abs(p.AmountVND-amountVND) < amountTolerance {
			return p, nil
		}
	}
	return Package{}, ErrInvalidPackage
}

// AmountMatches reports whether a paid amount settles the expected one
func AmountMatches(expected, paid float64) bool {
	return math.Abs(expected-paid) <= amountTolerance
}
