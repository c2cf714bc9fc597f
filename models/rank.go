// models/rank.go
package models

// MaxRank is the most senior rank a member can reach.
const MaxRank = 9

// RankRates holds the five generation-specific leadership commission rates
// for one rank. RankRates[0] applies to generation 1. Rates are fractions in
// the range 0.0-1.0.
type RankRates [5]float64

// RankCommissionTable maps a rank (1-9) to its leadership rates. Rank 1 has
// all-zero rates: leadership commission only activates once a member is
// promoted out of rank 1.
type RankCommissionTable map[int]RankRates

// RatesFor returns the rates for the given rank. Unknown ranks get all-zero
// rates, which keeps malformed data from ever paying leadership commission.
func (t RankCommissionTable) RatesFor(rank int) RankRates {
	rates, ok := t[rank]
	if !ok {
		return RankRates{}
	}
	return rates
}
