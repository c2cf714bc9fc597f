// services/engine.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/vivanet/vivanet_backend/config"
	"github.com/vivanet/vivanet_backend/models"
)

// CommissionEngine holds the pure commission calculators. It is deterministic
// given its configuration and the rank table, performs no I/O, and is safe for
// concurrent use.
type CommissionEngine struct {
	cfg   config.CommissionConfig
	table models.RankCommissionTable
}

// NewCommissionEngine creates an engine with the given policy configuration
// and leadership rate table.
func NewCommissionEngine(cfg config.CommissionConfig, table models.RankCommissionTable) *CommissionEngine {
	return &CommissionEngine{cfg: cfg, table: table}
}

// PerformanceResult is the outcome of a performance profit calculation.
type PerformanceResult struct {
	PersonalCommissionPoints decimal.Decimal
	TeamCommissionPoints     decimal.Decimal
	PersonalProfit           decimal.Decimal
	TeamProfit               decimal.Decimal
	// PerformanceProfit is floored to whole currency units.
	PerformanceProfit decimal.Decimal
	Breakdown         []models.PerformanceBreakdownRow
}

// LeadershipResult is the outcome of a leadership commission calculation.
type LeadershipResult struct {
	// Breakdown omits zero-rate generations; the totals do not.
	Breakdown               []models.LeadershipBreakdownRow
	TotalCommissionPoints   decimal.Decimal
	TotalCommission         decimal.Decimal
	HasLeadershipCommission bool
}

// PerformanceProfit converts a member's personal and team points into
// currency. The personal share uses the flat personal rate; the team share
// applies the per-generation rate schedule. The flat team figure is the sum of
// the per-generation rows, so the headline number and the transparency
// breakdown always agree.
func (e *CommissionEngine) PerformanceProfit(summary models.PointsSummary) PerformanceResult {
	conversion := decimal.NewFromFloat(e.cfg.PointsToCurrency)

	personalPoints := decimal.NewFromFloat(summary.Personal).
		Mul(decimal.NewFromFloat(e.cfg.PersonalRate))

	teamPoints := decimal.Zero
	breakdown := make([]models.PerformanceBreakdownRow, 0, len(e.cfg.GenerationRates))
	for g, points := range summary.Generations() {
		rate := e.cfg.GenerationRates[g]
		commissionPoints := decimal.NewFromFloat(points).Mul(decimal.NewFromFloat(rate))
		teamPoints = teamPoints.Add(commissionPoints)
		breakdown = append(breakdown, models.PerformanceBreakdownRow{
			Generation:       g + 1,
			Points:           points,
			Rate:             rate,
			CommissionPoints: models.NewAmount(commissionPoints),
			Profit:           models.NewAmount(commissionPoints.Mul(conversion)),
		})
	}

	return PerformanceResult{
		PersonalCommissionPoints: personalPoints,
		TeamCommissionPoints:     teamPoints,
		PersonalProfit:           personalPoints.Mul(conversion),
		TeamProfit:               teamPoints.Mul(conversion),
		PerformanceProfit:        personalPoints.Add(teamPoints).Mul(conversion).Floor(),
		Breakdown:                breakdown,
	}
}

// LeadershipCommission computes the rank-gated leadership bonus across the
// five downstream generations. The total is summed over all five generations
// even where the rate is zero; only the breakdown omits zero-rate rows.
func (e *CommissionEngine) LeadershipCommission(rank int, generations [5]float64) LeadershipResult {
	conversion := decimal.NewFromFloat(e.cfg.PointsToCurrency)
	rates := e.table.RatesFor(rank)

	result := LeadershipResult{
		TotalCommissionPoints:   decimal.Zero,
		TotalCommission:         decimal.Zero,
		HasLeadershipCommission: rank > 1,
	}
	for g, points := range generations {
		rate := rates[g]
		commissionPoints := decimal.NewFromFloat(points).Mul(decimal.NewFromFloat(rate))
		commission := commissionPoints.Mul(conversion)
		result.TotalCommissionPoints = result.TotalCommissionPoints.Add(commissionPoints)
		result.TotalCommission = result.TotalCommission.Add(commission)
		if rate > 0 {
			result.Breakdown = append(result.Breakdown, models.LeadershipBreakdownRow{
				Generation:       g + 1,
				Points:           points,
				Rate:             rate,
				CommissionPoints: models.NewAmount(commissionPoints),
				Commission:       models.NewAmount(commission),
			})
		}
	}
	return result
}

// PlatformFee computes the fee deducted from an expected-profit total, rounded
// to two decimal places.
func (e *CommissionEngine) PlatformFee(total decimal.Decimal) decimal.Decimal {
	return total.Mul(decimal.NewFromFloat(e.cfg.PlatformFeePercent)).Round(2)
}
