// models/commission.go
package models

// PerformanceBreakdownRow is one generation's share of the team half of
// performance profit, shown in the transparency view.
type PerformanceBreakdownRow struct {
	Generation       int     `json:"generation"`
	Points           float64 `json:"points"`
	Rate             float64 `json:"rate"`
	CommissionPoints Amount  `json:"commissionPoints"`
	Profit           Amount  `json:"profit"`
}

// LeadershipBreakdownRow is one generation's leadership commission at the
// member's rank. Zero-rate generations are omitted from breakdowns.
type LeadershipBreakdownRow struct {
	Generation       int     `json:"generation"`
	Points           float64 `json:"points"`
	Rate             float64 `json:"rate"`
	CommissionPoints Amount  `json:"commissionPoints"`
	Commission       Amount  `json:"commission"`
}

// CustomerCommissionResult is the outcome of a customer-purchase commission
// pass. For a preview, Orders counts the still-unprocessed orders; for a
// settling pass it counts the orders actually claimed.
type CustomerCommissionResult struct {
	Commission Amount `json:"commission"`
	Orders     int    `json:"orders"`
}

// ExpectedProfit is the on-demand "my expected profit" view for one member.
type ExpectedProfit struct {
	MemberID string        `json:"memberId"`
	Rank     int           `json:"rank"`
	Points   PointsSummary `json:"points"`

	PersonalProfit             Amount `json:"personalProfit"`
	TeamProfit                 Amount `json:"teamProfit"`
	PerformanceProfit          Amount `json:"performanceProfit"`
	LeadershipCommission       Amount `json:"leadershipCommission"`
	HasLeadershipCommission    bool   `json:"hasLeadershipCommission"`
	CustomerPurchaseCommission Amount `json:"customerPurchaseCommission"`
	UnprocessedCustomerOrders  int    `json:"unprocessedCustomerOrders"`

	TotalBeforeDeduction Amount `json:"totalBeforeDeduction"`
	PlatformFee          Amount `json:"platformFee"`
	FinalExpectedProfit  Amount `json:"finalExpectedProfit"`

	Details ExpectedProfitDetails `json:"details"`
}

// ExpectedProfitDetails carries the per-generation breakdowns behind the
// headline numbers.
type ExpectedProfitDetails struct {
	PerformanceBreakdown []PerformanceBreakdownRow `json:"performanceBreakdown"`
	LeadershipBreakdown  []LeadershipBreakdownRow  `json:"leadershipBreakdown"`
}
