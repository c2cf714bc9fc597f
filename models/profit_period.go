// models/profit_period.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profit period statuses. Transitions are one-way:
// draft -> finalized -> paid.
const (
	ProfitPeriodDraft     = "draft"
	ProfitPeriodFinalized = "finalized"
	ProfitPeriodPaid      = "paid"
)

// ProfitPeriod is an immutable snapshot of commission calculations over a
// closed date range, one row per member. A finalized period is never
// recomputed in place; it can only be deleted (while unpaid) and regenerated
// as a new draft.
type ProfitPeriod struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Number    int                `json:"number" bson:"number"`
	StartDate time.Time          `json:"startDate" bson:"startDate"`
	EndDate   time.Time          `json:"endDate" bson:"endDate"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Status    string             `json:"status" bson:"status"`
	RunID     string             `json:"runId" bson:"runId"`

	Summary        ProfitPeriodSummary `json:"summary" bson:"summary"`
	MembersProfits []MemberProfitRow   `json:"membersProfits" bson:"membersProfits"`
	// Members that failed during calculation; their rows are absent.
	CalculationErrors []PeriodCalculationError `json:"calculationErrors,omitempty" bson:"calculationErrors,omitempty"`

	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	FinalizedAt *time.Time `json:"finalizedAt,omitempty" bson:"finalizedAt,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// ProfitPeriodSummary holds the aggregate totals of a period. The totals are
// the exact decimal sum of the member rows.
type ProfitPeriodSummary struct {
	MemberCount             int    `json:"memberCount" bson:"memberCount"`
	TotalPerformanceProfits Amount `json:"totalPerformanceProfits" bson:"totalPerformanceProfits"`
	TotalLeadershipProfits  Amount `json:"totalLeadershipProfits" bson:"totalLeadershipProfits"`
	TotalProfits            Amount `json:"totalProfits" bson:"totalProfits"`
}

// MemberProfitRow is one member's snapshot inside a profit period, captured at
// calculation time and never recomputed afterward.
type MemberProfitRow struct {
	MemberID primitive.ObjectID `json:"memberId" bson:"memberId"`
	FullName string             `json:"fullName" bson:"fullName"`
	Rank     int                `json:"rank" bson:"rank"`
	Points   PointsSummary      `json:"points" bson:"points"`
	Profit   MemberProfit       `json:"profit" bson:"profit"`
}

// MemberProfit is the computed profit of one member row. Customer-purchase
// commission is intentionally absent: that stream is resolved on demand, not
// per calendar period.
type MemberProfit struct {
	PerformanceProfit Amount `json:"performanceProfit" bson:"performanceProfit"`
	LeadershipProfit  Amount `json:"leadershipProfit" bson:"leadershipProfit"`
	TotalProfit       Amount `json:"totalProfit" bson:"totalProfit"`
}

// PeriodCalculationError records a member whose calculation failed during a
// period run.
type PeriodCalculationError struct {
	MemberID primitive.ObjectID `json:"memberId" bson:"memberId"`
	Message  string             `json:"message" bson:"message"`
}

// ProfitPeriodRequest is the admin request to calculate a new period.
type ProfitPeriodRequest struct {
	Name      string    `json:"name" validate:"required"`
	Number    int       `json:"number" validate:"required,gt=0"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Notes     string    `json:"notes,omitempty"`
}
