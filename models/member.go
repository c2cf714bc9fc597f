// models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles
const (
	RoleMember   = "member"
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Member model. A member is a node in the referral tree. The generation point
// caches are maintained by the referral-tree process and are read-only here.
type Member struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string               `json:"email" bson:"email"`
	Password     string               `json:"password,omitempty" bson:"password"`
	FullName     string               `json:"fullName" bson:"fullName"`
	Role         string               `json:"role" bson:"role"` // "member", "customer", "admin"
	IsActive     bool                 `json:"isActive" bson:"isActive"`
	Rank         int                  `json:"rank" bson:"rank"` // 1-9, higher = more senior
	ReferralCode string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferredBy   *primitive.ObjectID  `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	Referrals    []primitive.ObjectID `json:"referrals,omitempty" bson:"referrals,omitempty"`

	PersonalPoints    float64 `json:"personalPoints" bson:"personalPoints"`
	Generation1Points float64 `json:"generation1Points" bson:"generation1Points"`
	Generation2Points float64 `json:"generation2Points" bson:"generation2Points"`
	Generation3Points float64 `json:"generation3Points" bson:"generation3Points"`
	Generation4Points float64 `json:"generation4Points" bson:"generation4Points"`
	Generation5Points float64 `json:"generation5Points" bson:"generation5Points"`
	MonthlyPoints     float64 `json:"monthlyPoints" bson:"monthlyPoints"`
	LeadershipPoints  float64 `json:"leadershipPoints" bson:"leadershipPoints"`
	CumulativePoints  float64 `json:"cumulativePoints" bson:"cumulativePoints"`

	// Running commission ledger. Updated by the payout flow, read-only here.
	TotalCommissionPaid float64 `json:"totalCommissionPaid" bson:"totalCommissionPaid"`
	AvailableCommission float64 `json:"availableCommission" bson:"availableCommission"`
	WithdrawnCommission float64 `json:"withdrawnCommission" bson:"withdrawnCommission"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// GenerationPoints returns the five cached generation tiers in order.
func (m *Member) GenerationPoints() [5]float64 {
	return [5]float64{
		m.Generation1Points,
		m.Generation2Points,
		m.Generation3Points,
		m.Generation4Points,
		m.Generation5Points,
	}
}

// PointsSummary is the aggregated points view of a single member.
type PointsSummary struct {
	Personal    float64 `json:"personal"`
	Generation1 float64 `json:"generation1"`
	Generation2 float64 `json:"generation2"`
	Generation3 float64 `json:"generation3"`
	Generation4 float64 `json:"generation4"`
	Generation5 float64 `json:"generation5"`
	Team        float64 `json:"team"`       // sum of the five generations
	Cumulative  float64 `json:"cumulative"` // personal + team
}

// Generations returns the five generation tiers in order.
func (s PointsSummary) Generations() [5]float64 {
	return [5]float64{s.Generation1, s.Generation2, s.Generation3, s.Generation4, s.Generation5}
}

// LoginRequest model
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EnrollMemberRequest model. SponsorCode is the referral code of the sponsor
// placing the new member; empty for root members.
type EnrollMemberRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"fullName" validate:"required"`
	SponsorCode string `json:"sponsorCode,omitempty"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
