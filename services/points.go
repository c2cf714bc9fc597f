// services/points.go
package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

// PointsAggregator reads a member's cached personal and generation point
// totals. Pure lookup, no computation beyond summing the cached tiers.
type PointsAggregator struct {
	members MemberSource
}

// NewPointsAggregator creates a points aggregator over the given member source.
func NewPointsAggregator(members MemberSource) *PointsAggregator {
	return &PointsAggregator{members: members}
}

// SummarizeMember builds the points summary from an already-loaded member
// record. team is the sum of the five generation tiers; cumulative is
// personal + team.
func SummarizeMember(m *models.Member) models.PointsSummary {
	team := m.Generation1Points + m.Generation2Points + m.Generation3Points +
		m.Generation4Points + m.Generation5Points
	return models.PointsSummary{
		Personal:    m.PersonalPoints,
		Generation1: m.Generation1Points,
		Generation2: m.Generation2Points,
		Generation3: m.Generation3Points,
		Generation4: m.Generation4Points,
		Generation5: m.Generation5Points,
		Team:        team,
		Cumulative:  m.PersonalPoints + team,
	}
}

// Aggregate loads the member record and returns its points summary. Accounts
// that do not exist or are not member accounts are rejected with ErrNotAMember.
func (a *PointsAggregator) Aggregate(ctx context.Context, memberID primitive.ObjectID) (*models.Member, models.PointsSummary, error) {
	member, err := a.members.GetMember(ctx, memberID)
	if err != nil {
		return nil, models.PointsSummary{}, fmt.Errorf("loading member %s: %w", memberID.Hex(), err)
	}
	if member == nil || member.Role != models.RoleMember {
		return nil, models.PointsSummary{}, ErrNotAMember
	}
	return member, SummarizeMember(member), nil
}
