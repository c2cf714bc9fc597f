package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

func TestSummarizeMember(t *testing.T) {
	member := &models.Member{
		PersonalPoints:    250,
		Generation1Points: 100,
		Generation2Points: 80,
		Generation3Points: 60,
		Generation4Points: 40,
		Generation5Points: 20,
	}

	summary := SummarizeMember(member)

	if summary.Team != 300 {
		t.Errorf("team = %v, want 300", summary.Team)
	}
	if summary.Cumulative != 550 {
		t.Errorf("cumulative = %v, want 550", summary.Cumulative)
	}
	if got := summary.Generations(); got != [5]float64{100, 80, 60, 40, 20} {
		t.Errorf("generations = %v", got)
	}
}

func TestAggregateRejectsMissingAccount(t *testing.T) {
	aggregator := NewPointsAggregator(newFakeMemberSource())

	_, _, err := aggregator.Aggregate(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, ErrNotAMember) {
		t.Errorf("err = %v, want ErrNotAMember", err)
	}
}

func TestAggregateRejectsNonMemberAccount(t *testing.T) {
	customer := &models.Member{
		ID:   primitive.NewObjectID(),
		Role: models.RoleCustomer,
	}
	aggregator := NewPointsAggregator(newFakeMemberSource(customer))

	_, _, err := aggregator.Aggregate(context.Background(), customer.ID)
	if !errors.Is(err, ErrNotAMember) {
		t.Errorf("err = %v, want ErrNotAMember", err)
	}
}

func TestAggregateReturnsMemberSummary(t *testing.T) {
	member := &models.Member{
		ID:                primitive.NewObjectID(),
		Role:              models.RoleMember,
		PersonalPoints:    1000,
		Generation1Points: 500,
	}
	aggregator := NewPointsAggregator(newFakeMemberSource(member))

	got, summary, err := aggregator.Aggregate(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.ID != member.ID {
		t.Errorf("member id = %s, want %s", got.ID.Hex(), member.ID.Hex())
	}
	if summary.Personal != 1000 || summary.Team != 500 || summary.Cumulative != 1500 {
		t.Errorf("summary = %+v", summary)
	}
}
