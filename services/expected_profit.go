// services/expected_profit.go
package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

const expectedProfitCacheTTL = 60 * time.Second

// ExpectedProfitService composes the aggregator, the pure calculators and the
// customer-purchase preview into the on-demand "my expected profit" view.
// The view is read-only; settling customer commission is a separate call.
type ExpectedProfitService struct {
	aggregator *PointsAggregator
	engine     *CommissionEngine
	resolver   *CustomerCommissionResolver
	cache      *redis.Client
}

// NewExpectedProfitService creates the expected-profit view service. cache
// may be nil, in which case every request recomputes.
func NewExpectedProfitService(aggregator *PointsAggregator, engine *CommissionEngine, resolver *CustomerCommissionResolver, cache *redis.Client) *ExpectedProfitService {
	return &ExpectedProfitService{
		aggregator: aggregator,
		engine:     engine,
		resolver:   resolver,
		cache:      cache,
	}
}

// ExpectedProfit computes the member's current expected profit across all
// three commission streams. Results are cached briefly per member.
func (s *ExpectedProfitService) ExpectedProfit(ctx context.Context, memberID primitive.ObjectID) (*models.ExpectedProfit, error) {
	if cached := s.cachedProfit(ctx, memberID); cached != nil {
		return cached, nil
	}

	member, summary, err := s.aggregator.Aggregate(ctx, memberID)
	if err != nil {
		return nil, err
	}

	performance := s.engine.PerformanceProfit(summary)
	leadership := s.engine.LeadershipCommission(member.Rank, summary.Generations())
	customer, err := s.resolver.Preview(ctx, memberID)
	if err != nil {
		return nil, err
	}

	totalBeforeDeduction := performance.PerformanceProfit.
		Add(leadership.TotalCommission).
		Add(customer.Commission.Decimal)
	platformFee := s.engine.PlatformFee(totalBeforeDeduction)

	profit := &models.ExpectedProfit{
		MemberID: memberID.Hex(),
		Rank:     member.Rank,
		Points:   summary,

		PersonalProfit:             models.NewAmount(performance.PersonalProfit),
		TeamProfit:                 models.NewAmount(performance.TeamProfit),
		PerformanceProfit:          models.NewAmount(performance.PerformanceProfit),
		LeadershipCommission:       models.NewAmount(leadership.TotalCommission),
		HasLeadershipCommission:    leadership.HasLeadershipCommission,
		CustomerPurchaseCommission: customer.Commission,
		UnprocessedCustomerOrders:  customer.Orders,

		TotalBeforeDeduction: models.NewAmount(totalBeforeDeduction),
		PlatformFee:          models.NewAmount(platformFee),
		FinalExpectedProfit:  models.NewAmount(totalBeforeDeduction.Sub(platformFee)),

		Details: models.ExpectedProfitDetails{
			PerformanceBreakdown: performance.Breakdown,
			LeadershipBreakdown:  leadership.Breakdown,
		},
	}

	s.cacheProfit(ctx, memberID, profit)
	return profit, nil
}

// SettleCustomerCommission runs the claiming resolver for the member and
// invalidates the cached expected-profit view.
func (s *ExpectedProfitService) SettleCustomerCommission(ctx context.Context, memberID primitive.ObjectID) (models.CustomerCommissionResult, error) {
	member, _, err := s.aggregator.Aggregate(ctx, memberID)
	if err != nil {
		return models.CustomerCommissionResult{}, err
	}

	result, err := s.resolver.Resolve(ctx, member.ID)
	if err != nil {
		return models.CustomerCommissionResult{}, err
	}
	s.invalidateCache(ctx, memberID)
	return result, nil
}

func expectedProfitCacheKey(memberID primitive.ObjectID) string {
	return "expectedProfit:" + memberID.Hex()
}

func (s *ExpectedProfitService) cachedProfit(ctx context.Context, memberID primitive.ObjectID) *models.ExpectedProfit {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, expectedProfitCacheKey(memberID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Warning: expected-profit cache read failed: %v", err)
		}
		return nil
	}
	var profit models.ExpectedProfit
	if err := json.Unmarshal(payload, &profit); err != nil {
		log.Printf("Warning: discarding malformed expected-profit cache entry: %v", err)
		return nil
	}
	return &profit
}

func (s *ExpectedProfitService) cacheProfit(ctx context.Context, memberID primitive.ObjectID, profit *models.ExpectedProfit) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(profit)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, expectedProfitCacheKey(memberID), payload, expectedProfitCacheTTL).Err(); err != nil {
		log.Printf("Warning: expected-profit cache write failed: %v", err)
	}
}

func (s *ExpectedProfitService) invalidateCache(ctx context.Context, memberID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, expectedProfitCacheKey(memberID)).Err(); err != nil {
		log.Printf("Warning: expected-profit cache invalidation failed: %v", err)
	}
}
