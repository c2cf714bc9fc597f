package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/config"
	"github.com/vivanet/vivanet_backend/models"
)

func testCommissionConfig() config.CommissionConfig {
	return config.CommissionConfig{
		PointsToCurrency:   0.55,
		PersonalRate:       0.20,
		GenerationRates:    [5]float64{0.11, 0.08, 0.06, 0.03, 0.02},
		PlatformFeePercent: 0.05,
		PeriodWorkers:      4,
	}
}

func testRankTable() models.RankCommissionTable {
	return config.DefaultRankCommissionTable()
}

// fakeMemberSource serves member fixtures for the aggregator and the
// expected-profit service.
type fakeMemberSource struct {
	members map[primitive.ObjectID]*models.Member
}

func newFakeMemberSource(members ...*models.Member) *fakeMemberSource {
	src := &fakeMemberSource{members: make(map[primitive.ObjectID]*models.Member)}
	for _, m := range members {
		src.members[m.ID] = m
	}
	return src
}

func (s *fakeMemberSource) GetMember(_ context.Context, id primitive.ObjectID) (*models.Member, error) {
	return s.members[id], nil
}

// fakeMemberLister serves the member population for period calculations.
type fakeMemberLister struct {
	members []models.Member
	err     error
}

func (l *fakeMemberLister) ListMembers(context.Context) ([]models.Member, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.members, nil
}

// fakeOrderSource implements the order port with the same conditional-claim
// semantics as the Mongo repository: a claim succeeds only while the flag is
// still false.
type fakeOrderSource struct {
	mu       sync.Mutex
	orders   map[primitive.ObjectID]*models.Order
	products map[primitive.ObjectID]*models.Product
	// stale lists order ids that FindUnprocessedOrders keeps returning even
	// after they were claimed, simulating a concurrent pass racing this one.
	stale map[primitive.ObjectID]bool
	// productErr makes GetProduct fail, simulating a transient store outage.
	productErr error

	claimCalls int
}

func newFakeOrderSource() *fakeOrderSource {
	return &fakeOrderSource{
		orders:   make(map[primitive.ObjectID]*models.Order),
		products: make(map[primitive.ObjectID]*models.Product),
		stale:    make(map[primitive.ObjectID]bool),
	}
}

func (s *fakeOrderSource) addOrder(order *models.Order) {
	s.orders[order.ID] = order
}

func (s *fakeOrderSource) addProduct(product *models.Product) {
	s.products[product.ID] = product
}

func (s *fakeOrderSource) FindUnprocessedOrders(_ context.Context, memberID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []models.Order
	for _, order := range s.orders {
		if order.ReferredBy != memberID || !order.IsDelivered {
			continue
		}
		if order.IsCustomerCommissionCalculated && !s.stale[order.ID] {
			continue
		}
		found = append(found, *order)
	}
	return found, nil
}

func (s *fakeOrderSource) ClaimOrder(_ context.Context, orderID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.claimCalls++
	order, ok := s.orders[orderID]
	if !ok || order.IsCustomerCommissionCalculated {
		return false, nil
	}
	order.IsCustomerCommissionCalculated = true
	return true, nil
}

func (s *fakeOrderSource) GetProduct(_ context.Context, productID primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.productErr != nil {
		return nil, s.productErr
	}
	return s.products[productID], nil
}

// fakePeriodStore implements the period store with in-memory conditional
// writes mirroring the repository semantics.
type fakePeriodStore struct {
	mu      sync.Mutex
	periods map[primitive.ObjectID]*models.ProfitPeriod
	inserts int
}

func newFakePeriodStore() *fakePeriodStore {
	return &fakePeriodStore{periods: make(map[primitive.ObjectID]*models.ProfitPeriod)}
}

func (s *fakePeriodStore) Insert(_ context.Context, period *models.ProfitPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	period.ID = primitive.NewObjectID()
	stored := *period
	s.periods[period.ID] = &stored
	s.inserts++
	return nil
}

func (s *fakePeriodStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.ProfitPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	period, ok := s.periods[id]
	if !ok {
		return nil, nil
	}
	copied := *period
	return &copied, nil
}

func (s *fakePeriodStore) FindAll(context.Context) ([]models.ProfitPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.ProfitPeriod
	for _, period := range s.periods {
		all = append(all, *period)
	}
	return all, nil
}

func (s *fakePeriodStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	period, ok := s.periods[id]
	if !ok || period.Status != from {
		return false, nil
	}
	period.Status = to
	switch to {
	case models.ProfitPeriodFinalized:
		period.FinalizedAt = &at
	case models.ProfitPeriodPaid:
		period.PaidAt = &at
	}
	return true, nil
}

func (s *fakePeriodStore) Delete(_ context.Context, id primitive.ObjectID, allowedStatuses []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	period, ok := s.periods[id]
	if !ok {
		return false, nil
	}
	for _, status := range allowedStatuses {
		if period.Status == status {
			delete(s.periods, id)
			return true, nil
		}
	}
	return false, nil
}

func floatPtr(f float64) *float64 {
	return &f
}
