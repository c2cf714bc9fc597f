// services/profit_period.go
package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

// PeriodNotifier receives profit period lifecycle events. Implementations
// must not block; the service calls them inline.
type PeriodNotifier interface {
	PeriodCalculated(period *models.ProfitPeriod)
	PeriodFinalized(period *models.ProfitPeriod)
	PeriodPaid(period *models.ProfitPeriod)
}

// ProfitPeriodService closes date ranges into immutable profit period
// snapshots and drives their draft -> finalized -> paid lifecycle.
type ProfitPeriodService struct {
	members  MemberLister
	store    PeriodStore
	engine   *CommissionEngine
	workers  int
	notifier PeriodNotifier
}

// NewProfitPeriodService creates the snapshotter. workers bounds the
// calculation pool; values below 1 fall back to a single worker. notifier may
// be nil.
func NewProfitPeriodService(members MemberLister, store PeriodStore, engine *CommissionEngine, workers int, notifier PeriodNotifier) *ProfitPeriodService {
	if workers < 1 {
		workers = 1
	}
	return &ProfitPeriodService{
		members:  members,
		store:    store,
		engine:   engine,
		workers:  workers,
		notifier: notifier,
	}
}

type memberRowResult struct {
	row     *models.MemberProfitRow
	calcErr *MemberCalculationError
}

// CalculatePeriod runs the performance and leadership calculators for every
// member and persists the result as one draft period. The customer-purchase
// stream is excluded: it is resolved on demand, not per calendar period. A
// failing member is recorded in the period's error list and does not abort
// the batch.
func (s *ProfitPeriodService) CalculatePeriod(ctx context.Context, req models.ProfitPeriodRequest) (*models.ProfitPeriod, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidPeriodRange
	}

	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	runID := uuid.NewString()
	log.Printf("Profit period calculation %s started: %q over %d members", runID, req.Name, len(members))

	rows, calcErrors := s.calculateRows(ctx, members)
	if err := ctx.Err(); err != nil {
		// Cancelled between member iterations; nothing has been persisted.
		return nil, err
	}

	// Descending by total profit, ties broken by member id for determinism.
	sort.Slice(rows, func(i, j int) bool {
		cmp := rows[i].Profit.TotalProfit.Cmp(rows[j].Profit.TotalProfit.Decimal)
		if cmp != 0 {
			return cmp > 0
		}
		return rows[i].MemberID.Hex() < rows[j].MemberID.Hex()
	})

	totalPerformance := decimal.Zero
	totalLeadership := decimal.Zero
	totalProfits := decimal.Zero
	for i := range rows {
		totalPerformance = totalPerformance.Add(rows[i].Profit.PerformanceProfit.Decimal)
		totalLeadership = totalLeadership.Add(rows[i].Profit.LeadershipProfit.Decimal)
		totalProfits = totalProfits.Add(rows[i].Profit.TotalProfit.Decimal)
	}

	period := &models.ProfitPeriod{
		Name:      req.Name,
		Number:    req.Number,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		Status:    models.ProfitPeriodDraft,
		RunID:     runID,
		Summary: models.ProfitPeriodSummary{
			MemberCount:             len(rows),
			TotalPerformanceProfits: models.NewAmount(totalPerformance),
			TotalLeadershipProfits:  models.NewAmount(totalLeadership),
			TotalProfits:            models.NewAmount(totalProfits),
		},
		MembersProfits:    rows,
		CalculationErrors: calcErrors,
		CreatedAt:         time.Now(),
	}

	if err := s.store.Insert(ctx, period); err != nil {
		return nil, fmt.Errorf("persisting profit period: %w", err)
	}

	log.Printf("Profit period calculation %s finished: %d rows, %d errors, total %s",
		runID, len(rows), len(calcErrors), totalProfits.String())
	if s.notifier != nil {
		s.notifier.PeriodCalculated(period)
	}
	return period, nil
}

// calculateRows fans the members out over the bounded worker pool. Each
// member's computation is isolated; its error is captured independently.
// Dispatch stops between iterations once ctx is cancelled.
func (s *ProfitPeriodService) calculateRows(ctx context.Context, members []models.Member) ([]models.MemberProfitRow, []models.PeriodCalculationError) {
	jobs := make(chan *models.Member)
	results := make(chan memberRowResult)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for member := range jobs {
				results <- s.calculateMemberRow(member)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range members {
			select {
			case <-ctx.Done():
				return
			case jobs <- &members[i]:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var rows []models.MemberProfitRow
	var calcErrors []models.PeriodCalculationError
	for result := range results {
		if result.calcErr != nil {
			log.Printf("Profit period calculation error: %v", result.calcErr)
			calcErrors = append(calcErrors, models.PeriodCalculationError{
				MemberID: result.calcErr.MemberID,
				Message:  result.calcErr.Err.Error(),
			})
			continue
		}
		rows = append(rows, *result.row)
	}
	return rows, calcErrors
}

// calculateMemberRow runs the aggregator and the pure calculators for one
// member. Once built, a row is complete; there is no partially-filled state.
func (s *ProfitPeriodService) calculateMemberRow(member *models.Member) memberRowResult {
	if err := validateMemberRecord(member); err != nil {
		return memberRowResult{calcErr: &MemberCalculationError{MemberID: member.ID, Err: err}}
	}

	summary := SummarizeMember(member)
	performance := s.engine.PerformanceProfit(summary)
	leadership := s.engine.LeadershipCommission(member.Rank, summary.Generations())
	total := performance.PerformanceProfit.Add(leadership.TotalCommission)

	return memberRowResult{row: &models.MemberProfitRow{
		MemberID: member.ID,
		FullName: member.FullName,
		Rank:     member.Rank,
		Points:   summary,
		Profit: models.MemberProfit{
			PerformanceProfit: models.NewAmount(performance.PerformanceProfit),
			LeadershipProfit:  models.NewAmount(leadership.TotalCommission),
			TotalProfit:       models.NewAmount(total),
		},
	}}
}

// validateMemberRecord rejects records the calculators cannot meaningfully
// price. These indicate corrupted data, not expected states.
func validateMemberRecord(member *models.Member) error {
	if member.Rank < 1 || member.Rank > models.MaxRank {
		return fmt.Errorf("rank %d is out of range", member.Rank)
	}
	if member.PersonalPoints < 0 {
		return fmt.Errorf("personal points %v are negative", member.PersonalPoints)
	}
	for g, points := range member.GenerationPoints() {
		if points < 0 {
			return fmt.Errorf("generation %d points %v are negative", g+1, points)
		}
	}
	return nil
}

// GetPeriod returns a stored period.
func (s *ProfitPeriodService) GetPeriod(ctx context.Context, id primitive.ObjectID) (*models.ProfitPeriod, error) {
	period, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading profit period %s: %w", id.Hex(), err)
	}
	if period == nil {
		return nil, ErrPeriodNotFound
	}
	return period, nil
}

// ListPeriods returns all stored periods.
func (s *ProfitPeriodService) ListPeriods(ctx context.Context) ([]models.ProfitPeriod, error) {
	return s.store.FindAll(ctx)
}

// Finalize transitions a draft period to finalized. Any other starting status
// is rejected; the stored rows are never recomputed.
func (s *ProfitPeriodService) Finalize(ctx context.Context, id primitive.ObjectID) (*models.ProfitPeriod, error) {
	period, err := s.transition(ctx, id, models.ProfitPeriodDraft, models.ProfitPeriodFinalized)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.PeriodFinalized(period)
	}
	return period, nil
}

// MarkPaid transitions a finalized period to paid.
func (s *ProfitPeriodService) MarkPaid(ctx context.Context, id primitive.ObjectID) (*models.ProfitPeriod, error) {
	period, err := s.transition(ctx, id, models.ProfitPeriodFinalized, models.ProfitPeriodPaid)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.PeriodPaid(period)
	}
	return period, nil
}

func (s *ProfitPeriodService) transition(ctx context.Context, id primitive.ObjectID, from, to string) (*models.ProfitPeriod, error) {
	matched, err := s.store.UpdateStatus(ctx, id, from, to, time.Now())
	if err != nil {
		return nil, fmt.Errorf("transitioning profit period %s to %s: %w", id.Hex(), to, err)
	}
	if !matched {
		return nil, s.classifyMismatch(ctx, id)
	}
	return s.GetPeriod(ctx, id)
}

// Delete removes a period that has not been paid out. Paid periods are part
// of the audit trail and can never be removed.
func (s *ProfitPeriodService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.store.Delete(ctx, id, []string{models.ProfitPeriodDraft, models.ProfitPeriodFinalized})
	if err != nil {
		return fmt.Errorf("deleting profit period %s: %w", id.Hex(), err)
	}
	if !deleted {
		return s.classifyMismatch(ctx, id)
	}
	return nil
}

// classifyMismatch distinguishes "period does not exist" from "period exists
// but its status forbids the operation" after a conditional write matched
// nothing.
func (s *ProfitPeriodService) classifyMismatch(ctx context.Context, id primitive.ObjectID) error {
	period, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading profit period %s: %w", id.Hex(), err)
	}
	if period == nil {
		return ErrPeriodNotFound
	}
	return ErrFinalizedPeriodMutation
}
