package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vivanet/vivanet_backend/config"
	"github.com/vivanet/vivanet_backend/models"
)

// ProfitPeriodRepository persists profit period snapshots. Status transitions
// and deletes are conditional writes so the draft -> finalized -> paid
// lifecycle is enforced at the document level, not just in the service.
type ProfitPeriodRepository struct {
	collection *mongo.Collection
}

func NewProfitPeriodRepository(db *mongo.Client) *ProfitPeriodRepository {
	return &ProfitPeriodRepository{
		collection: config.GetCollection(db, "profitPeriods"),
	}
}

func (r *ProfitPeriodRepository) Insert(ctx context.Context, period *models.ProfitPeriod) error {
	result, err := r.collection.InsertOne(ctx, period)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("profit period number %d already exists: %w", period.Number, err)
		}
		return fmt.Errorf("inserting profit period: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		period.ID = id
	}
	return nil
}

// FindByID returns the period, or (nil, nil) when it does not exist.
func (r *ProfitPeriodRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProfitPeriod, error) {
	var period models.ProfitPeriod
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&period)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding profit period %s: %w", id.Hex(), err)
	}
	return &period, nil
}

// FindAll returns all periods, newest number first, without the per-member
// rows to keep list responses small.
func (r *ProfitPeriodRepository) FindAll(ctx context.Context) ([]models.ProfitPeriod, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "number", Value: -1}}).
			SetProjection(bson.M{"membersProfits": 0}))
	if err != nil {
		return nil, fmt.Errorf("listing profit periods: %w", err)
	}
	defer cursor.Close(ctx)

	var periods []models.ProfitPeriod
	if err := cursor.All(ctx, &periods); err != nil {
		return nil, fmt.Errorf("decoding profit periods: %w", err)
	}
	return periods, nil
}

// UpdateStatus transitions a period conditionally on its current status. A
// zero matched count means the period is missing or not in the from status.
func (r *ProfitPeriodRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string, at time.Time) (bool, error) {
	update := bson.M{"status": to}
	switch to {
	case models.ProfitPeriodFinalized:
		update["finalizedAt"] = at
	case models.ProfitPeriodPaid:
		update["paidAt"] = at
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": update})
	if err != nil {
		return false, fmt.Errorf("updating profit period %s status: %w", id.Hex(), err)
	}
	return result.MatchedCount == 1, nil
}

// Delete removes the period only while its status is still in allowedStatuses.
func (r *ProfitPeriodRepository) Delete(ctx context.Context, id primitive.ObjectID, allowedStatuses []string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":    id,
		"status": bson.M{"$in": allowedStatuses},
	})
	if err != nil {
		return false, fmt.Errorf("deleting profit period %s: %w", id.Hex(), err)
	}
	return result.DeletedCount == 1, nil
}
