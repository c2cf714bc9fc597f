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

// OrderRepository reads customer orders and performs the conditional
// commission-flag flip the resolver's idempotency depends on.
type OrderRepository struct {
	orders   *mongo.Collection
	products *mongo.Collection
}

func NewOrderRepository(db *mongo.Client) *OrderRepository {
	return &OrderRepository{
		orders:   config.GetCollection(db, "orders"),
		products: config.GetCollection(db, "products"),
	}
}

// FindUnprocessedOrders returns delivered orders referred by the member whose
// commission flag is still false, oldest first.
func (r *OrderRepository) FindUnprocessedOrders(ctx context.Context, memberID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := r.orders.Find(ctx, bson.M{
		"referredBy":                     memberID,
		"isDelivered":                    true,
		"isCustomerCommissionCalculated": false,
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding unprocessed orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}
	return orders, nil
}

// ClaimOrder flips the commission flag with a conditional update. The filter
// only matches while the flag is false, so of any number of concurrent passes
// exactly one observes a modified document and wins credit for the order.
func (r *OrderRepository) ClaimOrder(ctx context.Context, orderID primitive.ObjectID) (bool, error) {
	now := time.Now()
	result, err := r.orders.UpdateOne(ctx,
		bson.M{
			"_id":                            orderID,
			"isCustomerCommissionCalculated": false,
		},
		bson.M{
			"$set": bson.M{
				"isCustomerCommissionCalculated": true,
				"customerCommissionCalculatedAt": now,
			},
		})
	if err != nil {
		return false, fmt.Errorf("claiming order %s: %w", orderID.Hex(), err)
	}
	return result.ModifiedCount == 1, nil
}

// GetProduct returns the live product document, or (nil, nil) when it no
// longer exists.
func (r *OrderRepository) GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding product %s: %w", productID.Hex(), err)
	}
	return &product, nil
}
