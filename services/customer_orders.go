// services/customer_orders.go
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

// CustomerCommissionResolver computes the markup commission a member earns
// when a referred non-member customer buys at customer price instead of the
// member price.
type CustomerCommissionResolver struct {
	orders OrderSource
}

// NewCustomerCommissionResolver creates a resolver over the given order source.
func NewCustomerCommissionResolver(orders OrderSource) *CustomerCommissionResolver {
	return &CustomerCommissionResolver{orders: orders}
}

// Preview sums the unprocessed markup commission for a member without any
// side effects. Used by the expected-profit view.
func (r *CustomerCommissionResolver) Preview(ctx context.Context, memberID primitive.ObjectID) (models.CustomerCommissionResult, error) {
	orders, err := r.orders.FindUnprocessedOrders(ctx, memberID)
	if err != nil {
		return models.CustomerCommissionResult{}, fmt.Errorf("finding unprocessed orders for member %s: %w", memberID.Hex(), err)
	}

	total := decimal.Zero
	for i := range orders {
		markup, err := r.orderMarkup(ctx, &orders[i])
		if err != nil {
			return models.CustomerCommissionResult{}, err
		}
		total = total.Add(markup)
	}
	return models.CustomerCommissionResult{
		Commission: models.NewAmount(total),
		Orders:     len(orders),
	}, nil
}

// Resolve claims the member's unprocessed orders and returns the markup
// commission of the orders this pass actually claimed. An order is credited
// only when the conditional flag flip matched, so two concurrent passes can
// never both count the same order; losing the race is a normal zero outcome,
// not an error. A repeat call with no new orders returns zero.
//
// Every markup is priced before any order is claimed. A pricing failure aborts
// the pass with all orders still unclaimed, so a retry after a transient store
// error sees the same orders again and no commission is lost.
func (r *CustomerCommissionResolver) Resolve(ctx context.Context, memberID primitive.ObjectID) (models.CustomerCommissionResult, error) {
	orders, err := r.orders.FindUnprocessedOrders(ctx, memberID)
	if err != nil {
		return models.CustomerCommissionResult{}, fmt.Errorf("finding unprocessed orders for member %s: %w", memberID.Hex(), err)
	}

	markups := make([]decimal.Decimal, len(orders))
	for i := range orders {
		markup, err := r.orderMarkup(ctx, &orders[i])
		if err != nil {
			return models.CustomerCommissionResult{}, err
		}
		markups[i] = markup
	}

	total := decimal.Zero
	claimedOrders := 0
	for i := range orders {
		claimed, err := r.orders.ClaimOrder(ctx, orders[i].ID)
		if err != nil {
			return models.CustomerCommissionResult{}, fmt.Errorf("claiming order %s: %w", orders[i].ID.Hex(), err)
		}
		if !claimed {
			// Another pass already took this order between the read and the
			// claim. Nothing to do.
			continue
		}
		total = total.Add(markups[i])
		claimedOrders++
	}
	return models.CustomerCommissionResult{
		Commission: models.NewAmount(total),
		Orders:     claimedOrders,
	}, nil
}

// orderMarkup sums (customerPrice - memberPrice) * quantity across an order's
// line items. Items prefer their price-at-purchase snapshots; legacy items
// without snapshots fall back to the live product prices with any active
// discount override. An item with neither is skipped with a warning.
func (r *CustomerCommissionResolver) orderMarkup(ctx context.Context, order *models.Order) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		if item.Quantity <= 0 {
			continue
		}

		var customerPrice, memberPrice float64
		if item.HasPriceSnapshot() {
			customerPrice = *item.CustomerPriceAtPurchase
			memberPrice = *item.MemberPriceAtPurchase
		} else {
			product, err := r.orders.GetProduct(ctx, item.ProductID)
			if err != nil {
				return decimal.Zero, fmt.Errorf("loading product %s for order %s: %w", item.ProductID.Hex(), order.ID.Hex(), err)
			}
			if product == nil {
				log.Printf("Warning: order %s item %d has no price snapshot and product %s no longer exists, skipping item",
					order.ID.Hex(), i, item.ProductID.Hex())
				continue
			}
			customerPrice = product.EffectiveCustomerPrice()
			memberPrice = product.EffectiveMemberPrice()
		}

		markup := decimal.NewFromFloat(customerPrice).
			Sub(decimal.NewFromFloat(memberPrice)).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(markup)
	}
	return total, nil
}
