// models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order represents a completed purchase made by a referred non-member
// customer. Prices are snapshotted at checkout so later catalog changes never
// alter historical commission math.
type Order struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerID primitive.ObjectID `json:"customerId" bson:"customerId"`
	ReferredBy primitive.ObjectID `json:"referredBy" bson:"referredBy"`
	Status     string             `json:"status" bson:"status"` // "pending", "shipped", "delivered", "cancelled"
	OrderItems []OrderItem        `json:"orderItems" bson:"orderItems"`

	IsDelivered bool `json:"isDelivered" bson:"isDelivered"`
	// Idempotency flag: once true this order never contributes commission again.
	IsCustomerCommissionCalculated bool `json:"isCustomerCommissionCalculated" bson:"isCustomerCommissionCalculated"`

	CreatedAt                      time.Time  `json:"createdAt" bson:"createdAt"`
	DeliveredAt                    *time.Time `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CustomerCommissionCalculatedAt *time.Time `json:"customerCommissionCalculatedAt,omitempty" bson:"customerCommissionCalculatedAt,omitempty"`
}

// OrderItem is a single line item. The price-at-purchase snapshots are absent
// on legacy orders, in which case the live product prices are the fallback.
type OrderItem struct {
	ProductID               primitive.ObjectID `json:"productId" bson:"productId"`
	ProductName             string             `json:"productName,omitempty" bson:"productName,omitempty"`
	Quantity                int                `json:"quantity" bson:"quantity"`
	CustomerPriceAtPurchase *float64           `json:"customerPriceAtPurchase,omitempty" bson:"customerPriceAtPurchase,omitempty"`
	MemberPriceAtPurchase   *float64           `json:"memberPriceAtPurchase,omitempty" bson:"memberPriceAtPurchase,omitempty"`
}

// HasPriceSnapshot reports whether both checkout price snapshots are present.
func (i *OrderItem) HasPriceSnapshot() bool {
	return i.CustomerPriceAtPurchase != nil && i.MemberPriceAtPurchase != nil
}

// ProductDiscount is a time-boxed price override on a product.
type ProductDiscount struct {
	Enabled         bool    `json:"enabled" bson:"enabled"`
	DiscountedPrice float64 `json:"discountedPrice" bson:"discountedPrice"`
}

// Product carries the live catalog prices used as fallback for legacy order
// items that predate price snapshotting.
type Product struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	CustomerPrice    float64            `json:"customerPrice" bson:"customerPrice"`
	MemberPrice      float64            `json:"memberPrice" bson:"memberPrice"`
	CustomerDiscount *ProductDiscount   `json:"customerDiscount,omitempty" bson:"customerDiscount,omitempty"`
	MemberDiscount   *ProductDiscount   `json:"memberDiscount,omitempty" bson:"memberDiscount,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EffectiveCustomerPrice returns the customer price with any active discount
// override applied.
func (p *Product) EffectiveCustomerPrice() float64 {
	if p.CustomerDiscount != nil && p.CustomerDiscount.Enabled {
		return p.CustomerDiscount.DiscountedPrice
	}
	return p.CustomerPrice
}

// EffectiveMemberPrice returns the member price with any active discount
// override applied.
func (p *Product) EffectiveMemberPrice() float64 {
	if p.MemberDiscount != nil && p.MemberDiscount.Enabled {
		return p.MemberDiscount.DiscountedPrice
	}
	return p.MemberPrice
}
