package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

func TestResolveMixedSnapshotAndLiveFallback(t *testing.T) {
	// One item carries checkout price snapshots (100/80 x2), the other is a
	// legacy item priced off the live product (50/45 x1):
	// (100-80)*2 + (50-45)*1 = 45.
	memberID := primitive.NewObjectID()
	product := &models.Product{
		ID:            primitive.NewObjectID(),
		CustomerPrice: 50,
		MemberPrice:   45,
	}
	source := newFakeOrderSource()
	source.addProduct(product)
	source.addOrder(&models.Order{
		ID:          primitive.NewObjectID(),
		ReferredBy:  memberID,
		IsDelivered: true,
		OrderItems: []models.OrderItem{
			{
				ProductID:               primitive.NewObjectID(),
				Quantity:                2,
				CustomerPriceAtPurchase: floatPtr(100),
				MemberPriceAtPurchase:   floatPtr(80),
			},
			{
				ProductID: product.ID,
				Quantity:  1,
			},
		},
	})

	resolver := NewCustomerCommissionResolver(source)
	result, err := resolver.Resolve(context.Background(), memberID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if !result.Commission.Equal(decimal.NewFromInt(45)) {
		t.Errorf("commission = %s, want 45", result.Commission)
	}
	if result.Orders != 1 {
		t.Errorf("orders = %d, want 1", result.Orders)
	}

	// A repeat call for the same member yields no additional commission.
	again, err := resolver.Resolve(context.Background(), memberID)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if !again.Commission.IsZero() {
		t.Errorf("second commission = %s, want 0", again.Commission)
	}
	if again.Orders != 0 {
		t.Errorf("second orders = %d, want 0", again.Orders)
	}
}

func TestResolveUsesActiveDiscountOverride(t *testing.T) {
	memberID := primitive.NewObjectID()
	product := &models.Product{
		ID:            primitive.NewObjectID(),
		CustomerPrice: 60,
		MemberPrice:   50,
		CustomerDiscount: &models.ProductDiscount{
			Enabled:         true,
			DiscountedPrice: 55,
		},
		MemberDiscount: &models.ProductDiscount{
			Enabled:         false,
			DiscountedPrice: 40,
		},
	}
	source := newFakeOrderSource()
	source.addProduct(product)
	source.addOrder(&models.Order{
		ID:          primitive.NewObjectID(),
		ReferredBy:  memberID,
		IsDelivered: true,
		OrderItems: []models.OrderItem{
			{ProductID: product.ID, Quantity: 3},
		},
	})

	resolver := NewCustomerCommissionResolver(source)
	result, err := resolver.Resolve(context.Background(), memberID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Customer discount active (55), member discount disabled (50): (55-50)*3.
	if !result.Commission.Equal(decimal.NewFromInt(15)) {
		t.Errorf("commission = %s, want 15", result.Commission)
	}
}

func TestResolveSkipsItemWithNoPriceSource(t *testing.T) {
	// Missing snapshot and vanished product: the item is skipped with a
	// warning, the rest of the order still pays.
	memberID := primitive.NewObjectID()
	source := newFakeOrderSource()
	source.addOrder(&models.Order{
		ID:          primitive.NewObjectID(),
		ReferredBy:  memberID,
		IsDelivered: true,
		OrderItems: []models.OrderItem{
			{ProductID: primitive.NewObjectID(), Quantity: 1},
			{
				ProductID:               primitive.NewObjectID(),
				Quantity:                1,
				CustomerPriceAtPurchase: floatPtr(30),
				MemberPriceAtPurchase:   floatPtr(25),
			},
		},
	})

	resolver := NewCustomerCommissionResolver(source)
	result, err := resolver.Resolve(context.Background(), memberID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !result.Commission.Equal(decimal.NewFromInt(5)) {
		t.Errorf("commission = %s, want 5", result.Commission)
	}
}

func TestResolveLosingClaimRaceCountsNothing(t *testing.T) {
	// The order shows up in this pass's read set, but another pass claims it
	// before ours does. Losing the conditional update is a normal zero
	// outcome, not an error.
	memberID := primitive.NewObjectID()
	order := &models.Order{
		ID:                             primitive.NewObjectID(),
		ReferredBy:                     memberID,
		IsDelivered:                    true,
		IsCustomerCommissionCalculated: true,
		OrderItems: []models.OrderItem{
			{
				ProductID:               primitive.NewObjectID(),
				Quantity:                1,
				CustomerPriceAtPurchase: floatPtr(100),
				MemberPriceAtPurchase:   floatPtr(80),
			},
		},
	}
	source := newFakeOrderSource()
	source.addOrder(order)
	source.stale[order.ID] = true

	resolver := NewCustomerCommissionResolver(source)
	result, err := resolver.Resolve(context.Background(), memberID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !result.Commission.IsZero() {
		t.Errorf("commission = %s, want 0", result.Commission)
	}
	if result.Orders != 0 {
		t.Errorf("orders = %d, want 0", result.Orders)
	}
}

func TestResolveLeavesOrdersUnclaimedOnPricingFailure(t *testing.T) {
	// A transient product-load failure mid-pass must not burn the order: no
	// flag may flip until every markup in the pass has been priced, so a retry
	// after the store recovers still credits the full commission.
	memberID := primitive.NewObjectID()
	product := &models.Product{
		ID:            primitive.NewObjectID(),
		CustomerPrice: 50,
		MemberPrice:   45,
	}
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		ReferredBy:  memberID,
		IsDelivered: true,
		OrderItems: []models.OrderItem{
			{
				ProductID:               primitive.NewObjectID(),
				Quantity:                2,
				CustomerPriceAtPurchase: floatPtr(100),
				MemberPriceAtPurchase:   floatPtr(80),
			},
			{ProductID: product.ID, Quantity: 1},
		},
	}
	source := newFakeOrderSource()
	source.addProduct(product)
	source.addOrder(order)
	source.productErr = errors.New("transient store error")

	resolver := NewCustomerCommissionResolver(source)
	if _, err := resolver.Resolve(context.Background(), memberID); err == nil {
		t.Fatal("Resolve succeeded despite the product store being down")
	}
	if source.claimCalls != 0 {
		t.Errorf("failed pass performed %d claims, want 0", source.claimCalls)
	}
	if order.IsCustomerCommissionCalculated {
		t.Fatal("failed pass flipped the commission flag")
	}

	// The store recovers; the retry sees the same order and pays in full.
	source.productErr = nil
	result, err := resolver.Resolve(context.Background(), memberID)
	if err != nil {
		t.Fatalf("retry Resolve: %v", err)
	}
	if !result.Commission.Equal(decimal.NewFromInt(45)) {
		t.Errorf("retry commission = %s, want 45", result.Commission)
	}
	if result.Orders != 1 {
		t.Errorf("retry orders = %d, want 1", result.Orders)
	}
}

func TestPreviewHasNoSideEffects(t *testing.T) {
	memberID := primitive.NewObjectID()
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		ReferredBy:  memberID,
		IsDelivered: true,
		OrderItems: []models.OrderItem{
			{
				ProductID:               primitive.NewObjectID(),
				Quantity:                2,
				CustomerPriceAtPurchase: floatPtr(100),
				MemberPriceAtPurchase:   floatPtr(80),
			},
		},
	}
	source := newFakeOrderSource()
	source.addOrder(order)

	resolver := NewCustomerCommissionResolver(source)
	for i := 0; i < 2; i++ {
		result, err := resolver.Preview(context.Background(), memberID)
		if err != nil {
			t.Fatalf("Preview: %v", err)
		}
		if !result.Commission.Equal(decimal.NewFromInt(40)) {
			t.Errorf("preview commission = %s, want 40", result.Commission)
		}
		if result.Orders != 1 {
			t.Errorf("preview orders = %d, want 1", result.Orders)
		}
	}

	if source.claimCalls != 0 {
		t.Errorf("preview performed %d claims, want 0", source.claimCalls)
	}
	if order.IsCustomerCommissionCalculated {
		t.Error("preview flipped the commission flag")
	}
}

func TestResolveIgnoresUndeliveredOrders(t *testing.T) {
	memberID := primitive.NewObjectID()
	source := newFakeOrderSource()
	source.addOrder(&models.Order{
		ID:          primitive.NewObjectID(),
		ReferredBy:  memberID,
		IsDelivered: false,
		OrderItems: []models.OrderItem{
			{
				ProductID:               primitive.NewObjectID(),
				Quantity:                1,
				CustomerPriceAtPurchase: floatPtr(100),
				MemberPriceAtPurchase:   floatPtr(80),
			},
		},
	})

	resolver := NewCustomerCommissionResolver(source)
	result, err := resolver.Resolve(context.Background(), memberID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !result.Commission.IsZero() || result.Orders != 0 {
		t.Errorf("result = %+v, want zero", result)
	}
}
