// services/ports.go
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
)

// MemberSource reads single member records. The generation point caches on the
// record are maintained by the referral-tree process; the engine treats them
// as an immutable read model.
type MemberSource interface {
	// GetMember returns (nil, nil) when no account exists for the id.
	GetMember(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
}

// MemberLister enumerates the member accounts covered by a period calculation.
type MemberLister interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
}

// OrderSource reads a member's referred customer orders and claims them for
// commission processing.
type OrderSource interface {
	// FindUnprocessedOrders returns delivered orders referred by the member
	// whose commission flag is still false.
	FindUnprocessedOrders(ctx context.Context, memberID primitive.ObjectID) ([]models.Order, error)

	// ClaimOrder conditionally flips the commission flag. It returns true only
	// when this call performed the flip; false means another pass already
	// claimed the order.
	ClaimOrder(ctx context.Context, orderID primitive.ObjectID) (bool, error)

	// GetProduct returns (nil, nil) when the product no longer exists.
	GetProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
}

// PeriodStore persists profit period snapshots.
type PeriodStore interface {
	Insert(ctx context.Context, period *models.ProfitPeriod) error

	// FindByID returns (nil, nil) when the period does not exist.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProfitPeriod, error)

	FindAll(ctx context.Context) ([]models.ProfitPeriod, error)

	// UpdateStatus transitions a period from one status to another. It returns
	// false when no period matched the (id, from) pair.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to string, at time.Time) (bool, error)

	// Delete removes a period only while its status is in allowedStatuses. It
	// returns false when nothing matched.
	Delete(ctx context.Context, id primitive.ObjectID, allowedStatuses []string) (bool, error)
}
