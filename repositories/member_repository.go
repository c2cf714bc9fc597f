package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vivanet/vivanet_backend/config"
	"github.com/vivanet/vivanet_backend/models"
)

// MemberRepository reads member documents for the commission engine.
type MemberRepository struct {
	collection *mongo.Collection
}

func NewMemberRepository(db *mongo.Client) *MemberRepository {
	return &MemberRepository{
		collection: config.GetCollection(db, "members"),
	}
}

// GetMember returns the account document for the id, or (nil, nil) when no
// account exists.
func (r *MemberRepository) GetMember(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding member %s: %w", id.Hex(), err)
	}
	return &member, nil
}

// ListMembers returns every active member account, the population a profit
// period calculation covers.
func (r *MemberRepository) ListMembers(ctx context.Context) ([]models.Member, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"role": models.RoleMember, "isActive": true},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("decoding members: %w", err)
	}
	return members, nil
}

// FindByReferralCode returns the member owning the code, or (nil, nil).
func (r *MemberRepository) FindByReferralCode(ctx context.Context, code string) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding member by referral code: %w", err)
	}
	return &member, nil
}

// Insert stores a new member account and sets its generated id. A duplicate
// email or referral code surfaces as a mongo duplicate-key error the caller
// can test with mongo.IsDuplicateKeyError.
func (r *MemberRepository) Insert(ctx context.Context, member *models.Member) error {
	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		member.ID = id
	}
	return nil
}

// AddReferral appends the new member to the sponsor's direct referral list.
func (r *MemberRepository) AddReferral(ctx context.Context, sponsorID, memberID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": sponsorID},
		bson.M{"$push": bson.M{"referrals": memberID}})
	if err != nil {
		return fmt.Errorf("recording referral under sponsor %s: %w", sponsorID.Hex(), err)
	}
	return nil
}

// FindByEmail returns the account with the given email, or (nil, nil).
func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&member)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding member by email: %w", err)
	}
	return &member, nil
}
