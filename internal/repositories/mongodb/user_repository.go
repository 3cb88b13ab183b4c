package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// EnsureIndexes creates the unique telegramId index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "telegramId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByTelegramID finds a user by their Telegram id
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	var user models.User
	filter := bson.M{"telegramId": telegramID}
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ApplyAccrual performs the optimistically locked accrual update. The filter
// conditions on the timestamp read by the caller, so the update only lands if
// no other accrual or credit advanced the record in between.
func (r *UserRepository) ApplyAccrual(ctx context.Context, telegramID string, lastSeen time.Time, delta float64, now time.Time) (*models.User, error) {
	filter := bson.M{
		"telegramId":                telegramID,
		"lastPointsUpdateTimestamp": lastSeen,
	}
	update := bson.M{
		"$inc": bson.M{
			"points":        delta,
			"pointsBalance": delta,
		},
		"$set": bson.M{
			"lastPointsUpdateTimestamp": now,
			"updatedAt":                 now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The caller read the record moments ago, so a miss means the
			// timestamp precondition failed rather than a missing user.
			return nil, repositories.ErrConflict
		}
		return nil, err
	}
	return &updated, nil
}

// IncrementPoints atomically adds delta to both point fields
func (r *UserRepository) IncrementPoints(ctx context.Context, telegramID string, delta float64) (*models.User, error) {
	filter := bson.M{"telegramId": telegramID}
	update := bson.M{
		"$inc": bson.M{
			"points":        delta,
			"pointsBalance": delta,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Count counts all users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
