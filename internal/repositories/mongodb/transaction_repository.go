package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/novaminer/clicker-backend/internal/models"
	"github.com/novaminer/clicker-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository handles MongoDB operations for mining plan transactions
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("mining_plan_transactions"),
	}
}

// EnsureIndexes creates a partial unique index so a user can hold at most one
// pending transaction, closing the check-then-create race at the storage layer.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "telegramId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.StatusPending}),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})
	return err
}

// Create inserts a new pending transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *models.MiningPlanTransaction) error {
	_, err := r.collection.InsertOne(ctx, tx)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrPendingExists
	}
	return err
}

// FindByID finds a transaction by its id
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.MiningPlanTransaction, error) {
	var tx models.MiningPlanTransaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByTelegramID finds all transactions for a user, newest first
func (r *TransactionRepository) FindByTelegramID(ctx context.Context, telegramID string) ([]*models.MiningPlanTransaction, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"telegramId": telegramID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.MiningPlanTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.MiningPlanTransaction{}
	}
	return txs, nil
}

// FindByStatus finds all transactions with the given status, oldest first
func (r *TransactionRepository) FindByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.MiningPlanTransaction, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.MiningPlanTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.MiningPlanTransaction{}
	}
	return txs, nil
}

// UpdateStatus transitions a pending transaction to a terminal status. The
// filter conditions on status=pending, so concurrent transitions of the same
// transaction admit exactly one winner.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus, confirmedAt time.Time) (*models.MiningPlanTransaction, error) {
	filter := bson.M{"_id": id, "status": models.StatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"confirmedAt": confirmedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.MiningPlanTransaction
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Distinguish an unknown id from a transaction that already reached a
	// terminal state.
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, repositories.ErrAlreadyProcessed
}
