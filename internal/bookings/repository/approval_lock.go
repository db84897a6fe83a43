package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rezerv/internal/bookings/errors"
	"rezerv/pkg/config"
	"rezerv/pkg/model"
)

const lockCollectionName = "Approval_locks"

// ApprovalLockRepository provides non-blocking advisory locks. Acquire is a
// single insert against a unique _id: whoever inserts first holds the lock,
// everyone else gets ErrLockHeld.
type ApprovalLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.ApprovalLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoApprovalLockRepository struct {
	collection *mongo.Collection
}

func NewApprovalLockRepository(cfg *config.Config) ApprovalLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoApprovalLockRepository{
		collection: db.Collection(lockCollectionName),
	}
}

func (r *mongoApprovalLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.ApprovalLock, error) {
	now := time.Now()
	lock := &model.ApprovalLock{
		ID:        lockID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrLockHeld
		}
		return nil, err
	}

	return lock, nil
}

func (r *mongoApprovalLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
