package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "gearpool/internal/bookings/errors"
	"gearpool/pkg/config"
	"gearpool/pkg/model"
)

// ReservationLockRepository backs the per-equipment lock with an
// advisory document. The unique _id makes acquisition a single atomic
// insert; a TTL index on expires_at reaps locks left by crashed holders.
type ReservationLockRepository interface {
	Acquire(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoReservationLockRepository struct {
	collection *mongo.Collection
}

func NewReservationLockRepository(cfg *config.Config) ReservationLockRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoReservationLockRepository{
		collection: db.Collection("Reservation_locks"),
	}
}

func (r *mongoReservationLockRepository) Acquire(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrLockHeld
		}
		return nil, err
	}

	return lock, nil
}

func (r *mongoReservationLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
