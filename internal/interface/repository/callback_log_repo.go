package repository

import (
	"context"
	"time"

	"telecare-notifier/internal/domain/entity"
	"telecare-notifier/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCallbackLogRepository implements the CallbackLogRepository interface
type MongoCallbackLogRepository struct {
	collection *mongo.Collection
}

// NewMongoCallbackLogRepository creates a new MongoDB callback log repository
func NewMongoCallbackLogRepository(db *mongo.Database) repository.CallbackLogRepository {
	collection := db.Collection("callback_logs")

	// Indexes for per-booking history and recency queries
	ctx := context.Background()

	bookingIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "bookingId", Value: 1},
			{Key: "receivedAt", Value: -1},
		},
	}

	verdictIndex := mongo.IndexModel{
		Keys: bson.M{"verdict": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		bookingIndex,
		verdictIndex,
	})

	return &MongoCallbackLogRepository{
		collection: collection,
	}
}

// Save persists one callback audit record
func (r *MongoCallbackLogRepository) Save(ctx context.Context, log *entity.CallbackLog) error {
	if log.ReceivedAt.IsZero() {
		log.ReceivedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// FindByBookingID returns the most recent callbacks recorded for a booking
func (r *MongoCallbackLogRepository) FindByBookingID(ctx context.Context, bookingID string, limit int) ([]*entity.CallbackLog, error) {
	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"bookingId": bookingID}, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "receivedAt", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*entity.CallbackLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}
