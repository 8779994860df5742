package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the secondary indexes used by owner and listing lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(listingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}},
		Options: options.Index().SetName("listings_owner"),
	})
	if err != nil {
		return fmt.Errorf("failed to create listings index: %w", err)
	}

	_, err = db.Collection(reviewsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "listing", Value: 1}},
		Options: options.Index().SetName("reviews_listing"),
	})
	if err != nil {
		return fmt.Errorf("failed to create reviews index: %w", err)
	}
	return nil
}
