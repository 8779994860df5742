package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staysync/internal/domain"
)

// ListingRepository implements domain.ListingRepository on a MongoDB collection
type ListingRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{coll: db.Collection(listingsCollection), now: time.Now}
}

// searchFilter matches query as a literal, case-insensitive substring of the
// title or the location. An empty query matches everything.
func searchFilter(query string) bson.M {
	if query == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"location": pattern},
	}}
}

// List returns listings in natural (insertion) order
func (r *ListingRepository) List(ctx context.Context, query string) ([]*domain.Listing, error) {
	return r.find(ctx, searchFilter(query))
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"owner": ownerID})
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Listing, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	listings := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toDomain())
	}
	return listings, nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts the listing and sets its generated ID and timestamps
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := r.now().UTC()
	listing.CreatedAt, listing.UpdatedAt = now, now

	doc, err := newListingDocument(listing)
	if err != nil {
		return fmt.Errorf("invalid listing: %w", err)
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid.Hex()
	}
	if listing.ReviewIDs == nil {
		listing.ReviewIDs = []string{}
	}
	return nil
}

// Update replaces the editable fields. Owner, image and reviews are untouched.
func (r *ListingRepository) Update(ctx context.Context, id string, input domain.ListingInput) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       input.Title,
		"description": input.Description,
		"price":       input.Price,
		"location":    input.Location,
		"country":     input.Country,
		"updated_at":  r.now().UTC(),
	}}

	var doc listingDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) SetImage(ctx context.Context, id string, image domain.Image) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"image":      imageDocument{URL: image.URL, Filename: image.Filename},
		"updated_at": r.now().UTC(),
	}})
}

// Delete removes the listing and returns what was stored, so callers can
// clean up its reviews and image.
func (r *ListingRepository) Delete(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) InsertMany(ctx context.Context, listings []*domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	now := r.now().UTC()
	docs := make([]any, 0, len(listings))
	for _, l := range listings {
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		l.UpdatedAt = now
		doc, err := newListingDocument(l)
		if err != nil {
			return fmt.Errorf("invalid listing %q: %w", l.Title, err)
		}
		docs = append(docs, doc)
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert listings: %w", err)
	}

	for i, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			listings[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *ListingRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete listings: %w", err)
	}
	return res.DeletedCount, nil
}

// AddReview appends the review reference to the end of the listing's list
func (r *ListingRepository) AddReview(ctx context.Context, listingID, reviewID string) error {
	rid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return domain.ErrReviewNotFound
	}
	return r.updateOne(ctx, listingID, bson.M{"$push": bson.M{"reviews": rid}})
}

// RemoveReview pulls every occurrence of the review reference
func (r *ListingRepository) RemoveReview(ctx context.Context, listingID, reviewID string) error {
	rid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return domain.ErrReviewNotFound
	}
	return r.updateOne(ctx, listingID, bson.M{"$pull": bson.M{"reviews": rid}})
}

func (r *ListingRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
