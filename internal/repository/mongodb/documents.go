package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"staysync/internal/domain"
)

const (
	listingsCollection = "listings"
	reviewsCollection  = "reviews"
)

type imageDocument struct {
	URL      string `bson:"url"`
	Filename string `bson:"filename"`
}

// listingDocument is the stored shape of a listing. Owner holds the account
// ID from the relational store; reviews keep insertion order.
type listingDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Price       float64              `bson:"price"`
	Location    string               `bson:"location"`
	Country     string               `bson:"country"`
	Image       *imageDocument       `bson:"image,omitempty"`
	Owner       string               `bson:"owner"`
	Reviews     []primitive.ObjectID `bson:"reviews"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Listing   primitive.ObjectID `bson:"listing"`
	Comment   string             `bson:"comment"`
	Rating    int                `bson:"rating"`
	Author    string             `bson:"author"`
	CreatedAt time.Time          `bson:"created_at"`
}

func newListingDocument(l *domain.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Owner:       l.OwnerID,
		Reviews:     make([]primitive.ObjectID, 0, len(l.ReviewIDs)),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}

	if l.ID != "" {
		id, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = id
	}

	if l.Image != nil {
		doc.Image = &imageDocument{URL: l.Image.URL, Filename: l.Image.Filename}
	}

	for _, rid := range l.ReviewIDs {
		oid, err := primitive.ObjectIDFromHex(rid)
		if err != nil {
			return nil, err
		}
		doc.Reviews = append(doc.Reviews, oid)
	}

	return doc, nil
}

func (d *listingDocument) toDomain() *domain.Listing {
	l := &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		OwnerID:     d.Owner,
		ReviewIDs:   make([]string, 0, len(d.Reviews)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Image != nil {
		l.Image = &domain.Image{URL: d.Image.URL, Filename: d.Image.Filename}
	}
	for _, rid := range d.Reviews {
		l.ReviewIDs = append(l.ReviewIDs, rid.Hex())
	}
	return l
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:        d.ID.Hex(),
		ListingID: d.Listing.Hex(),
		Comment:   d.Comment,
		Rating:    d.Rating,
		AuthorID:  d.Author,
		CreatedAt: d.CreatedAt,
	}
}

// objectIDs parses hex IDs, skipping any that are malformed.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
