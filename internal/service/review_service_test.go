package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysync/internal/domain"
	"staysync/internal/testutil"
)

func newReviewFixture() (*ReviewService, *testutil.MockListingRepository, *testutil.MockReviewRepository, *testutil.MockEventPublisher) {
	listings := testutil.NewMockListingRepository()
	reviews := testutil.NewMockReviewRepository()
	events := testutil.NewMockEventPublisher()
	return NewReviewService(listings, reviews, events), listings, reviews, events
}

func TestReviewService_Create(t *testing.T) {
	svc, listings, reviews, events := newReviewFixture()
	listing := testutil.NewTestListing()
	require.NoError(t, listings.Create(context.Background(), listing))
	author := domain.Identity{UserID: "user-7", Username: "bob"}

	review, err := svc.Create(context.Background(), listing.ID, author, domain.ReviewInput{Comment: "Great", Rating: 5})

	require.NoError(t, err)
	assert.Equal(t, "user-7", review.AuthorID)
	assert.Equal(t, listing.ID, review.ListingID)
	assert.Contains(t, reviews.Reviews, review.ID)
	assert.Equal(t, []string{review.ID}, listing.ReviewIDs)
	assert.Equal(t, []domain.EventType{domain.EventReviewCreated}, events.Types())
}

func TestReviewService_Create_UnknownListing(t *testing.T) {
	svc, _, reviews, _ := newReviewFixture()

	_, err := svc.Create(context.Background(), "missing", domain.Identity{UserID: "u"}, domain.ReviewInput{Comment: "x", Rating: 3})

	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.Empty(t, reviews.Reviews)
}

func TestReviewService_Create_LinkFailureRemovesReview(t *testing.T) {
	svc, listings, reviews, _ := newReviewFixture()
	listing := testutil.NewTestListing()
	require.NoError(t, listings.Create(context.Background(), listing))
	listings.AddReviewFunc = func(ctx context.Context, listingID, reviewID string) error {
		return testutil.ErrMockStore
	}

	_, err := svc.Create(context.Background(), listing.ID, domain.Identity{UserID: "u"}, domain.ReviewInput{Comment: "x", Rating: 3})

	assert.ErrorIs(t, err, testutil.ErrMockStore)
	assert.Empty(t, reviews.Reviews)
}

func TestReviewService_Delete(t *testing.T) {
	svc, listings, reviews, _ := newReviewFixture()
	listing := testutil.NewTestListing()
	rv := testutil.NewTestReview(testutil.WithReviewListing(listing.ID))
	keep := testutil.NewTestReview(testutil.WithReviewListing(listing.ID))
	listing.ReviewIDs = []string{rv.ID, keep.ID}
	require.NoError(t, listings.Create(context.Background(), listing))
	require.NoError(t, reviews.Create(context.Background(), rv))
	require.NoError(t, reviews.Create(context.Background(), keep))

	require.NoError(t, svc.Delete(context.Background(), listing.ID, rv.ID))

	assert.Equal(t, []string{keep.ID}, listing.ReviewIDs)
	assert.NotContains(t, reviews.Reviews, rv.ID)
	assert.Contains(t, reviews.Reviews, keep.ID)
}

func TestReviewService_Delete_ListingGone(t *testing.T) {
	svc, _, reviews, _ := newReviewFixture()
	rv := testutil.NewTestReview(testutil.WithReviewListing("missing"))
	require.NoError(t, reviews.Create(context.Background(), rv))

	require.NoError(t, svc.Delete(context.Background(), "missing", rv.ID))
	assert.Empty(t, reviews.Reviews)
}

func TestReviewService_Delete_WrongListing(t *testing.T) {
	svc, listings, reviews, _ := newReviewFixture()
	parent := testutil.NewTestListing()
	other := testutil.NewTestListing()
	rv := testutil.NewTestReview(testutil.WithReviewListing(parent.ID))
	parent.ReviewIDs = []string{rv.ID}
	require.NoError(t, listings.Create(context.Background(), parent))
	require.NoError(t, listings.Create(context.Background(), other))
	require.NoError(t, reviews.Create(context.Background(), rv))

	err := svc.Delete(context.Background(), other.ID, rv.ID)

	assert.ErrorIs(t, err, domain.ErrReviewNotFound)
	assert.Contains(t, reviews.Reviews, rv.ID)
	assert.Equal(t, []string{rv.ID}, parent.ReviewIDs)
}

func TestReviewService_Delete_MissingReview(t *testing.T) {
	svc, _, _, _ := newReviewFixture()

	err := svc.Delete(context.Background(), "listing-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewService_Get(t *testing.T) {
	svc, _, reviews, _ := newReviewFixture()
	rv := testutil.NewTestReview()
	require.NoError(t, reviews.Create(context.Background(), rv))

	got, err := svc.Get(context.Background(), rv.ID)
	require.NoError(t, err)
	assert.Equal(t, rv, got)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)
}
