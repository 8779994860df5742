package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysync/internal/domain"
	"staysync/internal/middleware"
	"staysync/internal/service"
	"staysync/internal/testutil"
)

type reviewFixture struct {
	listings *testutil.MockListingRepository
	reviews  *testutil.MockReviewRepository
	sessions *fakeSessions
	handler  *ReviewHandler
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		listings: testutil.NewMockListingRepository(),
		reviews:  testutil.NewMockReviewRepository(),
		sessions: &fakeSessions{},
	}
	svc := service.NewReviewService(f.listings, f.reviews, testutil.NewMockEventPublisher())
	f.handler = NewReviewHandler(svc, f.sessions)
	return f
}

func reviewRequest(method, target, userID string, in *domain.ReviewInput) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if userID != "" {
		req = asUser(req, userID)
	}
	if in != nil {
		req = req.WithContext(middleware.WithReviewInput(req.Context(), *in))
	}
	return req
}

func TestReviewHandler_Create(t *testing.T) {
	f := newReviewFixture()
	listing := testutil.NewTestListing()
	require.NoError(t, f.listings.Create(context.Background(), listing))

	req := reviewRequest(http.MethodPost, "/listings/"+listing.ID+"/reviews", "author-1", &domain.ReviewInput{Comment: "Great view", Rating: 5})
	w := serve(http.MethodPost, "/listings/{id}/reviews", failOnError(t, f.handler.Create), req)

	testutil.AssertRedirect(t, w, "/listings/"+listing.ID)
	assert.Equal(t, flash{domain.FlashSuccess, MsgReviewCreated}, f.sessions.last(t))

	require.Len(t, listing.ReviewIDs, 1)
	review := f.reviews.Reviews[listing.ReviewIDs[0]]
	require.NotNil(t, review)
	assert.Equal(t, "author-1", review.AuthorID)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewHandler_Create_MissingListing(t *testing.T) {
	f := newReviewFixture()

	req := reviewRequest(http.MethodPost, "/listings/gone/reviews", "author-1", &domain.ReviewInput{Comment: "?", Rating: 3})
	w := serve(http.MethodPost, "/listings/{id}/reviews", failOnError(t, f.handler.Create), req)

	testutil.AssertRedirect(t, w, "/listings")
	assert.Equal(t, flash{domain.FlashError, "Listing you requested for does not exist"}, f.sessions.last(t))
	assert.Empty(t, f.reviews.Reviews)
}

func TestReviewHandler_Create_RequiresInput(t *testing.T) {
	f := newReviewFixture()

	var err error
	serve(http.MethodPost, "/listings/{id}/reviews", captureError(&err, f.handler.Create),
		reviewRequest(http.MethodPost, "/listings/l1/reviews", "author-1", nil))

	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestReviewHandler_Delete(t *testing.T) {
	f := newReviewFixture()
	listing := testutil.NewTestListing()
	review := testutil.NewTestReview(testutil.WithReviewListing(listing.ID))
	listing.ReviewIDs = []string{review.ID}
	require.NoError(t, f.reviews.Create(context.Background(), review))
	require.NoError(t, f.listings.Create(context.Background(), listing))

	target := "/listings/" + listing.ID + "/reviews/" + review.ID
	w := serve(http.MethodDelete, "/listings/{id}/reviews/{reviewId}", failOnError(t, f.handler.Delete),
		reviewRequest(http.MethodDelete, target, "author-1", nil))

	testutil.AssertRedirect(t, w, "/listings/"+listing.ID)
	assert.Equal(t, flash{domain.FlashSuccess, MsgReviewDeleted}, f.sessions.last(t))
	assert.Empty(t, listing.ReviewIDs)
	assert.NotContains(t, f.reviews.Reviews, review.ID)
}

func TestReviewHandler_Delete_MissingReview(t *testing.T) {
	f := newReviewFixture()
	listing := testutil.NewTestListing()
	require.NoError(t, f.listings.Create(context.Background(), listing))

	target := "/listings/" + listing.ID + "/reviews/nope"
	w := serve(http.MethodDelete, "/listings/{id}/reviews/{reviewId}", failOnError(t, f.handler.Delete),
		reviewRequest(http.MethodDelete, target, "author-1", nil))

	testutil.AssertRedirect(t, w, "/listings/"+listing.ID)
	assert.Equal(t, domain.FlashError, f.sessions.last(t).kind)
}

func TestReviewHandler_Delete_ThroughOtherListing(t *testing.T) {
	f := newReviewFixture()
	parent := testutil.NewTestListing()
	other := testutil.NewTestListing()
	review := testutil.NewTestReview(testutil.WithReviewListing(parent.ID))
	parent.ReviewIDs = []string{review.ID}
	require.NoError(t, f.reviews.Create(context.Background(), review))
	require.NoError(t, f.listings.Create(context.Background(), parent))
	require.NoError(t, f.listings.Create(context.Background(), other))

	target := "/listings/" + other.ID + "/reviews/" + review.ID
	w := serve(http.MethodDelete, "/listings/{id}/reviews/{reviewId}", failOnError(t, f.handler.Delete),
		reviewRequest(http.MethodDelete, target, "author-1", nil))

	testutil.AssertRedirect(t, w, "/listings/"+other.ID)
	assert.Equal(t, flash{domain.FlashError, domain.ErrReviewNotFound.Error()}, f.sessions.last(t))
	assert.Contains(t, f.reviews.Reviews, review.ID)
	assert.Equal(t, []string{review.ID}, parent.ReviewIDs)
}
