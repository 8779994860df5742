package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysync/internal/domain"
	"staysync/internal/session"
	"staysync/internal/testutil"
)

type fakeFlashes struct {
	flash  domain.Flash
	popped int
}

func (f *fakeFlashes) PopFlash(r *http.Request) (domain.Flash, error) {
	f.popped++
	out := f.flash
	f.flash = domain.Flash{}
	return out, nil
}

func newRequest(s *domain.Session, identity *domain.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/listings", nil)
	ctx := req.Context()
	if s != nil {
		ctx = session.WithSession(ctx, s)
	}
	if identity != nil {
		ctx = session.WithIdentity(ctx, *identity)
	}
	return req.WithContext(ctx)
}

func TestNew_ParsesEveryPage(t *testing.T) {
	rd, err := New(&fakeFlashes{})
	require.NoError(t, err)
	for _, page := range pages {
		assert.Contains(t, rd.pages, page)
	}
}

func TestRender_Index(t *testing.T) {
	flashes := &fakeFlashes{flash: domain.Flash{domain.FlashSuccess: {"New Listing Created"}}}
	rd, err := New(flashes)
	require.NoError(t, err)

	s := testutil.NewTestSession(testutil.WithCSRFToken("csrf-123"))
	listing := testutil.NewTestListing(testutil.WithTitle("Cabin"), testutil.WithPrice(1200))
	w := httptest.NewRecorder()

	err = rd.Render(w, newRequest(s, &domain.Identity{UserID: "u1", Username: "alice"}), http.StatusOK,
		PageListingsIndex, IndexPage{Listings: []*domain.Listing{listing}, Query: "tahoe"})

	require.NoError(t, err)
	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	testutil.AssertBodyContains(t, w, "New Listing Created")
	testutil.AssertBodyContains(t, w, "Cabin")
	testutil.AssertBodyContains(t, w, "$1,200")
	testutil.AssertBodyContains(t, w, `value="tahoe"`)
	testutil.AssertBodyContains(t, w, "alice")
	testutil.AssertBodyContains(t, w, "/listings/"+listing.ID)
	assert.Equal(t, 1, flashes.popped)
}

func TestRender_FlashShownOnce(t *testing.T) {
	flashes := &fakeFlashes{flash: domain.Flash{domain.FlashError: {"Listing you requested for does not exist"}}}
	rd, err := New(flashes)
	require.NoError(t, err)
	req := newRequest(testutil.NewTestSession(), nil)

	first := httptest.NewRecorder()
	require.NoError(t, rd.Render(first, req, http.StatusOK, PageListingsIndex, IndexPage{}))
	second := httptest.NewRecorder()
	require.NoError(t, rd.Render(second, req, http.StatusOK, PageListingsIndex, IndexPage{}))

	testutil.AssertBodyContains(t, first, "does not exist")
	assert.NotContains(t, second.Body.String(), "does not exist")
}

func TestRender_AnonymousNavbar(t *testing.T) {
	rd, err := New(&fakeFlashes{})
	require.NoError(t, err)
	w := httptest.NewRecorder()

	require.NoError(t, rd.Render(w, newRequest(testutil.NewTestSession(), nil), http.StatusOK, PageLogin, nil))

	testutil.AssertBodyContains(t, w, `href="/signup"`)
	assert.NotContains(t, w.Body.String(), "Log out")
}

func TestRender_ShowEscapesContent(t *testing.T) {
	rd, err := New(&fakeFlashes{})
	require.NoError(t, err)
	listing := testutil.NewTestListing(testutil.WithTitle("<script>alert(1)</script>"))
	w := httptest.NewRecorder()

	require.NoError(t, rd.Render(w, newRequest(testutil.NewTestSession(), nil), http.StatusOK,
		PageListingsShow, ShowPage{Listing: &domain.ListingDetail{Listing: listing}}))

	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
	testutil.AssertBodyContains(t, w, "&lt;script&gt;")
}

func TestRender_ShowReviewDeleteOnlyForAuthor(t *testing.T) {
	rd, err := New(&fakeFlashes{})
	require.NoError(t, err)
	listing := testutil.NewTestListing()
	mine := testutil.NewTestReview(testutil.WithAuthor("u1"), testutil.WithReviewListing(listing.ID))
	theirs := testutil.NewTestReview(testutil.WithAuthor("u2"), testutil.WithReviewListing(listing.ID))
	detail := &domain.ListingDetail{
		Listing: listing,
		Reviews: []*domain.ReviewDetail{{Review: mine}, {Review: theirs}},
	}
	w := httptest.NewRecorder()

	require.NoError(t, rd.Render(w, newRequest(testutil.NewTestSession(), &domain.Identity{UserID: "u1"}), http.StatusOK,
		PageListingsShow, ShowPage{Listing: detail}))

	testutil.AssertBodyContains(t, w, "/reviews/"+mine.ID+"?_method=DELETE")
	assert.NotContains(t, w.Body.String(), "/reviews/"+theirs.ID+"?_method=DELETE")
}

func TestRender_ErrorPage(t *testing.T) {
	rd, err := New(&fakeFlashes{})
	require.NoError(t, err)
	w := httptest.NewRecorder()

	require.NoError(t, rd.Render(w, newRequest(nil, nil), http.StatusNotFound, PageError, ErrorPage{Status: 404, Message: "Page not found"}))

	testutil.AssertStatusCode(t, w, http.StatusNotFound)
	testutil.AssertBodyContains(t, w, "Page not found")
}

func TestRender_UnknownPage(t *testing.T) {
	rd, err := New(&fakeFlashes{})
	require.NoError(t, err)
	w := httptest.NewRecorder()

	err = rd.Render(w, newRequest(nil, nil), http.StatusOK, "nope", nil)

	assert.Error(t, err)
	assert.Equal(t, 0, w.Body.Len())
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{100, "$100"},
		{1200, "$1,200"},
		{1234567, "$1,234,567"},
		{99.5, "$99.50"},
		{0.999, "$1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in))
	}
}

func TestStatic(t *testing.T) {
	w := httptest.NewRecorder()
	Static().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/css/style.css", nil))

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, ".navbar")
}
