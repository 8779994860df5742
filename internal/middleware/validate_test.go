package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysync/internal/domain"
	"staysync/internal/testutil"
)

func listingForm() url.Values {
	return url.Values{
		"listing[title]":       {"Cabin"},
		"listing[description]": {"Log cabin"},
		"listing[price]":       {"100"},
		"listing[location]":    {"Lake Tahoe"},
		"listing[country]":     {"United States"},
	}
}

func TestValidateListing_Accepts(t *testing.T) {
	rr := &recordingResponder{}
	var got domain.ListingInput
	handler := ValidateListing(rr.respond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ListingInputFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), testutil.NewFormRequest(t, http.MethodPost, "/listings", listingForm()))

	require.NoError(t, rr.err)
	assert.Equal(t, domain.ListingInput{
		Title:       "Cabin",
		Description: "Log cabin",
		Price:       100,
		Location:    "Lake Tahoe",
		Country:     "United States",
	}, got)
}

func TestValidateListing_AcceptsMultipart(t *testing.T) {
	rr := &recordingResponder{}
	var called bool
	handler := ValidateListing(rr.respond)(okHandler(&called))

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/listings", listingForm(), "", "", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	requireCalled(t, called)
}

func TestValidateListing_Rejects(t *testing.T) {
	form := listingForm()
	form.Del("listing[title]")
	form.Set("listing[price]", "-5")

	rr := &recordingResponder{}
	var called bool
	handler := ValidateListing(rr.respond)(okHandler(&called))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, testutil.NewFormRequest(t, http.MethodPost, "/listings", form))

	assert.False(t, called)
	testutil.AssertStatusCode(t, w, http.StatusBadRequest)
	var httpErr *domain.HTTPError
	require.ErrorAs(t, rr.err, &httpErr)
	assert.Contains(t, httpErr.Message, "title")
	assert.Contains(t, httpErr.Message, "price")
}

func TestValidateReview(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		wantNext bool
	}{
		{"valid", url.Values{"review[rating]": {"5"}, "review[comment]": {"Great"}}, true},
		{"rating out of range", url.Values{"review[rating]": {"6"}, "review[comment]": {"Great"}}, false},
		{"missing comment", url.Values{"review[rating]": {"3"}}, false},
		{"empty form", url.Values{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := &recordingResponder{}
			var got domain.ReviewInput
			var called bool
			handler := ValidateReview(rr.respond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, _ = ReviewInputFromContext(r.Context())
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, testutil.NewFormRequest(t, http.MethodPost, "/listings/1/reviews", tt.form))

			assert.Equal(t, tt.wantNext, called)
			if tt.wantNext {
				assert.Equal(t, domain.ReviewInput{Comment: "Great", Rating: 5}, got)
			} else {
				testutil.AssertStatusCode(t, w, http.StatusBadRequest)
			}
		})
	}
}
