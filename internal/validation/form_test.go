package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestDecodeListingForm(t *testing.T) {
	t.Run("all_fields", func(t *testing.T) {
		r := formRequest(url.Values{
			"listing[title]":       {"Loft"},
			"listing[description]": {"Bright"},
			"listing[price]":       {" 1200 "},
			"listing[location]":    {"New York City"},
			"listing[country]":     {"United States"},
		})

		payload := DecodeListingForm(r)

		assert.Equal(t, map[string]any{"listing": map[string]any{
			"title":       "Loft",
			"description": "Bright",
			"price":       1200.0,
			"location":    "New York City",
			"country":     "United States",
		}}, payload)
		assert.True(t, ValidateListing(payload).Valid)
	})

	t.Run("non_numeric_price_stays_string", func(t *testing.T) {
		payload := DecodeListingForm(formRequest(url.Values{"listing[price]": {"free"}}))

		assert.Equal(t, "free", payload["listing"].(map[string]any)["price"])
	})

	t.Run("absent_fields_are_omitted", func(t *testing.T) {
		payload := DecodeListingForm(formRequest(url.Values{"listing[title]": {"Loft"}}))

		inner := payload["listing"].(map[string]any)
		assert.Len(t, inner, 1)
		assert.NotContains(t, inner, "price")
	})

	t.Run("no_listing_fields", func(t *testing.T) {
		payload := DecodeListingForm(formRequest(url.Values{"other": {"x"}}))

		assert.Empty(t, payload)
		assert.Equal(t, `"listing" is required`, ValidateListing(payload).Message)
	})
}

func TestDecodeReviewForm(t *testing.T) {
	payload := DecodeReviewForm(formRequest(url.Values{
		"review[rating]":  {"5"},
		"review[comment]": {"Perfect"},
	}))

	res := ValidateReview(payload)
	assert.True(t, res.Valid)
	assert.Equal(t, 5, res.Value.Rating)
	assert.Equal(t, "Perfect", res.Value.Comment)
}
