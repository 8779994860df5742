package validation

import (
	"net/http"
	"strconv"
	"strings"
)

var (
	listingFields = []string{"title", "description", "price", "location", "country"}
	reviewFields  = []string{"rating", "comment"}
	numericFields = map[string]bool{"price": true, "rating": true}
)

// DecodeListingForm reads the listing[...] form fields into a payload for ValidateListing.
func DecodeListingForm(r *http.Request) map[string]any {
	return decodeForm(r, "listing", listingFields)
}

// DecodeReviewForm reads the review[...] form fields into a payload for ValidateReview.
func DecodeReviewForm(r *http.Request) map[string]any {
	return decodeForm(r, "review", reviewFields)
}

// decodeForm only includes fields that were submitted so the schema can
// report missing ones. Numeric fields that do not parse stay strings.
func decodeForm(r *http.Request, group string, fields []string) map[string]any {
	payload := map[string]any{}
	if r.PostForm == nil {
		_ = r.ParseForm()
	}

	inner := map[string]any{}
	for _, name := range fields {
		values, ok := r.PostForm[group+"["+name+"]"]
		if !ok || len(values) == 0 {
			continue
		}
		raw := values[0]
		if numericFields[name] {
			if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				inner[name] = n
				continue
			}
		}
		inner[name] = raw
	}

	if len(inner) > 0 {
		payload[group] = inner
	}
	return payload
}
