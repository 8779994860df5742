package middleware

import (
	"net/http"

	"staysync/internal/domain"
	"staysync/internal/validation"
)

// ValidateListing rejects malformed listing[...] submissions with a 400
// and hands the accepted input to the controller.
func ValidateListing(onError ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := parseForm(r); err != nil {
				onError(w, r, err)
				return
			}
			res := validation.ValidateListing(validation.DecodeListingForm(r))
			if !res.Valid {
				onError(w, r, domain.NewHTTPError(http.StatusBadRequest, res.Message))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithListingInput(r.Context(), res.Value)))
		})
	}
}

// ValidateReview is ValidateListing for review[...] submissions.
func ValidateReview(onError ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := parseForm(r); err != nil {
				onError(w, r, err)
				return
			}
			res := validation.ValidateReview(validation.DecodeReviewForm(r))
			if !res.Valid {
				onError(w, r, domain.NewHTTPError(http.StatusBadRequest, res.Message))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithReviewInput(r.Context(), res.Value)))
		})
	}
}
