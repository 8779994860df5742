package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staysync/internal/domain"
	"staysync/internal/middleware"
	"staysync/internal/session"
)

const (
	MsgReviewCreated = "New Review Created"
	MsgReviewDeleted = "Review Deleted"
)

type ReviewService interface {
	Create(ctx context.Context, listingID string, author domain.Identity, in domain.ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, listingID, reviewID string) error
}

type ReviewHandler struct {
	reviews ReviewService
	flash   Flasher
}

func NewReviewHandler(reviews ReviewService, flash Flasher) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, flash: flash}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) error {
	listingID := chi.URLParam(r, "id")
	identity, ok := session.IdentityFromContext(r.Context())
	if !ok {
		return domain.ErrUnauthenticated
	}
	in, ok := middleware.ReviewInputFromContext(r.Context())
	if !ok {
		return domain.NewHTTPError(http.StatusBadRequest, "review details are missing")
	}

	_, err := h.reviews.Create(r.Context(), listingID, identity, in)
	if errors.Is(err, domain.ErrNotFound) {
		return failure(w, r, h.flash, domain.ErrListingNotFound.Error(), "/listings")
	}
	if err != nil {
		return err
	}
	return success(w, r, h.flash, MsgReviewCreated, "/listings/"+listingID)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	listingID := chi.URLParam(r, "id")
	reviewID := chi.URLParam(r, "reviewId")

	err := h.reviews.Delete(r.Context(), listingID, reviewID)
	if errors.Is(err, domain.ErrNotFound) {
		return failure(w, r, h.flash, domain.ErrReviewNotFound.Error(), "/listings/"+listingID)
	}
	if err != nil {
		return err
	}
	return success(w, r, h.flash, MsgReviewDeleted, "/listings/"+listingID)
}
