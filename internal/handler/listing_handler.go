package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staysync/internal/domain"
	"staysync/internal/media"
	"staysync/internal/middleware"
	"staysync/internal/session"
	"staysync/internal/view"
)

// Listing flash messages
const (
	MsgListingCreated = "New Listing Created"
	MsgListingUpdated = "Listing Updated"
	MsgListingDeleted = "Listing Deleted"
)

type ListingService interface {
	Index(ctx context.Context, query string) ([]*domain.Listing, error)
	OwnedBy(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	Detail(ctx context.Context, id string) (*domain.ListingDetail, error)
	Create(ctx context.Context, owner domain.Identity, in domain.ListingInput, image *domain.Image) (*domain.Listing, error)
	Update(ctx context.Context, id string, in domain.ListingInput, image *domain.Image) (*domain.Listing, error)
	Delete(ctx context.Context, id string) (*domain.Listing, error)
}

// ListingHandler serves the /listings pages. Guards and validators have
// already run by the time a method is called.
type ListingHandler struct {
	listings ListingService
	flash    Flasher
	render   Renderer
}

func NewListingHandler(listings ListingService, flash Flasher, render Renderer) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		flash:    flash,
		render:   render,
	}
}

func (h *ListingHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/listings", http.StatusFound)
}

// Index lists all listings, the ?q= search results, or with ?mine=true the
// current user's own listings.
func (h *ListingHandler) Index(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query().Get("q")
	page := view.IndexPage{Query: query}

	var err error
	if identity, ok := session.IdentityFromContext(r.Context()); ok && r.URL.Query().Get("mine") == "true" {
		page.Mine = true
		page.Listings, err = h.listings.OwnedBy(r.Context(), identity.UserID)
	} else {
		page.Listings, err = h.listings.Index(r.Context(), query)
	}
	if err != nil {
		return err
	}

	return h.render.Render(w, r, http.StatusOK, view.PageListingsIndex, page)
}

func (h *ListingHandler) Show(w http.ResponseWriter, r *http.Request) error {
	detail, err := h.listings.Detail(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		return failure(w, r, h.flash, domain.ErrListingNotFound.Error(), "/listings")
	}
	if err != nil {
		return err
	}

	identity, _ := session.IdentityFromContext(r.Context())
	return h.render.Render(w, r, http.StatusOK, view.PageListingsShow, view.ShowPage{
		Listing: detail,
		IsOwner: detail.IsOwnedBy(identity.UserID),
	})
}

func (h *ListingHandler) New(w http.ResponseWriter, r *http.Request) error {
	return h.render.Render(w, r, http.StatusOK, view.PageListingsNew, nil)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) error {
	identity, ok := session.IdentityFromContext(r.Context())
	if !ok {
		return domain.ErrUnauthenticated
	}
	in, ok := middleware.ListingInputFromContext(r.Context())
	if !ok {
		return domain.NewHTTPError(http.StatusBadRequest, "listing details are missing")
	}
	image, _ := middleware.ImageFromContext(r.Context())

	if _, err := h.listings.Create(r.Context(), identity, in, image); err != nil {
		return err
	}
	return success(w, r, h.flash, MsgListingCreated, "/listings")
}

// Edit shows the edit form with a thumbnail of the current image.
func (h *ListingHandler) Edit(w http.ResponseWriter, r *http.Request) error {
	listing, err := h.loaded(r)
	if errors.Is(err, domain.ErrNotFound) {
		return failure(w, r, h.flash, domain.ErrListingNotFound.Error(), "/listings")
	}
	if err != nil {
		return err
	}

	page := view.EditPage{Listing: listing}
	if listing.Image != nil {
		page.PreviewURL = media.PreviewURL(listing.Image.URL)
	}
	return h.render.Render(w, r, http.StatusOK, view.PageListingsEdit, page)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	in, ok := middleware.ListingInputFromContext(r.Context())
	if !ok {
		return domain.NewHTTPError(http.StatusBadRequest, "listing details are missing")
	}
	image, _ := middleware.ImageFromContext(r.Context())

	_, err := h.listings.Update(r.Context(), id, in, image)
	if errors.Is(err, domain.ErrNotFound) {
		return failure(w, r, h.flash, domain.ErrListingNotFound.Error(), "/listings")
	}
	if err != nil {
		return err
	}
	return success(w, r, h.flash, MsgListingUpdated, "/listings/"+id)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	_, err := h.listings.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		return failure(w, r, h.flash, domain.ErrListingNotFound.Error(), "/listings")
	}
	if err != nil {
		return err
	}
	return success(w, r, h.flash, MsgListingDeleted, "/listings")
}

// loaded returns the listing the owner guard already fetched, falling back
// to the store.
func (h *ListingHandler) loaded(r *http.Request) (*domain.Listing, error) {
	if listing, ok := middleware.ListingFromContext(r.Context()); ok {
		return listing, nil
	}
	return h.listings.Get(r.Context(), chi.URLParam(r, "id"))
}
