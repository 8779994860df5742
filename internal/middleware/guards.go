package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staysync/internal/domain"
	"staysync/internal/observability"
	"staysync/internal/session"
)

// Guard flash messages
const (
	MsgLoginRequired   = "You must be logged in to do that!"
	MsgNotOwner        = "You don't have permission to do that!"
	MsgNotReviewAuthor = "You are not the author of this review"
)

// SessionStore is the part of the session manager the guards need.
type SessionStore interface {
	AddFlash(r *http.Request, kind, message string) error
	SetReturnTo(r *http.Request, url string) error
	PopReturnTo(r *http.Request) (string, error)
}

type ListingLoader interface {
	Get(ctx context.Context, id string) (*domain.Listing, error)
}

type ReviewLoader interface {
	Get(ctx context.Context, id string) (*domain.Review, error)
}

// Guards short-circuit requests that are not allowed to reach a controller.
type Guards struct {
	sessions SessionStore
	listings ListingLoader
	reviews  ReviewLoader
	onError  ErrorResponder
}

func NewGuards(sessions SessionStore, listings ListingLoader, reviews ReviewLoader, onError ErrorResponder) *Guards {
	return &Guards{
		sessions: sessions,
		listings: listings,
		reviews:  reviews,
		onError:  onError,
	}
}

// RequireLogin redirects anonymous visitors to /login. GET requests are
// remembered so the visitor lands back on them after logging in.
func (g *Guards) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.IdentityFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodGet {
			if err := g.sessions.SetReturnTo(r, r.URL.RequestURI()); err != nil {
				g.onError(w, r, err)
				return
			}
		}
		g.flashRedirect(w, r, MsgLoginRequired, "/login")
	})
}

// SaveRedirectURL moves the remembered URL from the session into the
// request context for the login handler.
func (g *Guards) SaveRedirectURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		url, err := g.sessions.PopReturnTo(r)
		if err != nil {
			g.onError(w, r, err)
			return
		}
		if url != "" {
			r = r.WithContext(session.WithReturnTo(r.Context(), url))
		}
		next.ServeHTTP(w, r)
	})
}

// ListingOwner loads listing {id} and only lets its owner through.
func (g *Guards) ListingOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		listing, err := g.listings.Get(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			g.flashRedirect(w, r, domain.ErrListingNotFound.Error(), "/listings")
			return
		}
		if err != nil {
			g.onError(w, r, err)
			return
		}

		identity, _ := session.IdentityFromContext(r.Context())
		if !listing.IsOwnedBy(identity.UserID) {
			logDenied(r, identity.UserID, "listing", id)
			g.flashRedirect(w, r, MsgNotOwner, "/listings/"+id)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithListing(r.Context(), listing)))
	})
}

// ReviewAuthor loads review {reviewId} and only lets its author through.
func (g *Guards) ReviewAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		listingID := chi.URLParam(r, "id")
		reviewID := chi.URLParam(r, "reviewId")

		review, err := g.reviews.Get(r.Context(), reviewID)
		if err == nil && review.ListingID != listingID {
			err = domain.ErrReviewNotFound
		}
		if errors.Is(err, domain.ErrNotFound) {
			g.flashRedirect(w, r, domain.ErrReviewNotFound.Error(), "/listings/"+listingID)
			return
		}
		if err != nil {
			g.onError(w, r, err)
			return
		}

		identity, _ := session.IdentityFromContext(r.Context())
		if !review.IsAuthoredBy(identity.UserID) {
			logDenied(r, identity.UserID, "review", reviewID)
			g.flashRedirect(w, r, MsgNotReviewAuthor, "/listings/"+listingID)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithReview(r.Context(), review)))
	})
}

func (g *Guards) flashRedirect(w http.ResponseWriter, r *http.Request, message, to string) {
	if err := g.sessions.AddFlash(r, domain.FlashError, message); err != nil {
		g.onError(w, r, err)
		return
	}
	http.Redirect(w, r, to, http.StatusFound)
}

func logDenied(r *http.Request, userID, resource, id string) {
	observability.FromContext(r.Context()).Info("access denied",
		slog.String("user_id", userID),
		slog.String("resource", resource),
		slog.String("id", id),
		slog.String("method", r.Method),
	)
}
