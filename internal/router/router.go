// Package router assembles the HTTP surface from explicitly constructed
// dependencies.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staysync/internal/domain"
	"staysync/internal/handler"
	"staysync/internal/media"
	"staysync/internal/middleware"
	"staysync/internal/service"
	"staysync/internal/session"
	"staysync/internal/view"
)

// Deps is everything the router wires together. MediaFiles, AuthLimiter
// and Checks are optional.
type Deps struct {
	Sessions *session.Manager
	Auth     handler.AuthService
	Listings *service.ListingService
	Reviews  *service.ReviewService
	Media    domain.MediaStore
	Renderer handler.Renderer
	Errors   *handler.ErrorHandler

	// MediaFiles serves images kept in GridFS
	MediaFiles  handler.MediaSource
	AuthLimiter *middleware.RateLimiter
	Checks      map[string]handler.Check
}

func New(d Deps) http.Handler {
	wrap := d.Errors.Wrap
	onError := d.Errors.Handle

	guards := middleware.NewGuards(d.Sessions, d.Listings, d.Reviews, onError)
	upload := middleware.Upload(d.Media, onError)
	validateListing := middleware.ValidateListing(onError)
	validateReview := middleware.ValidateReview(onError)

	listings := handler.NewListingHandler(d.Listings, d.Sessions, d.Renderer)
	reviews := handler.NewReviewHandler(d.Reviews, d.Sessions)
	users := handler.NewUserHandler(d.Auth, d.Sessions, d.Renderer)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics())

	// infrastructure routes never touch the session store
	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(d.Checks))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", view.Static())
	if d.MediaFiles != nil {
		r.Get(media.GridFSPath+"/*", handler.Media(d.MediaFiles, onError))
	}

	app := chi.NewRouter()
	app.Use(middleware.BodyLimit(middleware.MaxBodyBytes))
	app.Use(d.Sessions.Middleware)
	// the form must be parsed while the request is still a POST
	app.Use(middleware.CSRF(onError))
	app.Use(middleware.MethodOverride)

	app.NotFound(d.Errors.NotFound)
	app.MethodNotAllowed(d.Errors.NotFound)

	app.Get("/", listings.Root)

	app.Route("/listings", func(r chi.Router) {
		r.Get("/", wrap(listings.Index))
		r.With(guards.RequireLogin, upload, validateListing).Post("/", wrap(listings.Create))
		r.With(guards.RequireLogin).Get("/new", wrap(listings.New))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", wrap(listings.Show))
			r.With(guards.RequireLogin, guards.ListingOwner, upload, validateListing).Put("/", wrap(listings.Update))
			r.With(guards.RequireLogin, guards.ListingOwner).Delete("/", wrap(listings.Delete))
			r.With(guards.RequireLogin, guards.ListingOwner).Get("/edit", wrap(listings.Edit))

			r.With(guards.RequireLogin, validateReview).Post("/reviews", wrap(reviews.Create))
			r.With(guards.RequireLogin, guards.ReviewAuthor).Delete("/reviews/{reviewId}", wrap(reviews.Delete))
		})
	})

	limited := func(next http.Handler) http.Handler { return next }
	if d.AuthLimiter != nil {
		limited = d.AuthLimiter.Middleware
	}

	app.Get("/signup", wrap(users.RenderSignup))
	app.With(limited).Post("/signup", wrap(users.Signup))
	app.Get("/login", wrap(users.RenderLogin))
	app.With(limited, guards.SaveRedirectURL).Post("/login", wrap(users.Login))
	app.Get("/logout", wrap(users.Logout))

	r.Mount("/", app)
	return r
}
