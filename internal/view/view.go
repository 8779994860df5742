// Package view renders the server-side pages. Templates and static assets
// are embedded in the binary and parsed once at startup.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"staysync/internal/domain"
	"staysync/internal/media"
	"staysync/internal/observability"
	"staysync/internal/session"
)

//go:embed templates static
var files embed.FS

// Page names
const (
	PageListingsIndex = "listings/index"
	PageListingsShow  = "listings/show"
	PageListingsNew   = "listings/new"
	PageListingsEdit  = "listings/edit"
	PageSignup        = "users/signup"
	PageLogin         = "users/login"
	PageError         = "error"
)

var pages = []string{
	PageListingsIndex,
	PageListingsShow,
	PageListingsNew,
	PageListingsEdit,
	PageSignup,
	PageLogin,
	PageError,
}

// FlashSource hands out the flash messages pending for a request.
type FlashSource interface {
	PopFlash(r *http.Request) (domain.Flash, error)
}

// PageData is what every template receives. Data holds the page's own values.
type PageData struct {
	Flash       domain.Flash
	CurrentUser *domain.Identity
	CSRFToken   string
	Data        any
}

// ErrorPage is the Data of the error template.
type ErrorPage struct {
	Status  int
	Message string
}

type Renderer struct {
	pages   map[string]*template.Template
	flashes FlashSource
}

func New(flashes FlashSource) (*Renderer, error) {
	rd := &Renderer{
		pages:   make(map[string]*template.Template, len(pages)),
		flashes: flashes,
	}
	for _, name := range pages {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		rd.pages[name] = tmpl
	}
	return rd, nil
}

// Render writes page with the given status. The page is rendered into a
// buffer first so a template failure never produces half a page. Pending
// flashes are consumed by the render.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data any) error {
	tmpl, ok := rd.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	pd := PageData{Data: data}
	if s, ok := session.FromContext(r.Context()); ok {
		pd.CSRFToken = s.CSRFToken
		flash, err := rd.flashes.PopFlash(r)
		if err != nil {
			observability.FromContext(r.Context()).Warn("failed to pop flash", slog.String("error", err.Error()))
		}
		pd.Flash = flash
	}
	if id, ok := session.IdentityFromContext(r.Context()); ok {
		pd.CurrentUser = &id
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pd); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded /static assets.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

var funcs = template.FuncMap{
	"price":   FormatPrice,
	"preview": media.PreviewURL,
	"stars":   stars,
}

// FormatPrice renders a nightly price with thousands separators, dropping
// the cents when there are none.
func FormatPrice(p float64) string {
	cents := int64(math.Round(p * 100))
	digits := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if rem := cents % 100; rem > 0 {
		fmt.Fprintf(&b, ".%02d", rem)
	}
	return "$" + b.String()
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// IndexPage lists listings, optionally filtered by a search query.
type IndexPage struct {
	Listings []*domain.Listing
	Query    string
	Mine     bool
}

type ShowPage struct {
	Listing *domain.ListingDetail
	IsOwner bool
}

// EditPage carries the listing and its thumbnail preview URL.
type EditPage struct {
	Listing    *domain.Listing
	PreviewURL string
}

// SignupPage keeps the submitted values when the form is shown again.
type SignupPage struct {
	Username string
	Email    string
}
