package handler

import (
	"net/http"

	"staysync/internal/domain"
)

// Flasher queues flash messages on the visitor's session.
type Flasher interface {
	AddFlash(r *http.Request, kind, message string) error
}

// redirectWith flashes message under kind, then redirects to to.
func redirectWith(w http.ResponseWriter, r *http.Request, f Flasher, kind, message, to string) error {
	if err := f.AddFlash(r, kind, message); err != nil {
		return err
	}
	http.Redirect(w, r, to, http.StatusFound)
	return nil
}

func success(w http.ResponseWriter, r *http.Request, f Flasher, message, to string) error {
	return redirectWith(w, r, f, domain.FlashSuccess, message, to)
}

func failure(w http.ResponseWriter, r *http.Request, f Flasher, message, to string) error {
	return redirectWith(w, r, f, domain.FlashError, message, to)
}
