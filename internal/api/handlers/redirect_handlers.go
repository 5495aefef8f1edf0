package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// Redirect resolves a short link and 301s the visitor to its destination.
// Public: no resolver runs, and the downstream lookup carries no gateway
// headers — only the visitor's user agent and IP for click accounting.
func (h *Handlers) Redirect(w http.ResponseWriter, r *http.Request) {
	url, err := h.Links.GetRedirectURL(r.Context(), chi.URLParam(r, "shortLink"), r.UserAgent(), r.RemoteAddr)
	if err != nil {
		apiErr := contracts.AsAPIError(err)
		if apiErr.Status == http.StatusNotFound {
			apiErr = contracts.NotFound("Short link not found")
		}
		respondJSON(w, apiErr.Status, apiErr)
		return
	}
	http.Redirect(w, r, url, http.StatusMovedPermanently)
}
