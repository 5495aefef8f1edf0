package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shortify/shortify/gateway/pkg/contracts"
	pkgmw "github.com/shortify/shortify/gateway/pkg/middleware"
)

// GetUserLinks returns one page of the owner's links.
func (h *Handlers) GetUserLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userId")
	if !ok {
		return
	}
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	out, err := h.Links.GetUserLinks(r.Context(), userID, page, limit, contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateLink shortens a URL under the path user's account. Unlike the
// declarative routes, the check here is inline: creating on behalf of
// someone else is allowed only for admins.
func (h *Handlers) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userId")
	if !ok {
		return
	}

	principal := pkgmw.GetPrincipal(r.Context())
	if principal.Subject != userID && !principal.IsAdmin() {
		respondAPIError(w, contracts.Forbidden("You do not have permission to create links on behalf of another user"))
		return
	}

	out, err := h.Links.CreateLink(r.Context(), userID, readBody(r), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

// GetLinkStats returns a link's click statistics after an ownership check
// against the link record itself (the locator here is the short link, so
// the ownership middleware cannot decide this route).
func (h *Handlers) GetLinkStats(w http.ResponseWriter, r *http.Request) {
	identity := contracts.IdentityFromHeader(r.Header)

	link, err := h.Links.GetLinkByShortLink(r.Context(), chi.URLParam(r, "shortLink"), identity)
	if err != nil {
		respondAPIError(w, err)
		return
	}
	if link == nil {
		respondAPIError(w, contracts.Forbidden("Link not found"))
		return
	}

	principal := pkgmw.GetPrincipal(r.Context())
	if !principal.IsAdmin() && principal.Subject != link.UserID {
		respondAPIError(w, contracts.Forbidden("You do not have permission to view this link statistics"))
		return
	}
	if len(link.LinkStats) == 0 {
		respondAPIError(w, contracts.NotFound("Link statistics not found"))
		return
	}

	respondJSON(w, http.StatusOK, link.LinkStats)
}

// GetQRCode streams the link's QR code PNG through unchanged.
func (h *Handlers) GetQRCode(w http.ResponseWriter, r *http.Request) {
	buf, err := h.Links.GetQRCode(r.Context(), chi.URLParam(r, "shortLink"), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf)
}

// DeleteLink removes a short link; the link service enforces whose links
// may be deleted based on the forwarded identity headers.
func (h *Handlers) DeleteLink(w http.ResponseWriter, r *http.Request) {
	out, err := h.Links.DeleteLink(r.Context(), chi.URLParam(r, "shortLink"), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// GetUserLinksStats returns aggregate stats across the owner's links.
func (h *Handlers) GetUserLinksStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userId")
	if !ok {
		return
	}
	out, err := h.Links.GetUserLinksStats(r.Context(), userID, contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
