package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shortify/shortify/gateway/pkg/contracts"
)

// FindAllUsers lists every user. Admin-guarded at the route.
func (h *Handlers) FindAllUsers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Users.FindAll(r.Context(), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// FindUserByID returns a user record, or a JSON null when the backend
// reports no such user — absence is not an error for lookups.
func (h *Handlers) FindUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	out, err := h.Users.FindByID(r.Context(), id, contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// FindUserByUUID is the UUID-keyed twin of FindUserByID.
func (h *Handlers) FindUserByUUID(w http.ResponseWriter, r *http.Request) {
	out, err := h.Users.FindByUUID(r.Context(), chi.URLParam(r, "uuid"), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// UpdateUserByID patches the owner's user record.
func (h *Handlers) UpdateUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	out, err := h.Users.UpdateByID(r.Context(), id, readBody(r), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// UpdateUserByUUID patches the owner's user record by UUID.
func (h *Handlers) UpdateUserByUUID(w http.ResponseWriter, r *http.Request) {
	out, err := h.Users.UpdateByUUID(r.Context(), chi.URLParam(r, "uuid"), readBody(r), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// DeleteUserByID removes the owner's user record.
func (h *Handlers) DeleteUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	out, err := h.Users.DeleteByID(r.Context(), id, contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// DeleteUserByUUID removes the owner's user record by UUID.
func (h *Handlers) DeleteUserByUUID(w http.ResponseWriter, r *http.Request) {
	out, err := h.Users.DeleteByUUID(r.Context(), chi.URLParam(r, "uuid"), contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
