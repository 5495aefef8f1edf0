package handlers

import (
	"net/http"
	"time"

	"github.com/shortify/shortify/gateway/pkg/contracts"
	pkgmw "github.com/shortify/shortify/gateway/pkg/middleware"
)

// refreshCookieName holds the session-continuity token. The cookie is
// HTTP-only and strict-same-site so the refresh token never reaches page
// scripts; the access token travels in the response body instead.
const refreshCookieName = "refreshToken"

const refreshCookieMaxAge = 7 * 24 * time.Hour

func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(refreshCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ── Public auth endpoints ───────────────────────────────────

// RegisterGuest creates an anonymous guest account.
func (h *Handlers) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	out, err := h.Auth.RegisterGuest(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

// RegisterUser registers a credentialed account, optionally adopting an
// existing guest's data via the guestUUID query parameter.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.Auth.RegisterUser(r.Context(), readBody(r), r.URL.Query().Get("guestUUID"))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

// Login exchanges credentials for tokens. The refresh token moves into the
// HTTP-only cookie; only the user object and the access token go to the
// response body.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Auth.Login(r.Context(), readBody(r), r.Header.Get(contracts.HeaderGuestUUID))
	if err != nil {
		respondAPIError(w, err)
		return
	}

	h.setRefreshCookie(w, resp.Tokens.RefreshToken)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":        resp.User,
		"accessToken": resp.Tokens.AccessToken,
	})
}

// Refresh rotates the token pair off the cookie.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondAPIError(w, contracts.Unauthenticated("Refresh token not found"))
		return
	}

	tokens, err := h.Auth.RefreshTokens(r.Context(), cookie.Value)
	if err != nil {
		respondAPIError(w, err)
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)
	respondJSON(w, http.StatusOK, map[string]string{
		"accessToken": tokens.AccessToken,
	})
}

// Logout revokes the cookie's session. The cookie is cleared even when the
// request never carried one.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := h.Auth.Logout(r.Context(), cookie.Value); err != nil {
			respondAPIError(w, err)
			return
		}
	}
	h.clearRefreshCookie(w)
	respondJSON(w, http.StatusOK, contracts.Message{Message: "Logged out successfully"})
}

// LogoutAll revokes every session of the cookie's user.
func (h *Handlers) LogoutAll(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := h.Auth.LogoutAll(r.Context(), cookie.Value); err != nil {
			respondAPIError(w, err)
			return
		}
	}
	h.clearRefreshCookie(w)
	respondJSON(w, http.StatusOK, contracts.Message{Message: "Logged out from all devices successfully"})
}

// ── Authenticated auth endpoints ────────────────────────────

// Me returns the resolved Principal payload as-is.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, pkgmw.GetPrincipal(r.Context()))
}

// GetActiveSessions lists the owner's active sessions.
func (h *Handlers) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userId")
	if !ok {
		return
	}
	out, err := h.Auth.GetActiveSessions(r.Context(), userID, contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// RevokeSession revokes one of the owner's sessions by token id.
func (h *Handlers) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userId")
	if !ok {
		return
	}
	jti, ok := pathInt(w, r, "jti")
	if !ok {
		return
	}
	out, err := h.Auth.RevokeSession(r.Context(), userID, jti, contracts.IdentityFromHeader(r.Header))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
