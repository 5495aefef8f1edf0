package middleware

import (
	"net/http"

	"github.com/shortify/shortify/gateway/pkg/contracts"
	pkgmw "github.com/shortify/shortify/gateway/pkg/middleware"
)

// RequireAdmin restricts a route to the Admin principal type. Runs after
// the Authenticator; composable with RequireOwner, though no route in this
// gateway ever needs both.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := pkgmw.GetPrincipal(r.Context())
		if principal == nil {
			RespondError(w, contracts.Forbidden("User not authenticated"))
			return
		}
		if !principal.IsAdmin() {
			RespondError(w, contracts.Forbidden("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
