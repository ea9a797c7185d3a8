package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRF returns middleware that protects form posts with a token. An empty
// key disables protection.
func CSRF(key []byte, secure bool) func(http.Handler) http.Handler {
	if len(key) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token for forms on this request, or empty when protection is off
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	reason := "invalid CSRF token"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	http.Error(w, "Forbidden - "+reason, http.StatusForbidden)
}
