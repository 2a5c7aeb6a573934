package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// TrialSessionCookie identifies an anonymous trial-mode session
const TrialSessionCookie = "trial_session"

// TrialKey returns the trial session key for a request, setting the
// session cookie on first contact.
func TrialKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(TrialSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	key := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     TrialSessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}
