package handlers

import (
	"net/http"

	"github.com/staybnb/webserver/internal/auth"
)

// Home renders the landing page.
func Home(views *Renderer, sessions *auth.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, signedIn := sessions.CurrentUserID(r)
		views.render(w, r, http.StatusOK, pageHome, &view{Title: "Home", SignedIn: signedIn})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
