package handlers

import (
	"context"
	"net/http"
)

type contextKey string

const contextUserIDKey contextKey = "user_id"

func withUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, contextUserIDKey, userID)
}

// userIDFromContext returns the id RequireSession stored on the request.
func userIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(contextUserIDKey).(int)
	if !ok || id < 1 {
		return 0, false
	}
	return id, true
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
