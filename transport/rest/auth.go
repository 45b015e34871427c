package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
)

type contextKey string

const userContextKey contextKey = "user"

// Login - POST /api/login. Exchanges user credentials for a bearer token.
func (that *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, apperror.ErrInvalidInput)
		return
	}

	user, err := that.auth.Authenticate(r.Context(), request.Name, request.Password)
	if err != nil {
		that.writeError(w, err)
		return
	}

	token, err := that.auth.GenerateToken(user.Name)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// RequireLogin - accepts either a bearer token or the username/password
// header pair and stores the authenticated user name on the context.
func (that *Handlers) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authorization := r.Header.Get("Authorization"); strings.HasPrefix(authorization, "Bearer ") {
			name, err := that.auth.VerifyToken(strings.TrimPrefix(authorization, "Bearer "))
			if err != nil {
				that.writeError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withLoggedInUser(r.Context(), name)))
			return
		}

		name := strings.TrimSpace(r.Header.Get("username"))
		password := strings.TrimSpace(r.Header.Get("password"))

		user, err := that.auth.Authenticate(r.Context(), name, password)
		if err != nil {
			that.writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withLoggedInUser(r.Context(), user.Name)))
	})
}

// RequireAdmin - checks the Api-Key header against the configured admin key.
func (that *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !that.auth.IsAdmin(strings.TrimSpace(r.Header.Get("Api-Key"))) {
			that.writeError(w, apperror.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func withLoggedInUser(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, userContextKey, name)
}

func loggedInUser(ctx context.Context) string {
	name, _ := ctx.Value(userContextKey).(string)
	return name
}
