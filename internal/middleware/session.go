package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/spotlesscleaning/site-server-go/internal/config"
	apperrors "github.com/spotlesscleaning/site-server-go/internal/errors"
	"github.com/spotlesscleaning/site-server-go/internal/model"
	"github.com/spotlesscleaning/site-server-go/internal/service"
)

// AdminSessionCookie matches the cookie name the admin SPA expects.
const AdminSessionCookie = "admin-session"

type contextKey string

const AdminContextKey contextKey = "admin"

func GetAdmin(ctx context.Context) *model.AdminIdentity {
	if admin, ok := ctx.Value(AdminContextKey).(*model.AdminIdentity); ok {
		return admin
	}
	return nil
}

// AdminSessionMiddleware guards content writes and admin-only reads.
// A missing or invalid cookie is a 401; a backend failure while checking
// is a 500, not a silent pass.
type AdminSessionMiddleware struct {
	authService *service.AuthService
}

func NewAdminSessionMiddleware(authService *service.AuthService) *AdminSessionMiddleware {
	return &AdminSessionMiddleware{authService: authService}
}

func (m *AdminSessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AdminSessionCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		admin, err := m.authService.Verify(r.Context(), cookie.Value)
		if err != nil {
			if isStoreError(err) {
				log.Error().Err(err).Msg("admin session middleware: backend error")
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": "Session validation failed",
				})
				return
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		ctx := context.WithValue(r.Context(), AdminContextKey, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isStoreError(err error) bool {
	return apperrors.GetCode(err) == apperrors.ErrCodeStoreUnavailable
}

func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   AdminSessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
