package middleware

import (
	"net/http"

	"github.com/buildform/siteops-backend-go/internal/domain/auth"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/buildform/siteops-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly restricts a route to head office administrators.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || user.Role(role) != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ApproverOnly restricts a route to roles that can review attendance and
// leave, project managers and admins.
func ApproverOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrApproverAccessRequired)
			return
		}
		u := user.User{Role: user.Role(role)}
		if !u.CanApprove() {
			response.HandleError(w, user.ErrApproverAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
