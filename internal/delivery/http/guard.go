package http

import (
	"context"
	"net/http"

	"github.com/tair/pharmadistrib/internal/domain"
)

// UserHeader carries the id of the acting user
const UserHeader = "X-User-ID"

// Access is the gate applied to a route
type Access int

const (
	// Open routes need no acting user
	Open Access = iota
	// Authenticated routes need a known acting user
	Authenticated
	// ClientArea routes belong to the pharmacy ordering module
	ClientArea
	// BackOffice routes are shared by suppliers and administrators
	BackOffice
	// AdminArea routes are restricted to administrators
	AdminArea
)

func (a Access) module() string {
	switch a {
	case ClientArea:
		return domain.ModuleClient
	case BackOffice:
		return domain.ModuleSupplier
	case AdminArea:
		return domain.ModuleAdmin
	default:
		return ""
	}
}

type actingUserKey struct{}

// actingUser returns the user resolved from the request header, if any
func actingUser(r *http.Request) *domain.User {
	u, _ := r.Context().Value(actingUserKey{}).(*domain.User)
	return u
}

func withActingUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, actingUserKey{}, u)
}

// guard resolves the acting user and enforces access. With the guard
// disabled the user is still resolved for scoping but nothing is rejected.
func (h *Handler) guard(access Access, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user *domain.User
		if id := r.Header.Get(UserHeader); id != "" {
			if u, ok := domain.FindUser(h.store.State().Users, id); ok {
				user = &u
			}
		}

		if h.guardEnabled && access != Open {
			if user == nil {
				respondError(w, http.StatusUnauthorized, "Authentification requise")
				return
			}
			if module := access.module(); module != "" && !domain.CanAccessModule(user, module) {
				respondError(w, http.StatusForbidden, "Accès non autorisé")
				return
			}
		}

		if user != nil {
			r = r.WithContext(withActingUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	}
}
