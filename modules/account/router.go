package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mountable is anything that can produce a sub-router mounted under /auth.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which auth services to mount. Password is the
// only one spec.md §6 names; the field stays optional so a deployment that
// has not wired password auth yet (e.g. an early smoke-test binary) still
// builds a valid, empty router.
type RouterOptions struct {
	Password Mountable
}

// Router builds the /auth/* router: register, login, refresh.
//
// Example:
//
//	passwordSvc := account.NewPasswordService(authSvc, directoryStore, tenants,
//		refreshStore, cookies, platformSecret, masterKey, refreshSecret)
//
//	r := chi.NewRouter()
//	r.Mount("/account", account.Router(account.RouterOptions{
//		Password: passwordSvc,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(auth chi.Router) {
		if opts.Password != nil {
			auth.Mount("/", opts.Password.Handle())
		}
	})

	return r
}
