package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/meridianhq/platform/pkg/jwt"
	"github.com/meridianhq/platform/pkg/requestid"
	"github.com/meridianhq/platform/pkg/tenantctx"
)

// TenantHintHeader is the header system routes may use to pass a tenant id
// hint in place of a claim. Ordinary user routes must not rely on it — see
// RouteClass.System.
const TenantHintHeader = "X-Tenant-Id"

// Middleware runs Resolve for every request and installs the resulting
// ambient context around the rest of the handler chain via tenantctx.Run.
// On failure it writes a response classified per the error taxonomy and
// never calls next.
func Middleware(r *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			credential, _ := jwt.BearerTokenExtractor(req)

			in := Input{
				Path:       req.URL.Path,
				Credential: credential,
				TenantHint: req.Header.Get(TenantHintHeader),
				RequestID:  requestid.FromContext(req.Context()),
			}

			resolved, err := r.Resolve(req.Context(), in)
			if err != nil {
				writeError(w, err)
				return
			}

			_ = tenantctx.Run(req.Context(), resolved, func(ctx context.Context) error {
				next.ServeHTTP(w, req.WithContext(ctx))
				return nil
			})
		})
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrCredentialExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrMalformedCredential):
		status = http.StatusUnauthorized
	}
	http.Error(w, http.StatusText(status), status)
}
