// Package onboarding implements POST /tenants/setup: the single request a
// lobby-scoped user issues to turn into the owner of a brand-new tenant.
// Everything about actually creating the tenant — schema, registry row,
// owner attachment, compensating rollback — lives in pkg/provisioning; this
// package only adapts the ambient lobby identity into a provisioning call
// and mints the session credentials the response needs.
package onboarding

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridianhq/platform/handler"
	"github.com/meridianhq/platform/pkg/binder"
	"github.com/meridianhq/platform/pkg/provisioning"
	"github.com/meridianhq/platform/pkg/session"
	"github.com/meridianhq/platform/pkg/tenantctx"
)

// refreshTokenTTL mirrors modules/account's session lifetime: the owner's
// very first refresh token behaves like any other, not a special grant.
const refreshTokenTTL = 7 * 24 * time.Hour

// Provisioner is the subset of *provisioning.Coordinator this handler needs.
type Provisioner interface {
	CreateOrganization(ctx context.Context, in provisioning.CreateOrganizationInput) (*provisioning.CreateOrganizationResult, error)
}

// RefreshStore is the subset of *session.Store this handler needs.
type RefreshStore interface {
	Create(ctx context.Context, rt *session.RefreshToken) error
}

// Service implements POST /tenants/setup.
type Service struct {
	coordinator  Provisioner
	refreshStore RefreshStore
	refreshSecret string
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithErrorHandler overrides the default JSON error renderer.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *Service) { s.errorHandler = h }
}

// NewService builds the onboarding service. refreshSecret signs the opaque
// refresh token minted alongside the owner's freshly-provisioned tenant
// credential; it must be the same secret modules/account uses, since both
// mint rows in the same public.refresh_tokens table.
func NewService(coordinator Provisioner, refreshStore RefreshStore, refreshSecret string, opts ...Option) *Service {
	s := &Service{
		coordinator:   coordinator,
		refreshStore:  refreshStore,
		refreshSecret: refreshSecret,
		errorHandler:  defaultJSONErrorHandler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultJSONErrorHandler(ctx handler.Context, err error) {
	_ = handler.JSONError(err).Render(ctx.ResponseWriter(), ctx.Request())
}

// Handle mounts POST /setup. It is the caller's responsibility to mount
// this under /tenants and to run pkg/identity.Middleware in front of it:
// the handler trusts the ambient tenantctx.Context entirely and performs no
// credential verification of its own.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Method(http.MethodPost, "/setup", handler.Wrap(s.setup,
		handler.WithBinders[handler.Context, SetupRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, SetupRequest](s.errorHandler),
	))

	return r
}

// SetupRequest is the body spec.md's onboarding scenario documents:
// company name plus the two facts the provisioning flow records but does
// not yet act on beyond persisting them with the owner's intent.
type SetupRequest struct {
	CompanyName      string `json:"companyName"`
	SubscriptionPlan string `json:"subscriptionPlan"`
	DataSourceType   string `json:"dataSourceType"`
}

type organizationView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	SchemaName string `json:"schemaName"`
}

type authView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type setupResponse struct {
	Organization organizationView `json:"organization"`
	Auth         authView         `json:"auth"`
}

func (s *Service) setup(ctx handler.Context, req SetupRequest) handler.Response {
	ambient, err := tenantctx.Current(ctx)
	if err != nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	if ambient.HasTenant() {
		return handler.JSONError(handler.ErrConflict)
	}

	if valErr := validateSetup(req); !valErr.IsEmpty() {
		return handler.JSONError(valErr)
	}

	result, err := s.coordinator.CreateOrganization(ctx, provisioning.CreateOrganizationInput{
		OwnerUserID:      ambient.UserID,
		CompanyName:      req.CompanyName,
		SubscriptionPlan: req.SubscriptionPlan,
		DataSourceType:   req.DataSourceType,
	})
	if err != nil {
		switch {
		case errors.Is(err, provisioning.ErrOwnerNotFound):
			return handler.JSONError(handler.ErrUnauthorized)
		case errors.Is(err, provisioning.ErrOwnerAlreadyProvisioned):
			return handler.JSONError(handler.ErrConflict)
		case errors.Is(err, provisioning.ErrMigrationFailed):
			return handler.JSONError(handler.ErrInternalServerError)
		default:
			return handler.JSONError(handler.ErrInternalServerError)
		}
	}

	refreshToken, err := s.issueRefreshToken(ctx, ambient.UserID, result)
	if err != nil {
		return handler.JSONError(handler.ErrInternalServerError)
	}

	return handler.JSON(setupResponse{
		Organization: organizationView{
			ID:         result.Tenant.ID.String(),
			Name:       result.Tenant.Name,
			Slug:       result.Tenant.Slug,
			SchemaName: result.Tenant.SchemaName,
		},
		Auth: authView{
			AccessToken:  result.Credential,
			RefreshToken: refreshToken,
		},
	}, handler.WithJSONStatus(http.StatusCreated))
}

func validateSetup(req SetupRequest) handler.ValidationError {
	verr := handler.NewValidationError()
	if req.CompanyName == "" {
		verr.Add("companyName", "is required")
	}
	return verr
}

// issueRefreshToken mints and persists the owner's first refresh token.
// CreateOrganization itself only returns an access-token credential, since
// the coordinator predates the opaque-refresh-token session design; this
// closes that gap the same way modules/account's login/refresh flow does.
func (s *Service) issueRefreshToken(ctx context.Context, ownerUserID string, result *provisioning.CreateOrganizationResult) (string, error) {
	userID, err := uuid.Parse(ownerUserID)
	if err != nil {
		return "", err
	}

	refreshToken, err := session.GenerateOpaqueToken(s.refreshSecret)
	if err != nil {
		return "", err
	}

	rt := session.NewRefreshToken(refreshToken, userID, result.Tenant.ID, refreshTokenTTL)
	if err := s.refreshStore.Create(ctx, rt); err != nil {
		return "", err
	}

	return refreshToken, nil
}
