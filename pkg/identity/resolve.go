package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/platform/pkg/envelope"
	"github.com/meridianhq/platform/pkg/jwt"
	"github.com/meridianhq/platform/pkg/rbac"
	"github.com/meridianhq/platform/pkg/tenant"
	"github.com/meridianhq/platform/pkg/tenantctx"
)

// ResolverConfig wires a Resolver's collaborators.
type ResolverConfig struct {
	// PlatformSecret signs and verifies lobby credentials.
	PlatformSecret []byte
	// MasterKey unwraps a tenant's envelope-sealed signing secret.
	MasterKey  []byte
	Tenants    TenantLookup
	Directory  Directory
	Classifier Classifier
	// Authorizer checks a resolved role against a route's
	// RequiredPermission. Nil skips permission enforcement entirely,
	// leaving the Classifier's Public/System split as the only gate.
	Authorizer rbac.Authorizer
}

// Resolver implements the identity resolution algorithm: classify the
// route, verify the credential against the correct key, and produce the
// ambient context a handler will run under.
type Resolver struct {
	platformJWT *jwt.Service
	masterKey   []byte
	tenants     TenantLookup
	directory   Directory
	classifier  Classifier
	authorizer  rbac.Authorizer
}

// NewResolver builds a Resolver from cfg.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	platformJWT, err := jwt.New(cfg.PlatformSecret)
	if err != nil {
		return nil, fmt.Errorf("identity: platform signing key: %w", err)
	}
	if cfg.Classifier == nil {
		cfg.Classifier = NewStaticClassifier(DefaultPublicPrefixes, nil)
	}
	return &Resolver{
		platformJWT: platformJWT,
		masterKey:   cfg.MasterKey,
		tenants:     cfg.Tenants,
		directory:   cfg.Directory,
		classifier:  cfg.Classifier,
		authorizer:  cfg.Authorizer,
	}, nil
}

// Input carries the per-request facts Resolve needs: the path for route
// classification, the raw bearer credential (empty if absent), a header
// tenant hint (trusted only on system routes), and a request id to stamp
// onto the resulting context.
type Input struct {
	Path       string
	Credential string
	TenantHint string
	RequestID  string
}

// Resolve runs the full identity resolution algorithm and returns the
// ambient context a handler should run under, or an error classified as
// ErrUnauthorized, ErrForbidden, ErrCredentialExpired, or
// ErrMalformedCredential.
func (r *Resolver) Resolve(ctx context.Context, in Input) (tenantctx.Context, error) {
	route := r.classifier.Classify(in.Path)

	// Step 1: public routes run with a preliminary system context and need
	// no credential at all.
	if route.Public {
		return tenantctx.Context{
			SchemaName: "public",
			Role:       tenantctx.RoleSystemJob,
			RequestID:  in.RequestID,
			IssuedAt:   time.Now(),
		}, nil
	}

	if in.Credential == "" {
		return tenantctx.Context{}, ErrForbidden
	}

	// Step 2: decode unverified, to read claim hints only.
	var hint Claims
	if err := jwt.DecodeUnverified(in.Credential, &hint); err != nil {
		return tenantctx.Context{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	// Step 3: resolve the tenant hint. A header hint is only trusted on
	// system routes; a user-facing route must carry its tenant in the claim.
	tenantIDHint := hint.TenantID
	if tenantIDHint == "" && route.System {
		tenantIDHint = in.TenantHint
	}

	// Step 4: verify the credential against the correct key.
	verified, resolvedTenant, err := r.verify(ctx, in.Credential, tenantIDHint)
	if err != nil {
		return tenantctx.Context{}, err
	}

	// A refresh credential is only ever valid at POST /auth/refresh, which
	// is classified Public and never reaches this far; anywhere else, a
	// refresh token presented as a bearer credential is rejected outright.
	if verified.IsRefresh() {
		return tenantctx.Context{}, ErrUnauthorized
	}

	// Steps 5 & 6: re-resolve tenant and role from the directory, since the
	// claim may be stale (freshly onboarded user, or a role change).
	if r.directory != nil {
		if dirUser, err := r.directory.LookupUser(ctx, verified.Subject); err == nil {
			if verified.TenantID == "" && dirUser.TenantID != "" {
				if adopted, err := r.adoptTenant(ctx, dirUser.TenantID); err == nil {
					resolvedTenant = adopted
					verified.TenantID = adopted.ID.String()
					verified.SchemaName = adopted.SchemaName
				}
			}
			verified.Role = dirUser.Role
		}
	}

	out, err := r.finalize(in.RequestID, verified, resolvedTenant)
	if err != nil {
		return tenantctx.Context{}, err
	}

	// Step 7: enforce the route's permission requirement, if any. A route
	// with no RequiredPermission (the default) or a Resolver built without
	// an Authorizer skips this check entirely.
	if route.RequiredPermission != "" && r.authorizer != nil {
		if err := r.authorizer.Can(string(out.Role), route.RequiredPermission); err != nil {
			return tenantctx.Context{}, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
	}

	return out, nil
}

// verify checks the credential's signature against the correct key: the
// resolved tenant's secret if a tenant was hinted, otherwise the platform
// (lobby) key.
func (r *Resolver) verify(ctx context.Context, credential, tenantIDHint string) (Claims, *tenant.Tenant, error) {
	var claims Claims

	if tenantIDHint == "" {
		if err := r.platformJWT.Parse(credential, &claims); err != nil {
			return Claims{}, nil, classifyJWTError(err)
		}
		return claims, nil, nil
	}

	tenantID, err := uuid.Parse(tenantIDHint)
	if err != nil {
		return Claims{}, nil, fmt.Errorf("%w: invalid tenantId %q", ErrMalformedCredential, tenantIDHint)
	}

	t, err := r.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return Claims{}, nil, ErrForbidden
		}
		return Claims{}, nil, fmt.Errorf("identity: tenant lookup: %w", err)
	}
	if !t.IsActive() {
		return Claims{}, nil, fmt.Errorf("%w: tenant not active", ErrForbidden)
	}

	secret, err := envelope.Unwrap(t.EncryptedSecret, r.masterKey)
	if err != nil {
		return Claims{}, nil, fmt.Errorf("identity: unwrap tenant secret: %w", err)
	}

	tenantJWT, err := jwt.New(secret)
	if err != nil {
		return Claims{}, nil, fmt.Errorf("identity: tenant signing key: %w", err)
	}

	if err := tenantJWT.Parse(credential, &claims); err != nil {
		return Claims{}, nil, classifyJWTError(err)
	}
	return claims, t, nil
}

func (r *Resolver) adoptTenant(ctx context.Context, tenantIDStr string) (*tenant.Tenant, error) {
	id, err := uuid.Parse(tenantIDStr)
	if err != nil {
		return nil, err
	}
	t, err := r.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, tenant.ErrInactiveTenant
	}
	return t, nil
}

// finalize assembles the ambient context from verified claims.
func (r *Resolver) finalize(requestID string, claims Claims, resolvedTenant *tenant.Tenant) (tenantctx.Context, error) {
	out := tenantctx.Context{
		SchemaName: "public",
		UserID:     claims.Subject,
		UserEmail:  claims.Email,
		Role:       claims.Role,
		RequestID:  requestID,
		IssuedAt:   time.Now(),
	}

	if claims.TenantID == "" {
		// A system route's header hint resolved a tenant the claim itself
		// does not name; bind the context to that tenant.
		if resolvedTenant == nil {
			return out, nil
		}
		claims.TenantID = resolvedTenant.ID.String()
	}

	id, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return tenantctx.Context{}, fmt.Errorf("%w: invalid tenantId claim %q", ErrMalformedCredential, claims.TenantID)
	}
	out.TenantID = &id

	schema := claims.SchemaName
	if schema == "" && resolvedTenant != nil {
		schema = resolvedTenant.SchemaName
	}
	out.SchemaName = schema

	return out, nil
}

func classifyJWTError(err error) error {
	if errors.Is(err, jwt.ErrExpiredToken) {
		return fmt.Errorf("%w: %v", ErrCredentialExpired, err)
	}
	return fmt.Errorf("%w: %v", ErrUnauthorized, err)
}
