package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridianhq/platform/pkg/async"
	"github.com/meridianhq/platform/pkg/audit"
	"github.com/meridianhq/platform/pkg/clientip"
	"github.com/meridianhq/platform/pkg/directory"
	"github.com/meridianhq/platform/pkg/envelope"
	"github.com/meridianhq/platform/pkg/identity"
	"github.com/meridianhq/platform/pkg/jwt"
	"github.com/meridianhq/platform/pkg/requestid"
	"github.com/meridianhq/platform/pkg/slug"
	"github.com/meridianhq/platform/pkg/tenant"
	"github.com/meridianhq/platform/pkg/tenantctx"
	"github.com/meridianhq/platform/pkg/txscope"
	"github.com/meridianhq/platform/pkg/useragent"
)

// credentialTTL is how long the tenant credential minted at the end of
// CreateOrganization is valid for before the owner must sign in again.
const credentialTTL = 24 * time.Hour

// Coordinator implements createOrganization.
type Coordinator struct {
	pool        *pgxpool.Pool
	executor    *txscope.Executor
	tenants     *tenant.Registry
	users       *directory.Store
	masterKey   []byte
	notifier    *Notifier
	auditLogger audit.Logger
}

// CoordinatorOption configures a Coordinator at construction time.
type CoordinatorOption func(*Coordinator)

// WithNotifier attaches the welcome-notification side effect.
func WithNotifier(n *Notifier) CoordinatorOption {
	return func(c *Coordinator) { c.notifier = n }
}

// WithAuditLogger attaches a fire-and-forget audit trail: one event per
// provisioning attempt, enriched with whatever IP/user-agent/request id the
// caller's context already carries. A nil logger (the default) skips audit
// emission entirely rather than erroring, matching pkg/etl's own contract.
func WithAuditLogger(l audit.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.auditLogger = l }
}

// NewCoordinator builds a Coordinator. masterKey unwraps nothing here
// directly; it is used only to wrap the freshly-generated tenant secret
// before it is persisted.
func NewCoordinator(pool *pgxpool.Pool, executor *txscope.Executor, tenants *tenant.Registry, users *directory.Store, masterKey []byte, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		pool:      pool,
		executor:  executor,
		tenants:   tenants,
		users:     users,
		masterKey: masterKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOrganization runs the full provisioning algorithm: load the owner,
// derive names, create the tenant row and schema in one transaction, run
// the business-table template outside it, and mint a tenant credential for
// the owner. On any failure after the schema is created, it compensates
// explicitly so the database ends up indistinguishable from before the call.
func (c *Coordinator) CreateOrganization(ctx context.Context, in CreateOrganizationInput) (*CreateOrganizationResult, error) {
	ownerID, err := uuid.Parse(in.OwnerUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner id %q", ErrOwnerNotFound, in.OwnerUserID)
	}

	registrySlug, schemaName := deriveNames(in.CompanyName)

	tenantSecret, err := envelope.GenerateTenantSecret()
	if err != nil {
		return nil, fmt.Errorf("provisioning: generate tenant secret: %w", err)
	}
	wrappedSecret, err := envelope.Wrap(tenantSecret, c.masterKey)
	if err != nil {
		return nil, fmt.Errorf("provisioning: wrap tenant secret: %w", err)
	}

	var newTenant *tenant.Tenant
	var owner *directory.User

	txErr := c.executor.WithPublicTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Step 1: owner must exist and be unprovisioned. Locked FOR UPDATE so
		// a concurrent provisioning attempt for the same owner serializes
		// behind this transaction rather than racing it.
		u, err := c.users.FindUnprovisionedTx(ctx, tx, ownerID)
		if err != nil {
			if errors.Is(err, directory.ErrUserNotFound) {
				return fmt.Errorf("%w: %s", ErrOwnerNotFound, ownerID)
			}
			if errors.Is(err, directory.ErrAlreadyProvisioned) {
				return ErrOwnerAlreadyProvisioned
			}
			return err
		}
		owner = u

		if !validOnboardingTransition(OnboardingLobby, OnboardingProvisioning) {
			return fmt.Errorf("provisioning: %s -> %s is not a legal onboarding transition", OnboardingLobby, OnboardingProvisioning)
		}

		// Step 4: insert the tenant row.
		t, err := c.tenants.CreateTenantRowTx(ctx, tx, in.CompanyName, registrySlug, schemaName, wrappedSecret)
		if err != nil {
			return err
		}

		// Step 5: create the physical schema.
		if err := createTenantSchemaTx(ctx, tx, schemaName); err != nil {
			return err
		}

		// Step 6: attach the owner.
		if err := c.users.AttachTenant(ctx, tx, ownerID, t.ID, schemaName); err != nil {
			return err
		}

		if !validOnboardingTransition(OnboardingProvisioning, OnboardingTenantUser) {
			return fmt.Errorf("provisioning: %s -> %s is not a legal onboarding transition", OnboardingProvisioning, OnboardingTenantUser)
		}

		newTenant = t
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Step 8: run the tenant's migration template outside the transaction.
	if err := applyTenantTemplate(ctx, c.pool, schemaName); err != nil {
		c.compensate(ctx, ownerID, newTenant.ID, schemaName)
		c.logFailureAsync(ctx, in.OwnerUserID, newTenant.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	// Step 9: issue a freshly-signed tenant credential for the owner.
	credential, err := c.issueCredential(ownerID, owner.Email, newTenant)
	if err != nil {
		c.compensate(ctx, ownerID, newTenant.ID, schemaName)
		c.logFailureAsync(ctx, in.OwnerUserID, newTenant.ID, err)
		return nil, fmt.Errorf("provisioning: issue credential: %w", err)
	}

	if c.notifier != nil {
		c.notifier.NotifyOwner(ctx, in.OwnerUserID, owner.Email, in.CompanyName)
	}

	c.logSuccessAsync(ctx, in.OwnerUserID, newTenant.ID)

	return &CreateOrganizationResult{Tenant: newTenant, Credential: credential}, nil
}

// logSuccessAsync and logFailureAsync fire one audit event per provisioning
// attempt in the background, detached from ctx's cancellation since the
// HTTP response has already been (or is about to be) written. IP, user
// agent, and request id ride in via context: the HTTP edge installs them
// through clientip.Middleware, useragent.Middleware, and
// requestid.Middleware before the request ever reaches this coordinator.
func (c *Coordinator) logSuccessAsync(ctx context.Context, ownerUserID string, tenantID uuid.UUID) {
	if c.auditLogger == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	async.Async(detached, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, c.auditLogger.Log(ctx, "tenant.provisioned",
			audit.WithResource("tenant", tenantID.String()),
			audit.WithMetadata("owner_user_id", ownerUserID),
			audit.WithMetadata("ip", clientip.GetIPFromContext(ctx)),
			audit.WithMetadata("user_agent", useragent.FromContext(ctx).String()),
			audit.WithMetadata("request_id", requestid.FromContext(ctx)),
		)
	})
}

func (c *Coordinator) logFailureAsync(ctx context.Context, ownerUserID string, tenantID uuid.UUID, cause error) {
	if c.auditLogger == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	async.Async(detached, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, c.auditLogger.LogError(ctx, "tenant.provisioning_failed", cause,
			audit.WithResource("tenant", tenantID.String()),
			audit.WithMetadata("owner_user_id", ownerUserID),
			audit.WithMetadata("ip", clientip.GetIPFromContext(ctx)),
			audit.WithMetadata("request_id", requestid.FromContext(ctx)),
		)
	})
}

// deriveNames computes the registry-facing slug and the physical schema
// name for a new tenant from its company name. The schema name carries a
// random suffix so two tenants with the same company name never collide,
// and is underscore-separated since it must be a valid Postgres identifier.
// schemaName always satisfies tenant.ValidSchemaName: a company name that
// slugifies to "" (empty, or made entirely of characters slug.Make strips)
// falls back to "org" rather than leaving the two required groups
// either side of the middle underscore empty.
func deriveNames(companyName string) (registrySlug, schemaName string) {
	registrySlug = slug.Make(companyName)
	schemaSlug := slug.Make(companyName, slug.Separator("_"))
	if schemaSlug == "" {
		schemaSlug = "org"
	}
	schemaSuffix := slug.Make("", slug.WithSuffix(6))
	schemaName = fmt.Sprintf("tenant_%s_%s", schemaSlug, schemaSuffix)
	return registrySlug, schemaName
}

// issueCredential mints a tenant-scoped credential under the tenant's own
// signing secret, matching what pkg/identity verifies on the next request.
func (c *Coordinator) issueCredential(ownerID uuid.UUID, email string, t *tenant.Tenant) (string, error) {
	secret, err := envelope.Unwrap(t.EncryptedSecret, c.masterKey)
	if err != nil {
		return "", fmt.Errorf("unwrap tenant secret: %w", err)
	}
	signer, err := jwt.New(secret)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := identity.Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   ownerID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(credentialTTL).Unix(),
		},
		Email:      email,
		Role:       tenantctx.RoleAdmin,
		TenantID:   t.ID.String(),
		SchemaName: t.SchemaName,
	}
	return signer.Generate(claims)
}

// compensate reverts a tenant that was fully committed to the registry but
// whose post-commit steps failed: drop the schema, unlink the owner,
// delete the tenant row. Every step tolerates "already gone".
func (c *Coordinator) compensate(ctx context.Context, ownerID, tenantID uuid.UUID, schemaName string) {
	compensateCtx := context.WithoutCancel(ctx)

	_ = dropTenantSchema(compensateCtx, c.pool, schemaName)

	_, _ = c.pool.Exec(compensateCtx, `
		UPDATE public.users SET tenant_id = NULL, schema_name = '', role = NULL, updated_at = now()
		WHERE id = $1 AND tenant_id = $2`,
		ownerID, tenantID,
	)

	_, _ = c.pool.Exec(compensateCtx, `DELETE FROM public.tenants WHERE id = $1`, tenantID)
}
