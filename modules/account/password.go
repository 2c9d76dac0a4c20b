package account

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridianhq/platform/handler"
	"github.com/meridianhq/platform/pkg/async"
	"github.com/meridianhq/platform/pkg/audit"
	"github.com/meridianhq/platform/pkg/auth"
	"github.com/meridianhq/platform/pkg/binder"
	"github.com/meridianhq/platform/pkg/clientip"
	"github.com/meridianhq/platform/pkg/cookie"
	"github.com/meridianhq/platform/pkg/directory"
	"github.com/meridianhq/platform/pkg/envelope"
	"github.com/meridianhq/platform/pkg/identity"
	"github.com/meridianhq/platform/pkg/jwt"
	"github.com/meridianhq/platform/pkg/ratelimiter"
	"github.com/meridianhq/platform/pkg/requestid"
	"github.com/meridianhq/platform/pkg/session"
	"github.com/meridianhq/platform/pkg/tenant"
	"github.com/meridianhq/platform/pkg/useragent"
)

// accessTokenTTL and refreshTokenTTL match spec.md §6's credential format:
// access lifetime 1h, refresh lifetime 7d.
const (
	accessTokenTTL  = 1 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour

	refreshCookieName = "refresh_token"
)

// TenantLookup is the subset of pkg/tenant.Registry PasswordService needs to
// mint a tenant-scoped access token for a user who already has a tenant.
type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
}

// RefreshStore is the subset of pkg/session.Store PasswordService needs.
type RefreshStore interface {
	Create(ctx context.Context, rt *session.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*session.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

// PasswordService implements the three JSON auth endpoints spec.md §6
// names: register, login, refresh. It owns no storage beyond what it is
// handed at construction; every durable fact lives in pkg/directory,
// pkg/tenant, or pkg/session.
type PasswordService struct {
	auth         *auth.PasswordService
	directory    *directory.Store
	tenants      TenantLookup
	refreshStore RefreshStore
	cookies      *cookie.Manager

	platformSecret []byte
	masterKey      []byte
	refreshSecret  string

	loginLimiter *ratelimiter.TokenBucket
	auditLogger  audit.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures a PasswordService at construction time.
type Option func(*PasswordService)

// WithLoginRateLimiter throttles POST /auth/login by client IP + email.
func WithLoginRateLimiter(tb *ratelimiter.TokenBucket) Option {
	return func(s *PasswordService) { s.loginLimiter = tb }
}

// WithAuditLogger attaches a fire-and-forget audit trail for login
// attempts. A nil logger (the default) skips audit emission entirely.
func WithAuditLogger(l audit.Logger) Option {
	return func(s *PasswordService) { s.auditLogger = l }
}

// WithErrorHandler overrides the default error handler.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *PasswordService) { s.errorHandler = h }
}

// NewPasswordService builds a PasswordService. platformSecret signs lobby
// credentials; masterKey unwraps a tenant's envelope-sealed signing
// secret to mint that tenant's access tokens; refreshSecret signs opaque
// refresh tokens and must differ from both.
func NewPasswordService(
	authSvc *auth.PasswordService,
	directoryStore *directory.Store,
	tenants TenantLookup,
	refreshStore RefreshStore,
	cookies *cookie.Manager,
	platformSecret []byte,
	masterKey []byte,
	refreshSecret string,
	opts ...Option,
) *PasswordService {
	s := &PasswordService{
		auth:           authSvc,
		directory:      directoryStore,
		tenants:        tenants,
		refreshStore:   refreshStore,
		cookies:        cookies,
		platformSecret: platformSecret,
		masterKey:      masterKey,
		refreshSecret:  refreshSecret,
		errorHandler:   defaultJSONErrorHandler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultJSONErrorHandler(ctx handler.Context, err error) {
	_ = handler.JSONError(err).Render(ctx.ResponseWriter(), ctx.Request())
}

// Handle mounts the three auth endpoints onto their own router, ready to
// be mounted at /auth by the account module's top-level Router.
func (s *PasswordService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Method(http.MethodPost, "/register", handler.Wrap(s.register,
		handler.WithBinders[handler.Context, RegisterRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, RegisterRequest](s.errorHandler),
	))

	loginHandler := handler.Wrap(s.login,
		handler.WithBinders[handler.Context, LoginRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, LoginRequest](s.errorHandler),
	)
	if s.loginLimiter != nil {
		keyFunc := ratelimiter.Composite(
			func(r *http.Request) string { return clientip.GetIP(r) },
		)
		r.With(ratelimiter.Middleware(s.loginLimiter, keyFunc)).Post("/login", loginHandler)
	} else {
		r.Post("/login", loginHandler)
	}

	r.Method(http.MethodPost, "/refresh", handler.Wrap(s.refresh,
		handler.WithBinders[handler.Context, RefreshRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, RefreshRequest](s.errorHandler),
	))

	return r
}

// RegisterRequest is POST /auth/register's body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// RegisterResponse is POST /auth/register's 201 body: a freshly created
// lobby user, per spec.md §6.
type RegisterResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	TenantID *string   `json:"tenantId"`
}

func (s *PasswordService) register(ctx handler.Context, req RegisterRequest) handler.Response {
	if valErr := validateRegister(req); !valErr.IsEmpty() {
		return handler.JSONError(valErr)
	}

	u, err := s.auth.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			return handler.JSONError(handler.ErrConflict)
		}
		return handler.JSONError(handler.ErrInternalServerError)
	}

	return handler.JSON(RegisterResponse{ID: u.ID, Email: u.Email, TenantID: nil},
		handler.WithJSONStatus(http.StatusCreated))
}

func validateRegister(req RegisterRequest) handler.ValidationError {
	verr := handler.NewValidationError()
	if req.Email == "" {
		verr.Add("email", "is required")
	}
	if len(req.Password) < 8 {
		verr.Add("password", "must be at least 8 characters")
	}
	return verr
}

// LoginRequest is POST /auth/login's body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the user summary embedded in LoginResponse and RefreshResponse.
type LoginUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	TenantID *string   `json:"tenantId"`
	Role     string    `json:"role,omitempty"`
}

// LoginResponse is POST /auth/login's 200 body. RefreshToken is omitted
// (json:",omitempty" plus a nil check) whenever the user has no tenant yet,
// per spec.md §6.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         LoginUser `json:"user"`
}

func (s *PasswordService) login(ctx handler.Context, req LoginRequest) handler.Response {
	u, err := s.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.logLoginAsync(ctx, req.Email, "", audit.ResultFailure)
		return handler.JSONError(handler.ErrUnauthorized)
	}

	if u.TenantID == nil {
		accessToken, err := identity.IssueLobbyToken(s.platformSecret, u.ID.String(), u.Email)
		if err != nil {
			return handler.JSONError(handler.ErrInternalServerError)
		}
		s.logLoginAsync(ctx, req.Email, u.ID.String(), audit.ResultSuccess)
		return handler.JSON(LoginResponse{
			AccessToken: accessToken,
			User:        LoginUser{ID: u.ID, Email: u.Email, TenantID: nil},
		})
	}

	accessToken, refreshToken, err := s.issueTenantCredential(ctx, u)
	if err != nil {
		return handler.JSONError(handler.ErrInternalServerError)
	}

	s.setRefreshCookie(ctx, refreshToken)
	s.logLoginAsync(ctx, req.Email, u.ID.String(), audit.ResultSuccess)

	tenantID := u.TenantID.String()
	return handler.JSON(LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         LoginUser{ID: u.ID, Email: u.Email, TenantID: &tenantID, Role: string(u.Role)},
	})
}

// logLoginAsync fires one audit event per login attempt in the background.
// IP, user agent, and request id ride in via context, installed upstream by
// clientip.Middleware, useragent.Middleware, and requestid.Middleware.
func (s *PasswordService) logLoginAsync(ctx handler.Context, email, userID string, result audit.Result) {
	if s.auditLogger == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	async.Async(detached, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, s.auditLogger.Log(ctx, "auth.login",
			audit.WithResult(result),
			audit.WithMetadata("email", email),
			audit.WithMetadata("user_id", userID),
			audit.WithMetadata("ip", clientip.GetIPFromContext(ctx)),
			audit.WithMetadata("user_agent", useragent.FromContext(ctx).String()),
			audit.WithMetadata("request_id", requestid.FromContext(ctx)),
		)
	})
}

// RefreshRequest is POST /auth/refresh's body. The token may also arrive
// via the refresh_token cookie set at login; the body takes precedence
// when both are present.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is POST /auth/refresh's 200 body.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *PasswordService) refresh(ctx handler.Context, req RefreshRequest) handler.Response {
	raw := req.RefreshToken
	if raw == "" {
		if cookieVal, err := s.cookies.Get(ctx.Request(), refreshCookieName); err == nil {
			raw = cookieVal
		}
	}
	if raw == "" {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	rt, err := s.refreshStore.FindByToken(ctx, raw)
	if err != nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	if !rt.IsValid() {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	u, err := s.directory.FindByID(ctx, rt.UserID)
	if err != nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}
	// Lobby refresh is not supported: a lobby user never has a row in
	// refresh_tokens, but a race (tenant detached after the row was
	// created) is still possible, so this is checked defensively.
	if u.TenantID == nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	// Rotate: revoke the presented token before minting its replacement,
	// so a reused refresh token can never be redeemed twice.
	if err := s.refreshStore.Revoke(ctx, raw); err != nil {
		return handler.JSONError(handler.ErrUnauthorized)
	}

	accessToken, refreshToken, err := s.issueTenantCredential(ctx, u)
	if err != nil {
		return handler.JSONError(handler.ErrInternalServerError)
	}

	s.setRefreshCookie(ctx, refreshToken)

	return handler.JSON(RefreshResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// issueTenantCredential mints an access token signed with the tenant's own
// secret and a fresh opaque, DB-backed refresh token, for a user that
// already has a tenant.
func (s *PasswordService) issueTenantCredential(ctx context.Context, u *directory.User) (accessToken, refreshToken string, err error) {
	t, err := s.tenants.FindByID(ctx, *u.TenantID)
	if err != nil {
		return "", "", err
	}
	if !t.IsActive() {
		return "", "", tenant.ErrInactiveTenant
	}

	secret, err := envelope.Unwrap(t.EncryptedSecret, s.masterKey)
	if err != nil {
		return "", "", err
	}
	signer, err := jwt.New(secret)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	claims := identity.Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(accessTokenTTL).Unix(),
		},
		Email:      u.Email,
		Role:       u.Role,
		TenantID:   t.ID.String(),
		SchemaName: t.SchemaName,
	}
	accessToken, err = signer.Generate(claims)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = session.GenerateOpaqueToken(s.refreshSecret)
	if err != nil {
		return "", "", err
	}
	rt := session.NewRefreshToken(refreshToken, u.ID, t.ID, refreshTokenTTL)
	if err := s.refreshStore.Create(ctx, rt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *PasswordService) setRefreshCookie(ctx handler.Context, refreshToken string) {
	if s.cookies == nil {
		return
	}
	_ = s.cookies.Set(ctx.ResponseWriter(), refreshCookieName, refreshToken,
		cookie.WithMaxAge(int(refreshTokenTTL.Seconds())),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	)
}
