package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/meridianhq/platform/modules/account"
	"github.com/meridianhq/platform/pkg/audit"
	"github.com/meridianhq/platform/pkg/auth"
	"github.com/meridianhq/platform/pkg/clientip"
	"github.com/meridianhq/platform/pkg/cookie"
	"github.com/meridianhq/platform/pkg/directory"
	"github.com/meridianhq/platform/pkg/email"
	"github.com/meridianhq/platform/pkg/environment"
	"github.com/meridianhq/platform/pkg/envelope"
	"github.com/meridianhq/platform/pkg/etl"
	"github.com/meridianhq/platform/pkg/httpserver"
	"github.com/meridianhq/platform/pkg/identity"
	"github.com/meridianhq/platform/pkg/logger"
	"github.com/meridianhq/platform/pkg/notifications"
	"github.com/meridianhq/platform/pkg/pg"
	"github.com/meridianhq/platform/pkg/provisioning"
	"github.com/meridianhq/platform/pkg/queue"
	"github.com/meridianhq/platform/pkg/ratelimiter"
	"github.com/meridianhq/platform/pkg/rbac"
	"github.com/meridianhq/platform/pkg/redis"
	"github.com/meridianhq/platform/pkg/requestid"
	"github.com/meridianhq/platform/pkg/session"
	"github.com/meridianhq/platform/pkg/tenant"
	"github.com/meridianhq/platform/pkg/tenantctx"
	"github.com/meridianhq/platform/pkg/txscope"
	"github.com/meridianhq/platform/pkg/useragent"
	"github.com/meridianhq/platform/svc/onboarding"
)

// App owns every long-lived collaborator the HTTP surface depends on, and
// the connections they share. Close releases them; nothing else here holds
// a resource that needs an explicit shutdown.
type App struct {
	cfg         Config
	pool        *pgxpool.Pool
	redis       goredis.UniversalClient
	log         *slog.Logger
	etlService  *etl.Service
	enqueuer    *queue.Enqueuer
	queueWorker *queue.Worker
	Router      http.Handler
}

// Enqueuer exposes the background task queue to callers outside this
// package, e.g. a scheduled sweep that calls etl.EnqueueQuarantineRetry.
func (a *App) Enqueuer() *queue.Enqueuer {
	return a.enqueuer
}

// New connects to Postgres and Redis, runs migrations, and wires every
// package this module exports into one chi router plus a background queue
// worker. It does not start listening; call Run to do that.
func New(ctx context.Context, cfg Config, pgCfg pg.Config, cookieCfg cookie.Config, redisCfg redis.Config) (*App, error) {
	log := logger.New(logger.WithEnvironment(cfg.Environment, "meridian-platform"))

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("app: connect to postgres: %w", err)
	}

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: run migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: connect to redis: %w", err)
	}

	masterKey, err := base64.StdEncoding.DecodeString(cfg.MasterKeyBase64)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: decode envelope master key: %w", err)
	}
	if err := envelope.ValidateMasterKey(masterKey); err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: invalid envelope master key: %w", err)
	}

	directoryStore := directory.NewStore(pool)
	tenantRegistry := tenant.NewRegistry(pool)
	refreshStore := session.NewStore(pool)
	executor := txscope.NewExecutor(pool)

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: build cookie manager: %w", err)
	}

	// roleAuthorizer encodes the business-role hierarchy every tenant user
	// directory row is drawn from (tenantctx.RoleAdmin/Manager/Analyst/Staff).
	// No route in this build's minimal HTTP surface currently carries a
	// RequiredPermission — the only tenant-scoped route reachable before a
	// role even exists is POST /tenants/setup, which every lobby user must
	// be able to call — but the resolver enforces one wherever a future
	// route's Classifier entry names it.
	roleAuthorizer, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(map[string]rbac.Role{
		string(tenantctx.RoleAdmin):   {Permissions: []string{"*"}},
		string(tenantctx.RoleManager): {Permissions: []string{"invoices.manage"}, Inherits: []string{string(tenantctx.RoleAnalyst)}},
		string(tenantctx.RoleAnalyst): {Permissions: []string{"invoices.read"}},
		string(tenantctx.RoleStaff):   {Permissions: []string{}},
	}))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: build role authorizer: %w", err)
	}

	resolver, err := identity.NewResolver(identity.ResolverConfig{
		PlatformSecret: []byte(cfg.PlatformSecret),
		MasterKey:      masterKey,
		Tenants:        tenantRegistry,
		Directory:      directoryStore,
		Authorizer:     roleAuthorizer,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: build identity resolver: %w", err)
	}

	auditLogger := audit.NewLogger(audit.NewPgStorage(pool),
		audit.WithTenantIDExtractor(func(ctx context.Context) (string, bool) {
			tctx, err := tenantctx.Current(ctx)
			if err != nil || tctx.TenantID == nil {
				return "", false
			}
			return tctx.TenantID.String(), true
		}),
		audit.WithUserIDExtractor(func(ctx context.Context) (string, bool) {
			tctx, err := tenantctx.Current(ctx)
			if err != nil || tctx.UserID == "" {
				return "", false
			}
			return tctx.UserID, true
		}),
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id := requestid.FromContext(ctx)
			return id, id != ""
		}),
		audit.WithIPExtractor(func(ctx context.Context) (string, bool) {
			ip := clientip.GetIPFromContext(ctx)
			return ip, ip != ""
		}),
		audit.WithUserAgentExtractor(func(ctx context.Context) (string, bool) {
			ua := useragent.FromContext(ctx).String()
			return ua, ua != ""
		}),
	)

	notifier := provisioning.NewNotifier(
		email.NewDevSender(cfg.EmailDevDir),
		notifications.NewManager(notifications.NewMemoryStorage(), &notifications.NoOpDeliverer{}),
	)
	coordinator := provisioning.NewCoordinator(pool, executor, tenantRegistry, directoryStore, masterKey,
		provisioning.WithNotifier(notifier),
		provisioning.WithAuditLogger(auditLogger),
	)

	passwordAuth := auth.NewPasswordService(directoryStore, cfg.PasswordResetSecret)

	loginBucket, err := ratelimiter.NewTokenBucket(ratelimiter.NewRedisStore(redisClient), ratelimiter.Config{
		Capacity:       cfg.LoginRateLimitCapacity,
		RefillRate:     cfg.LoginRateLimitRefillPerMin,
		RefillInterval: time.Minute,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: build login rate limiter: %w", err)
	}

	passwordSvc := account.NewPasswordService(
		passwordAuth, directoryStore, tenantRegistry, refreshStore, cookies,
		[]byte(cfg.PlatformSecret), masterKey, cfg.RefreshSecret,
		account.WithLoginRateLimiter(loginBucket),
		account.WithAuditLogger(auditLogger),
	)

	onboardingSvc := onboarding.NewService(coordinator, refreshStore, cfg.RefreshSecret)

	etlService := etl.NewService(executor, tenantRegistry, masterKey, auditLogger)

	queueStorage := queue.NewMemoryStorage()
	enqueuer, err := queue.NewEnqueuer(queueStorage)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: build queue enqueuer: %w", err)
	}
	queueWorker, err := queue.NewWorker(queueStorage)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: build queue worker: %w", err)
	}
	if err := queueWorker.RegisterHandler(etl.NewRetryQuarantineBatchHandler(etlService)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("app: register quarantine retry handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(useragent.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(environment.WithContext(req.Context(), cfg.Environment)))
		})
	})

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, pg.Healthcheck(pool), redis.Healthcheck(redisClient)))

	r.Group(func(authed chi.Router) {
		authed.Use(identity.Middleware(resolver))

		authed.Mount("/", account.Router(account.RouterOptions{Password: passwordSvc}))
		authed.Mount("/tenants", onboardingSvc.Handle())
	})

	return &App{
		cfg:         cfg,
		pool:        pool,
		redis:       redisClient,
		log:         log,
		etlService:  etlService,
		enqueuer:    enqueuer,
		queueWorker: queueWorker,
		Router:      r,
	}, nil
}

// Close releases the database connection pool and the Redis client.
func (a *App) Close() {
	a.pool.Close()
	_ = a.redis.Close()
}

// Run blocks until ctx is cancelled or the process receives an interrupt,
// serving Router behind an httpserver.Server built from cfg while the
// background queue worker drains quarantine-retry tasks alongside it. Either
// one exiting with an error stops the other.
func (a *App) Run(ctx context.Context, srvCfg httpserver.Config) error {
	srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(a.log))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx, a.Router) })
	g.Go(a.queueWorker.Run(ctx))

	return g.Wait()
}
