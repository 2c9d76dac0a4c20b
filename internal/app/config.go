// Package app wires every package this module exports into a single running
// server: config, storage, the identity/provisioning core, and the HTTP
// surface. cmd/server is intentionally a thin main.go; everything that can
// be unit-tested without a real listener lives here.
package app

// Config is the process-wide configuration not already owned by one of the
// dependency packages' own Config types (pg.Config, httpserver.Config,
// cookie.Config, email.Config all load independently via pkg/config).
type Config struct {
	Environment string `env:"APP_ENVIRONMENT" envDefault:"development"`

	// PlatformSecret signs and verifies lobby credentials. Must differ from
	// every tenant's own signing secret (pkg/envelope unwraps those
	// per-request) and from RefreshSecret below.
	PlatformSecret string `env:"PLATFORM_JWT_SECRET,required"`

	// MasterKeyBase64 unwraps a tenant's envelope-sealed signing secret.
	// Rotation is out of scope; see DESIGN.md.
	MasterKeyBase64 string `env:"ENVELOPE_MASTER_KEY,required"`

	// RefreshSecret signs opaque refresh tokens (pkg/session). Must differ
	// from PlatformSecret so a leaked refresh token cannot be replayed as a
	// bearer credential.
	RefreshSecret string `env:"REFRESH_TOKEN_SECRET,required"`

	// PasswordResetSecret signs pkg/auth's forgot/reset password tokens.
	PasswordResetSecret string `env:"PASSWORD_RESET_SECRET,required"`

	LoginRateLimitCapacity     int `env:"LOGIN_RATE_LIMIT_CAPACITY" envDefault:"5"`
	LoginRateLimitRefillPerMin int `env:"LOGIN_RATE_LIMIT_REFILL_PER_MIN" envDefault:"5"`

	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/dev-mail"`
}
