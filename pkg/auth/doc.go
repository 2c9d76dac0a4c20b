// Package auth implements password-based registration and login against
// the shared public.users directory (pkg/directory). It owns no storage of
// its own: every operation reads and writes through the Storage interface,
// which pkg/directory.Store satisfies directly.
//
// Register and Authenticate cover the two public lobby endpoints
// (POST /auth/register, POST /auth/login). ForgotPassword and
// ResetPassword implement the password-recovery flow with a signed,
// short-lived token minted by pkg/token, independent of the platform JWT
// signing key used for session credentials.
//
//	svc := auth.NewPasswordService(directoryStore, resetTokenSecret)
//
//	user, err := svc.Register(ctx, "owner@acme.com", "hunter2example", "Jane Owner")
//	user, err = svc.Authenticate(ctx, "owner@acme.com", "hunter2example")
//
//	req, err := svc.ForgotPassword(ctx, "owner@acme.com")
//	// email req.Token to req.Email; never return it in an HTTP response
//	user, err = svc.ResetPassword(ctx, req.Token, "newpassword123")
package auth
