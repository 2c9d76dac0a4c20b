package tenantctx

import "errors"

// ErrMissingContext is returned by Current when no ambient context has been
// established. This is always a programming error, never a condition to
// paper over with a default identity; callers must surface it as an
// internal error, not coerce it to an authorization failure.
var ErrMissingContext = errors.New("tenantctx: no ambient context established")
