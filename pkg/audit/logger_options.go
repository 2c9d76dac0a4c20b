package audit

// Option configures logger behavior during initialization.
type Option func(*logger)

// Context extractors enable automatic population of audit events from request context.
// These functions attempt to extract values and return (value, found) to indicate success.
// If extraction fails, the corresponding event field will remain empty.

func WithTenantIDExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.tenantIDExtractor = fn
	}
}

func WithUserIDExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.userIDExtractor = fn
	}
}

func WithSessionIDExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.sessionIDExtractor = fn
	}
}

func WithRequestIDExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.requestIDExtractor = fn
	}
}

func WithIPExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.ipExtractor = fn
	}
}

func WithUserAgentExtractor(fn contextExtractor) Option {
	return func(l *logger) {
		l.userAgentExtractor = fn
	}
}
