package identity

import "strings"

// RouteClass describes how Resolve should treat the current route.
type RouteClass struct {
	// Public routes need no credential at all: registration, login, token
	// refresh, health, plan catalog, OAuth callbacks.
	Public bool
	// System routes may trust a header tenant hint in place of a claim;
	// ordinary user-facing routes must not.
	System bool
	// RequiredPermission is the rbac permission the resolved role must hold
	// for this route, or "" if the route carries no additional permission
	// requirement beyond having a valid credential.
	RequiredPermission string
}

// Classifier decides how a route should be treated by Resolve.
type Classifier interface {
	Classify(path string) RouteClass
}

// StaticClassifier matches routes against fixed path prefixes, configured
// once at startup.
type StaticClassifier struct {
	publicPrefixes []string
	systemPrefixes []string
	permissions    map[string]string
}

// NewStaticClassifier builds a Classifier from fixed path prefix lists.
func NewStaticClassifier(publicPrefixes, systemPrefixes []string) *StaticClassifier {
	return &StaticClassifier{publicPrefixes: publicPrefixes, systemPrefixes: systemPrefixes}
}

// WithPermissions attaches a path-prefix -> rbac permission map. The longest
// matching prefix wins; routes with no match carry no permission
// requirement. Returns c so it can chain off NewStaticClassifier.
func (c *StaticClassifier) WithPermissions(permissions map[string]string) *StaticClassifier {
	c.permissions = permissions
	return c
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Classify implements Classifier.
func (c *StaticClassifier) Classify(path string) RouteClass {
	rc := RouteClass{
		Public: hasAnyPrefix(path, c.publicPrefixes),
		System: hasAnyPrefix(path, c.systemPrefixes),
	}
	longest := -1
	for prefix, permission := range c.permissions {
		if strings.HasPrefix(path, prefix) && len(prefix) > longest {
			rc.RequiredPermission = permission
			longest = len(prefix)
		}
	}
	return rc
}

// DefaultPublicPrefixes are the routes the spec names as requiring no
// tenant context: registration, login, token refresh, health, the plan
// catalog, and OAuth callbacks.
var DefaultPublicPrefixes = []string{
	"/auth/register",
	"/auth/login",
	"/auth/refresh",
	"/auth/google",
	"/auth/github",
	"/health",
	"/plans",
}
