package gateway

import "strings"

// DefaultPublicPrefixes are the gateway paths forwarded without a token.
// Matching is a case-sensitive prefix test.
var DefaultPublicPrefixes = []string{
	"/api/auth/register",
	"/api/auth/login",
	"/api/auth/refresh",
	"/api/auth/logout",
	"/api/auth/request-password",
	"/actuator/",
	"/api/files/evidence/",
	"/api/evaluation-periods/open",
}

// Policy decides which paths skip token inspection.
type Policy struct {
	prefixes []string
}

// NewPolicy returns a policy over prefixes, or over DefaultPublicPrefixes
// when none are given.
func NewPolicy(prefixes ...string) *Policy {
	if len(prefixes) == 0 {
		prefixes = DefaultPublicPrefixes
	}
	return &Policy{prefixes: append([]string(nil), prefixes...)}
}

func (p *Policy) IsPublic(path string) bool {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

var defaultPolicy = NewPolicy()

// IsPublic reports whether path is public under the default policy.
func IsPublic(path string) bool {
	return defaultPolicy.IsPublic(path)
}
