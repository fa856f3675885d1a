package rbac

import (
	"sort"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
)

// EffectivePermissions is the deduplicated union of the permissions granted by
// every role of u, sorted by name. A user without roles has no permissions.
// u must carry Roles.Permissions preloaded.
func EffectivePermissions(u *identity.User) []string {
	if u == nil {
		return []string{}
	}

	set := make(map[string]struct{})
	for _, role := range u.Roles {
		for _, perm := range role.Permissions {
			set[perm.Name] = struct{}{}
		}
	}

	return sortedKeys(set)
}

// RoleNames returns the names of the roles assigned to u, sorted.
func RoleNames(u *identity.User) []string {
	if u == nil {
		return []string{}
	}

	set := make(map[string]struct{}, len(u.Roles))
	for _, role := range u.Roles {
		set[role.Name] = struct{}{}
	}

	return sortedKeys(set)
}

// Authority maps a role name to its ROLE_ authority.
func Authority(role string) string {
	return internal.AuthorityRolePrefix + role
}

// RoleAuthorities maps each role to its authority.
func RoleAuthorities(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, Authority(r))
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
