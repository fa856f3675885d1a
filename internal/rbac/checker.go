package rbac

import "github.com/frahmantamala/evaluation-platform/internal"

// PermissionChecker answers authorization questions about a principal.
type PermissionChecker interface {
	HasPermission(p *internal.Principal, permission string) bool
	HasAnyPermission(p *internal.Principal, permissions []string) bool
	HasAllPermissions(p *internal.Principal, permissions []string) bool
	HasAnyRole(p *internal.Principal, roles []string) bool
	IsAdmin(p *internal.Principal) bool
}

const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"

	PermissionUserManage   = "USER:MANAGE"
	PermissionSystemManage = "SYSTEM:MANAGE"
)

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(p *internal.Principal, permission string) bool {
	return p.HasPermission(permission)
}

func (c *DefaultPermissionChecker) HasAnyPermission(p *internal.Principal, permissions []string) bool {
	for _, perm := range permissions {
		if p.HasPermission(perm) {
			return true
		}
	}
	return false
}

func (c *DefaultPermissionChecker) HasAllPermissions(p *internal.Principal, permissions []string) bool {
	if p == nil {
		return false
	}
	for _, perm := range permissions {
		if !p.HasPermission(perm) {
			return false
		}
	}
	return true
}

func (c *DefaultPermissionChecker) HasAnyRole(p *internal.Principal, roles []string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsAdmin(p *internal.Principal) bool {
	return p.HasRole(RoleAdmin)
}
