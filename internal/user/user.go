package user

import (
	"time"

	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"github.com/frahmantamala/evaluation-platform/internal/rbac"
)

// View is the public shape of an account.
type View struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	StudentCode *string   `json:"student_code,omitempty"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromDataModel builds a View; u must carry Roles.Permissions preloaded.
func FromDataModel(u *identity.User) *View {
	return &View{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		StudentCode: u.StudentCode,
		Roles:       rbac.RoleNames(u),
		Permissions: rbac.EffectivePermissions(u),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

// ListFilter narrows List. Zero values mean "any".
type ListFilter struct {
	Page     int
	Size     int
	Search   string
	Role     string
	IsActive *bool
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	return f
}

type Page struct {
	Items         []*View `json:"items"`
	Page          int     `json:"page"`
	Size          int     `json:"size"`
	TotalElements int64   `json:"total_elements"`
	TotalPages    int     `json:"total_pages"`
}

func NewPage(items []*View, f ListFilter, total int64) *Page {
	pages := 0
	if f.Size > 0 {
		pages = int((total + int64(f.Size) - 1) / int64(f.Size))
	}
	if items == nil {
		items = []*View{}
	}
	return &Page{Items: items, Page: f.Page, Size: f.Size, TotalElements: total, TotalPages: pages}
}
