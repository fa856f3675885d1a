package user

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/core/common/validation"
)

type UpdateRolesDTO struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,required,max=50"`
}

func (d *UpdateRolesDTO) Validate() error {
	seen := make(map[string]struct{}, len(d.Roles))
	roles := make([]string, 0, len(d.Roles))
	for _, r := range d.Roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	d.Roles = roles

	if verr := validation.Struct(d); verr != nil {
		return verr
	}
	return nil
}

// ParseListFilter reads page, size, search, role and is_active.
func ParseListFilter(q url.Values) (ListFilter, error) {
	var f ListFilter

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return f, internal.NewValidationFieldError("page", "page must be a non-negative integer", internal.ErrCodeValidationFailed)
		}
		f.Page = page
	}

	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return f, internal.NewValidationFieldError("size", "size must be a positive integer", internal.ErrCodeValidationFailed)
		}
		f.Size = size
	}

	f.Search = strings.TrimSpace(q.Get("search"))
	f.Role = strings.ToUpper(strings.TrimSpace(q.Get("role")))

	if v := q.Get("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return f, internal.NewValidationFieldError("is_active", "is_active must be true or false", internal.ErrCodeValidationFailed)
		}
		f.IsActive = &active
	}

	return f.Normalize(), nil
}
