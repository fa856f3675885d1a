package auth

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/core/common/validation"
)

// LoginDTO accepts either a username or an email in Username.
type LoginDTO struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterDTO struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	FullName    string `json:"full_name" validate:"required,max=100"`
	StudentCode string `json:"student_code" validate:"omitempty,max=20,alphanum"`
}

// DefaultStudentMailDomain is the school domain allowed to request a password.
const DefaultStudentMailDomain = "student.ptithcm.edu.vn"

type RequestPasswordDTO struct {
	Email string `json:"email" validate:"required,email,max=100,mailbox"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

func (d *LoginDTO) Validate() error {
	d.Username = strings.TrimSpace(d.Username)
	return check(d)
}

func (d *RefreshTokenDTO) Validate() error {
	d.RefreshToken = strings.TrimSpace(d.RefreshToken)
	return check(d)
}

func (d *RegisterDTO) Validate() error {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FullName = strings.TrimSpace(d.FullName)
	d.StudentCode = strings.ToUpper(strings.TrimSpace(d.StudentCode))
	return check(d)
}

// Validate accepts only mailboxes of domain.
func (d *RequestPasswordDTO) Validate(domain string) error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if err := check(d); err != nil {
		return err
	}
	if !strings.HasSuffix(d.Email, "@"+strings.ToLower(domain)) {
		return internal.NewValidationFieldError("email",
			fmt.Sprintf("email must be a @%s address", domain), internal.ErrCodeEmailDomain)
	}
	return nil
}

func (d *ChangePasswordDTO) Validate() error {
	if err := check(d); err != nil {
		return err
	}
	if d.NewPassword != d.ConfirmPassword {
		return internal.NewValidationFieldError("confirm_password", "confirm_password must match new_password", internal.ErrCodePasswordMismatch)
	}
	return nil
}

func check(v interface{}) error {
	if verr := validation.Struct(v); verr != nil {
		return verr
	}
	return nil
}
