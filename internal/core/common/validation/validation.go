package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate

	mailboxPattern = regexp.MustCompile(`^[a-z0-9]+@[^@]+$`)
)

// Validator returns the shared validator, reporting fields by their json name.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
			return mailboxPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct validates v and converts failures into a ValidationFailed AppError
// carrying one entry per failing field.
func Struct(v interface{}) *internal.AppError {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	fields := make([]internal.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, internal.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}
	return internal.NewValidationFieldErrors(fields)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	case "mailbox":
		return fmt.Sprintf("%s mailbox name must contain only lowercase letters and digits", field)
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid entry", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
