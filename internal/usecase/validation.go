package usecase

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// naturalIDRegex is printable ASCII without spaces.
var naturalIDRegex = regexp.MustCompile(`^[\x21-\x7E]+$`)

// NewValidator returns a validator with the natural_id rule used by mirrored records.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("natural_id", func(fl validator.FieldLevel) bool {
		return naturalIDRegex.MatchString(fl.Field().String())
	})
	return v
}
