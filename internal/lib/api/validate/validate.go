package validate

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var personNameRe = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

// New returns a validator with the custom rules used by the handlers:
// "personname" for human names and "userpassword" for password complexity.
func New() *validator.Validate {
	v := validator.New()

	// RegisterValidation only fails on an empty tag name
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("userpassword", func(fl validator.FieldLevel) bool {
		var hasUpper, hasLower, hasDigit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsLower(r):
				hasLower = true
			case unicode.IsDigit(r):
				hasDigit = true
			}
		}
		return hasUpper && hasLower && hasDigit
	})

	return v
}
