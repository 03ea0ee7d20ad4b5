package response

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func OK() Response {
	return Response{Status: StatusOK}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError surfaces only the first failing rule. Fields are checked
// in declared order and each field's tags left to right, so when several
// fields are invalid at once the caller sees a stable, predictable message.
func ValidationError(errs validator.ValidationErrors) Response {
	if len(errs) == 0 {
		return Error("invalid request")
	}

	return Error(messageFor(errs[0]))
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("field %s is required", err.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email address", err.Field())
	case "min":
		return fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param())
	case "eqfield":
		return "passwords do not match"
	case "personname":
		return fmt.Sprintf("field %s can only contain letters, spaces, hyphens, and apostrophes", err.Field())
	case "userpassword":
		return "password must contain at least one uppercase letter, one lowercase letter, and one number"
	default:
		return fmt.Sprintf("field %s is not valid", err.Field())
	}
}
