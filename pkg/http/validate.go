package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// ValidationError describes one failed request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"name"`
	Message string                 `json:"message,omitempty" example:"Name is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ReadAndValidateRequest binds the request, applies struct defaults, and
// validates. A non-nil return value is the error payload to send back.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	if err := c.Bind(req); err != nil {
		return validationPayload(err)
	}
	if err := defaults.Set(req); err != nil {
		return validationPayload(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validationPayload(err)
	}
	return nil
}

func validationPayload(err error) interface{} {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, fieldError(fe))
		}
		return out
	}

	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprintf("%v", he.Message)
	}
	return []ValidationError{{Code: "ERR_UNKNOWN", Message: msg}}
}

func fieldError(fe validator.FieldError) ValidationError {
	ve := ValidationError{
		Code:   "ERR_" + strings.ToUpper(fe.Tag()),
		Field:  fe.Field(),
		Params: map[string]interface{}{},
	}
	switch fe.Tag() {
	case "required":
		ve.Message = fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		ve.Message = fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
		ve.Params["min"] = fe.Param()
	case "lte":
		ve.Message = fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
		ve.Params["max"] = fe.Param()
	default:
		ve.Message = fmt.Sprintf("%s failed validation: %s", fe.Field(), fe.Tag())
	}
	return ve
}
