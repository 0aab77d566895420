package handler

import (
	"github.com/therapyai/caseload/internal/pkg/validation"
)

// echoValidator adapts the shared validator so Echo can call c.Validate(req).
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures wrap
// domain.ErrValidation and render as 400.
func (ev *echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
