// Package validate wraps struct tag validation and maps failures onto the
// record store's validation error.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"dokanpos/backend/internal/recordstore"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the validate tags on data and returns a
// recordstore.ErrValidation-wrapped error listing every failed field.
func Struct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", recordstore.ErrValidation, err)
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		part := fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			part += "=" + fe.Param()
		}
		parts = append(parts, part)
	}
	return fmt.Errorf("%w: %s", recordstore.ErrValidation, strings.Join(parts, "; "))
}
