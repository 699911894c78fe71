package handler

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationHelper wraps a shared validator for request structs.
type ValidationHelper struct {
	validate *validator.Validate
}

func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validate: validator.New(),
	}
}

// Check validates req; on failure it returns a summary of the failing
// fields suitable for the error details.
func (v *ValidationHelper) Check(req interface{}) (string, bool) {
	err := v.validate.Struct(req)
	if err == nil {
		return "", true
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error(), false
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; "), false
}
