// Package validate provides configuration validation utilities for cbws.
//
// This file implements common validation patterns shared by the CLI argument
// checks, the configuration resolver, and the bridge service configuration.
// All functions leverage the go-playground/validator library.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidatePortRange validates that a port number is within the valid range (1-65535).
// Port 0 is rejected because clients need a predictable websocket endpoint.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateOneOf validates that value is one of the allowed options.
func ValidateOneOf(value, fieldName string, allowed []string) error {
	if err := ValidateField(value, "required,oneof="+strings.Join(allowed, " ")); err != nil {
		return fmt.Errorf("invalid %s: %q (must be one of: %s)", fieldName, value, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateStruct validates a struct using its `validate` tags. The first
// failing field is reported by its Go field name.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("field %s failed '%s' validation", fe.Field(), fe.Tag())
	}
	return err
}
