package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct validation tags and flattens failures into one error.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if e.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s must satisfy %s=%s", strings.ToLower(e.Field()), e.Tag(), e.Param()))
		} else {
			messages = append(messages, fmt.Sprintf("%s must satisfy %s", strings.ToLower(e.Field()), e.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
