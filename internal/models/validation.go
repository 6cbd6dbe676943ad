package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their form names so errors line up with inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct runs the struct's validate tags and converts failures into ValidationErrors
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "この項目は必須です。"
	case "email":
		return "有効なメールアドレスを入力してください。"
	case "max":
		return fmt.Sprintf("%s 文字以下で入力してください。", fe.Param())
	case "oneof":
		return "正しく選択してください。"
	case "gt":
		return "正しく選択してください。"
	default:
		return fmt.Sprintf("入力値が正しくありません (%s)。", fe.Tag())
	}
}

// SanitizeString trims surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}

// IsValidationError reports whether err carries field errors
func IsValidationError(err error) bool {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// FieldErrors extracts per-field messages from err, or nil
func FieldErrors(err error) map[string]string {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve.ByField()
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return map[string]string{single.Field: single.Message}
	}
	return nil
}
