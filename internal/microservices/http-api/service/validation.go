package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	githubURLPattern = regexp.MustCompile(`^https?://(www\.)?github\.com/.+`)
	httpURLPattern   = regexp.MustCompile(`^https?://.+`)
)

const (
	MaxTagLength     = 50
	MaxCommentLength = 1000
)

// RegisterValidations adds the custom tags used by request DTOs. It is called
// on gin's validator engine and on the service's own instance.
func RegisterValidations(v *validator.Validate) error {
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("githuburl", func(fl validator.FieldLevel) bool {
		return githubURLPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return httpURLPattern.MatchString(fl.Field().String())
	})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

var validate = newValidator()

// validateStruct runs the binding tags and turns the first failure into a
// ValidationError with a readable message.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return validationError(FieldMessage(verrs[0]))
	}
	return validationError(err.Error())
}

// FieldMessage renders one validator failure for clients
func FieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "githuburl":
		return fmt.Sprintf("%s must be a GitHub repository URL", field)
	case "httpurl", "url":
		return fmt.Sprintf("%s must be an http(s) URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// NormalizeTags trims tags, drops empty ones and duplicates, keeping first-seen order
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if len([]rune(tag)) > MaxTagLength {
			return nil, validationError(fmt.Sprintf("tag %q must be at most %d characters", tag, MaxTagLength))
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}

func runeLen(s string) int {
	return len([]rune(s))
}
