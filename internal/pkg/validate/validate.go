package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/school-api/internal/domain"
)

// v is the package-level singleton validator. Custom tags are registered in init
// before the first call to Struct.
var v = validator.New(validator.WithRequiredStructEnabled())

func init() {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategory(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("alert_kind", func(fl validator.FieldLevel) bool {
		return domain.AlertKind(strings.ToUpper(fl.Field().String())).Valid()
	})
}

// Struct validates s using its validate tags. Failures come back as a
// *domain.ValidationError keyed by JSON field name.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate: %w", domain.ErrBadRequest)
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		out.Fields[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "category":
		return "is not a known category"
	case "alert_kind":
		return "is not a known alert kind"
	case "e164":
		return "must be an E.164 phone number"
	default:
		return fmt.Sprintf("failed '%s'", fe.Tag())
	}
}
