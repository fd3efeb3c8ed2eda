package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/acidbeast/network-dispatcher/internal/common"
	"github.com/acidbeast/network-dispatcher/pkg/dispatcher"
	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return common.NewValidationError("config", nil, "configuration is nil")
	}

	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return common.WrapError(err, "configuration validation error")
	}

	var collector common.ErrorCollector
	for _, e := range errs {
		msg := "rule '" + e.Tag() + "'"
		if e.Param() != "" {
			msg += " (expected: " + e.Param() + ")"
		}
		collector.Add(common.NewValidationError(fieldPath(e.Namespace()), e.Value(), msg))
	}
	return common.WrapError(collector.Error(), "configuration validation failed")
}

func newValidator() *validator.Validate {
	validate := validator.New()

	// Report fields by their file key rather than the Go name.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("cachepolicy", func(fl validator.FieldLevel) bool {
		_, err := dispatcher.ParseCachePolicy(fl.Field().String())
		return err == nil
	})

	_ = validate.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		_, err := dispatcher.ParseMethod(fl.Field().String())
		return err == nil
	})

	return validate
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
