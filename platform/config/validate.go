package config

import (
	"reflect"
	"slices"
	"strings"

	"kb_backend/platform/apperr"
	"kb_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

const ruleNoWildcard = "nowildcard"

var logLevels = []string{"DEBUG", "INFO", "WARNING", "WARN", "ERROR", "CRITICAL"}

var settings = newSettingsValidator()

func newSettingsValidator() *validator.Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	if err := v.RegisterValidation("loglevel", func(fl playground.FieldLevel) bool {
		return slices.Contains(logLevels, strings.ToUpper(fl.Field().String()))
	}); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(func(sl playground.StructLevel) {
		cfg := sl.Current().Interface().(Config)
		if cfg.CORSAllowCredentials && slices.Contains(cfg.CORSOrigins, "*") {
			sl.ReportError(cfg.CORSOrigins, "CORS_ORIGINS", "CORSOrigins", ruleNoWildcard, "")
		}
	}, Config{})
	return v
}

// validate checks field ranges and the cross-field CORS rule: credentials
// may only be allowed for an explicit origin list.
func validate(cfg *Config) error {
	err := settings.Struct(cfg)
	if err == nil {
		return nil
	}
	fields := validator.Fields(err)
	if fields == nil {
		return apperr.Wrap(apperr.KindValidation, "invalid configuration", err).WithOp(opLoad)
	}

	message := "invalid configuration"
	for _, fe := range fields {
		if fe.Rule == ruleNoWildcard {
			message = "cors_allow_credentials=true requires explicit origins"
			break
		}
	}
	return apperr.Wrap(apperr.KindValidation, message, err).WithOp(opLoad).WithDetails(fields)
}
