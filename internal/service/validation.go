package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-editor/internal/models"
)

var courseRules = map[string]validator.Func{
	"hhmm": func(fl validator.FieldLevel) bool {
		return models.ValidClock(fl.Field().String())
	},
	"notblank": func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	},
}

// NewValidator returns a validator with the course form rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	mustRegisterCourseRules(v)
	return v
}

// registerRules adds each tag to v and stops at the first rejected one.
func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation %q: %w", tag, err)
		}
	}
	return nil
}

// mustRegisterCourseRules adds "hhmm" (zero-padded 24h clock) and "notblank".
// A rejected rule is a programming error and panics at construction.
func mustRegisterCourseRules(v *validator.Validate) {
	if err := registerRules(v, courseRules); err != nil {
		panic(err)
	}
}
