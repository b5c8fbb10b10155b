package config

import (
	"fmt"
	"time"
)

// Validator collects configuration errors instead of failing on the
// first one, so a bad config file reports every problem at once.
type Validator struct {
	section string
	errors  []error
}

// NewValidator creates a validator for the named config section.
func NewValidator(section string) *Validator {
	return &Validator{section: section}
}

// Required checks that a string field is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if value == "" {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: required field is empty", v.section, field))
	}
	return v
}

// PositiveFloat checks that a float field is strictly positive.
func (v *Validator) PositiveFloat(field string, value float64) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %g must be positive", v.section, field, value))
	}
	return v
}

// RangeFloat checks that a float field lies within [min, max].
func (v *Validator) RangeFloat(field string, value, min, max float64) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %g is outside range [%g, %g]", v.section, field, value, min, max))
	}
	return v
}

// RangeInt checks that an int field lies within [min, max].
func (v *Validator) RangeInt(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d is outside range [%d, %d]", v.section, field, value, min, max))
	}
	return v
}

// PositiveDuration checks that a duration field is strictly positive.
func (v *Validator) PositiveDuration(field string, value time.Duration) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: duration %v must be positive", v.section, field, value))
	}
	return v
}

// OneOf checks that a string field is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.errors = append(v.errors, fmt.Errorf("%s.%s: value %q must be one of %v", v.section, field, value, allowed))
	return v
}

// When applies the validations only if the condition holds.
func (v *Validator) When(condition bool, validations func(*Validator)) *Validator {
	if condition {
		validations(v)
	}
	return v
}

// Errors returns all collected errors.
func (v *Validator) Errors() []error {
	return v.errors
}

// Validate returns a combined error if any check failed.
func (v *Validator) Validate() error {
	switch len(v.errors) {
	case 0:
		return nil
	case 1:
		return v.errors[0]
	default:
		return fmt.Errorf("%s validation failed with %d errors: %v", v.section, len(v.errors), v.errors[0])
	}
}

// DefaultOr returns value if it is non-zero, otherwise fallback.
func DefaultOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// DefaultOrFloat returns value if positive, otherwise fallback.
func DefaultOrFloat(value, fallback float64) float64 {
	if value <= 0 {
		return fallback
	}
	return value
}
