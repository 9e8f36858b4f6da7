package validation

import (
	"fmt"
	"net/mail"
	"strings"

	errors "github.com/frahmantamala/task-gamification/internal"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
	MaxTaskPoints        = 100000
)

// Rule checks one value. It returns the failure message and code, or "" when
// the value passes.
type Rule func(field string, value interface{}) (string, errors.ErrorCode)

type FieldValidator struct {
	name  string
	value interface{}
	rules []Rule
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{name: name, value: value}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) add(rule Rule) *FieldValidator {
	fv.rules = append(fv.rules, rule)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	return fv.add(func(field string, value interface{}) (string, errors.ErrorCode) {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case int64:
			missing = v == 0
		case nil:
			missing = true
		}
		if missing {
			return field + " is required", errors.ErrCodeValidationFailed
		}
		return "", ""
	})
}

func (fv *FieldValidator) MinInt(min int64, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(field string, value interface{}) (string, errors.ErrorCode) {
		if v, ok := value.(int64); ok && v < min {
			return fmt.Sprintf("%s must be at least %d", field, min), code
		}
		return "", ""
	})
}

func (fv *FieldValidator) MaxInt(max int64, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(field string, value interface{}) (string, errors.ErrorCode) {
		if v, ok := value.(int64); ok && v > max {
			return fmt.Sprintf("%s must not exceed %d", field, max), code
		}
		return "", ""
	})
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	return fv.add(func(field string, value interface{}) (string, errors.ErrorCode) {
		if v, ok := value.(string); ok && len(v) < min {
			return fmt.Sprintf("%s must be at least %d characters", field, min), errors.ErrCodeValidationFailed
		}
		return "", ""
	})
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	return fv.add(func(field string, value interface{}) (string, errors.ErrorCode) {
		if v, ok := value.(string); ok && len(v) > max {
			return fmt.Sprintf("%s must not exceed %d characters", field, max), errors.ErrCodeValidationFailed
		}
		return "", ""
	})
}

// Email accepts a bare address only; "Name <a@b.c>" is rejected.
func (fv *FieldValidator) Email() *FieldValidator {
	return fv.add(func(field string, value interface{}) (string, errors.ErrorCode) {
		v, ok := value.(string)
		if !ok || v == "" {
			return "", ""
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return "Invalid email address", errors.ErrCodeInvalidEmail
		}
		return "", ""
	})
}

// OneOf passes empty strings; pair it with Required when the value is mandatory.
func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	return fv.add(func(field string, value interface{}) (string, errors.ErrorCode) {
		v, ok := value.(string)
		if !ok || v == "" {
			return "", ""
		}
		for _, a := range allowed {
			if v == a {
				return "", ""
			}
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")), errors.ErrCodeValidationFailed
	})
}

// Validate runs every rule of every field and reports all failures at once.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var failures []errors.ValidationError
	for _, f := range v.fields {
		for _, rule := range f.rules {
			if msg, code := rule(f.name, f.value); msg != "" {
				failures = append(failures, errors.ValidationError{Field: f.name, Message: msg, Code: string(code)})
			}
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: failures})
}

func ValidateTaskTitle(title string) *errors.AppError {
	v := NewValidator()
	v.Field("title", title).Required().MaxLength(MaxTitleLength)
	return v.Validate()
}

func ValidateTaskPoints(points int64) *errors.AppError {
	v := NewValidator()
	v.Field("points", points).
		MinInt(1, errors.ErrCodeInvalidPoints).
		MaxInt(MaxTaskPoints, errors.ErrCodeInvalidPoints)
	return v.Validate()
}

// ValidateTaskStatus accepts an empty filter.
func ValidateTaskStatus(status string, allowed []string) *errors.AppError {
	v := NewValidator()
	v.Field("status", status).OneOf(allowed...)
	return v.Validate()
}
