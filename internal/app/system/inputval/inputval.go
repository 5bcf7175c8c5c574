// Package inputval validates user input: struct-tag validation for request
// payloads plus the field checks the handlers share.
package inputval

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/dalemusser/clubhub/internal/app/system/dates"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule, already rendered for display.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("memberrole", func(fl validator.FieldLevel) bool {
			return IsValidMemberRole(fl.Field().String())
		})
		_ = v.RegisterValidation("langlevel", func(fl validator.FieldLevel) bool {
			return IsValidLanguageLevel(fl.Field().String())
		})
		_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
			return IsValidDate(fl.Field().String())
		})
	})
	return v
}

// Validate checks s against its `validate` tags. Field names in messages
// come from the `label` tag.
func Validate(s any) *Result {
	res := &Result{}
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return label + " must be at most " + fe.Param() + " characters."
	case "email":
		return "A valid email address is required."
	case "ymd":
		return label + " must be a date in YYYY-MM-DD format."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail accepts a bare addr-spec: no display name, no spaces, no
// leading, trailing or doubled dots in either part. Single-label domains
// are allowed.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return false
	}
	if strings.ContainsAny(s, " \t<>()[]\\,;:\"") {
		return false
	}
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// IsValidMemberRole reports whether role is one of models.MemberRoles.
func IsValidMemberRole(role string) bool {
	return slices.Contains(models.MemberRoles, strings.TrimSpace(role))
}

// IsValidLanguageLevel reports whether level is one of models.LanguageLevels.
func IsValidLanguageLevel(level string) bool {
	return slices.Contains(models.LanguageLevels, strings.TrimSpace(level))
}

// IsValidDate reports whether s is a YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := dates.Parse(strings.TrimSpace(s), nil)
	return err == nil
}
