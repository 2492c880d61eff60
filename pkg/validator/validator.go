package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationErrors maps a request field to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// First returns one message for use as a summary. Fields are compared so the
// result is stable.
func (v ValidationErrors) First() string {
	field := ""
	for f := range v {
		if field == "" || f < field {
			field = f
		}
	}
	if field == "" {
		return ""
	}
	return v[field]
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		must(validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}))
		must(validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			return len(s) >= 3 && len(s) <= 50 && usernameRegex.MatchString(s)
		}))
		must(validate.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		}))
		must(validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return passwordProblem(fl.Field().String()) == ""
		}))
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates s against its validate tags.
func Struct(s any) ValidationErrors {
	errs := make(ValidationErrors)

	err := get().Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("_", err.Error())
		return errs
	}

	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

// ObjectID checks a single identifier taken from a path or query parameter.
func ObjectID(field, value string) ValidationErrors {
	errs := make(ValidationErrors)
	if !primitive.IsValidObjectID(value) {
		errs.Add(field, fmt.Sprintf("Invalid %s", field))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_without":
		return fmt.Sprintf("%s or %s is required", fe.Field(), strings.ToLower(fe.Param()))
	case "email":
		return "Invalid email address"
	case "username":
		return "Username must be 3-50 characters of letters, numbers, _, . and -"
	case "objectid":
		return fmt.Sprintf("Invalid %s", fe.Field())
	case "password":
		return passwordProblem(fe.Value().(string))
	case "max":
		return fmt.Sprintf("%s is too long", fe.Field())
	case "min":
		return fmt.Sprintf("%s is too short", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func passwordProblem(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters"
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		return fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", "))
	}
	return ""
}
