package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	PasswordMinLen = 6
	PasswordMaxLen = 20
	FullNameMinLen = 3
)

// emailPattern accepts local@domain.tld with 2-3 letter final labels.
var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// ValidPassword reports whether s is 6-20 characters with at least one digit,
// one lowercase and one uppercase letter.
func ValidPassword(s string) bool {
	n := len([]rune(s))
	if n < PasswordMinLen || n > PasswordMaxLen {
		return false
	}
	var digit, lower, upper bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		}
	}
	return digit && lower && upper
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidFullName reports whether the trimmed name has at least 3 characters.
func ValidFullName(s string) bool {
	return len([]rune(strings.TrimSpace(s))) >= FullNameMinLen
}

func pwdRule(fl validator.FieldLevel) bool      { return ValidPassword(fl.Field().String()) }
func emailRule(fl validator.FieldLevel) bool    { return ValidEmail(fl.Field().String()) }
func fullNameRule(fl validator.FieldLevel) bool { return ValidFullName(fl.Field().String()) }

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("pwd", pwdRule)
	_ = v.RegisterValidation("signupemail", emailRule)
	_ = v.RegisterValidation("fullname", fullNameRule)
}

var (
	std     *validator.Validate
	stdOnce sync.Once
)

// Validator returns a standalone validator with the custom rules registered.
func Validator() *validator.Validate {
	stdOnce.Do(func() {
		std = validator.New()
		register(std)
	})
	return std
}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the pwd, signupemail and fullname rules.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email", "signupemail":
		return "must be a valid email"
	case "pwd":
		return fmt.Sprintf("must be %d - %d characters long with a numeric, 1 lowercase and 1 uppercase letter", PasswordMinLen, PasswordMaxLen)
	case "fullname":
		return fmt.Sprintf("must be at least %d letters long", FullNameMinLen)
	case "len":
		return "must be exactly " + param + " characters long"
	case "min":
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	case "numeric":
		return "must be numeric"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}
