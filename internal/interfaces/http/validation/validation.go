package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"moneta.backend/internal/domain/entities"
	"moneta.backend/internal/interfaces/http/response"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	balancePattern  = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// Register installs the custom wallet validators on gin's binding engine.
// Call once at startup before any request is served.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	// tri-state strings validate their inner value; unset and null skip
	// the rules via omitempty
	v.RegisterCustomTypeFunc(nullableStringValue, entities.NullableString{})

	if err := v.RegisterValidation("wallettype", validWalletType); err != nil {
		return err
	}
	if err := v.RegisterValidation("walletcolor", validWalletColor); err != nil {
		return err
	}
	if err := v.RegisterValidation("walletcurrency", validWalletCurrency); err != nil {
		return err
	}
	return v.RegisterValidation("walletbalance", validWalletBalance)
}

func nullableStringValue(field reflect.Value) interface{} {
	if ns, ok := field.Interface().(entities.NullableString); ok {
		if ns.Set && ns.Value.Valid {
			return ns.Value.String
		}
	}
	return nil
}

func validWalletType(fl validator.FieldLevel) bool {
	value := entities.WalletType(fl.Field().String())
	for _, t := range entities.WalletTypes() {
		if value == t {
			return true
		}
	}
	return false
}

func validWalletColor(fl validator.FieldLevel) bool {
	value := entities.WalletColor(fl.Field().String())
	for _, c := range entities.WalletColors() {
		if value == c {
			return true
		}
	}
	return false
}

func validWalletCurrency(fl validator.FieldLevel) bool {
	return currencyPattern.MatchString(fl.Field().String())
}

// validWalletBalance accepts non-negative decimal strings with at most two
// fractional digits, e.g. "12", "12.3", "12.34" but never "12.345".
func validWalletBalance(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !balancePattern.MatchString(value) {
		return false
	}
	_, err := decimal.NewFromString(value)
	return err == nil
}

// FieldErrors converts a binding error into per-field envelope errors. Any
// non-validator error (malformed JSON, type mismatch) becomes a single
// body-level entry.
func FieldErrors(err error) []response.FieldError {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []response.FieldError{{Path: "body", Message: "Invalid request body"}}
	}

	out := make([]response.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, response.FieldError{
			Path:    fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	// StructNamespace is Type.Field[.Nested]; drop the type prefix and
	// lower-case the first letter to match the JSON shape
	path := fe.StructNamespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return "body"
	}
	return strings.ToLower(path[:1]) + path[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "wallettype":
		return "Must be a valid wallet type"
	case "walletcolor":
		return "Must be a valid wallet color"
	case "walletcurrency":
		return "Must be a 3-letter currency code"
	case "walletbalance":
		return "Must be a decimal with at most 2 places"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
