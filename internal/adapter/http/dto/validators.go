package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var cpfRe = regexp.MustCompile(`^[0-9]{11}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RegisterValidators installs the custom tags and types used by the request DTOs.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("cpf", validateCPF)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
}

// validateCPF accepts exactly eleven digits, no punctuation.
func validateCPF(fl validator.FieldLevel) bool {
	return cpfRe.MatchString(fl.Field().String())
}

// decimalValue lets numeric tags (required, gt) compare decimals.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// ValidMoney reports whether d has at most two decimal places.
func ValidMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// SanitizeStruct trims surrounding whitespace from every exported string
// field (including *string) of a struct pointer. Values are stored as sent;
// escaping is the job of whatever renders them.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			if elem := f.Elem(); elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return strings.TrimSpace(s)
}
