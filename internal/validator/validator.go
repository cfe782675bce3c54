package validator // import "github.com/ihsan-khan/library-management-system/internal/validator"

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ihsan-khan/library-management-system/internal/util"
)

// NonFieldKey holds the errors about a form as a whole.
const NonFieldKey = "__all__"

// FieldErrors maps a form field to what is wrong with it.
type FieldErrors map[string]string

// Add records msg for field, after any message already recorded.
func (e FieldErrors) Add(field, msg string) {
	if prev, ok := e[field]; ok {
		e[field] = prev + " " + msg
		return
	}
	e[field] = msg
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return strings.Join(parts, "; ")
}

// errOrNil keeps an empty FieldErrors from becoming a non-nil error.
func (e FieldErrors) errOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("isbn_shape", func(fl validator.FieldLevel) bool {
		return util.IsISBNShape(util.NormalizeISBN(fl.Field().String()))
	}); err != nil {
		panic(err)
	}
	return v
}

// validateForm checks the struct tags of form and reports one message per field.
func validateForm(form any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add(NonFieldKey, err.Error())
		return errs
	}
	for _, fieldErr := range validationErrors {
		field := fieldName(fieldErr)
		if errs.Has(field) {
			continue
		}
		errs.Add(field, message(fieldErr))
	}
	return errs
}

// fieldName drops the index of slice elements: "category[1]" is "category".
func fieldName(fieldErr validator.FieldError) string {
	name, _, _ := strings.Cut(fieldErr.Field(), "[")
	return name
}

func message(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fieldErr.Param())
	case "number":
		return "Enter a whole number."
	case "email":
		return "Enter a valid email address."
	case "datetime":
		return "Enter a valid date (YYYY-MM-DD)."
	case "isbn_shape":
		return "ISBN must be 10 or 13 digits long."
	default:
		return "Enter a valid value."
	}
}

// trimForm trims the spaces around every string field of form.
func trimForm(form any) {
	v := reflect.ValueOf(form).Elem()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.TrimSpace(field.String()))
		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < field.Len(); j++ {
				field.Index(j).SetString(strings.TrimSpace(field.Index(j).String()))
			}
		}
	}
}
