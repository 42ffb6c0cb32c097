package api

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// fieldMessages holds the client-facing message per "field.rule"
var fieldMessages = map[string]string{
	"title.notblank":           "Title is mandatory and cannot be blank.",
	"title.max":                "Title cannot be longer than 255 characters.",
	"releaseYear.min":          "Release year must be 1888 or later.",
	"languageId.required":      "Language ID is mandatory.",
	"rentalDuration.required":  "Rental duration is mandatory.",
	"rentalDuration.min":       "Rental duration must be at least 1 day.",
	"rentalRate.required":      "Rental rate is mandatory.",
	"rentalRate.min":           "Rental rate must be a non-negative value.",
	"rentalRate.digits":        "Rental rate format must be up to 2 digits before and 2 after the decimal point.",
	"length.min":               "Length must be at least 1 minute.",
	"replacementCost.required": "Replacement cost is mandatory.",
	"replacementCost.min":      "Replacement cost must be non-negative.",
	"replacementCost.digits":   "Replacement cost format must be up to 3 digits before and 2 after the decimal point.",
	"firstName.notblank":       "First name is mandatory.",
	"firstName.max":            "First name cannot be longer than 45 characters.",
	"lastName.notblank":        "Last name is mandatory.",
	"lastName.max":             "Last name cannot be longer than 45 characters.",
}

// Validator checks request bodies against their validate tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("digits", digits)

	return &Validator{validate: v}
}

// Validate returns a message per invalid field, or nil when req is valid
func (v *Validator) Validate(req interface{}) map[string]string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string]string{"request": err.Error()}
	}

	details := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		if _, seen := details[fe.Field()]; seen {
			continue
		}
		details[fe.Field()] = fieldMessage(fe)
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag())
}

// digits checks a decimal against "integer.fraction" digit limits, e.g. digits=2.2
func digits(fl validator.FieldLevel) bool {
	intPart, fracPart, ok := strings.Cut(fl.Param(), ".")
	if !ok {
		return false
	}
	maxInt, err := strconv.Atoi(intPart)
	if err != nil {
		return false
	}
	maxFrac, err := strconv.Atoi(fracPart)
	if err != nil {
		return false
	}

	var value float64
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		value = fl.Field().Float()
	default:
		return false
	}

	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	formatted = strings.TrimPrefix(formatted, "-")
	whole, frac, _ := strings.Cut(formatted, ".")
	whole = strings.TrimLeft(whole, "0")

	return len(whole) <= maxInt && len(frac) <= maxFrac
}
