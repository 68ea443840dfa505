package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"climbtracker/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field errors are reported under
// their JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ErrInvalidBody is returned when the request body is not valid JSON for the target type.
var ErrInvalidBody = errors.New("invalid request body")

// DecodeAndValidate binds the JSON body into dst and runs struct validation.
// Validation failures come back as *model.ValidationError.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return ValidateStruct(dst)
}

// ValidateStruct validates s and converts validator field errors into a model.ValidationError.
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &model.ValidationError{Fields: map[string]string{"body": err.Error()}}
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe)] = translateError(fe)
	}
	return &model.ValidationError{Fields: fields}
}

// fieldPath drops the top-level struct name, so "CreateSessionRequest.climbs[0].grade"
// becomes "climbs[0].grade".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var errorMessageTemplates = map[string]string{
	"required":  "is required",
	"email":     "must be a valid email address",
	"latitude":  "must be a valid latitude (-90 to 90)",
	"longitude": "must be a valid longitude (-180 to 180)",
}

var errorMessageWithParam = map[string]string{
	"oneof": "must be one of: %s",
	"gte":   "must be greater than or equal to %s",
	"lte":   "must be less than or equal to %s",
}

func translateError(fe validator.FieldError) string {
	if msg, ok := errorMessageTemplates[fe.Tag()]; ok {
		return msg
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Param())
	}

	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// WriteValidationError writes a 400 with the VALIDATION_FAILED code and a
// message listing every failing field.
func WriteValidationError(w http.ResponseWriter, err *model.ValidationError) {
	WriteError(w, http.StatusBadRequest, model.CodeValidationFailed, err.Error())
}
