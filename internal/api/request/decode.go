package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/partygames/internal/api/apierr"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Result is the outcome of validating a request: either ok or a set of field errors
type Result struct {
	Fields map[string]string
}

// OK reports whether validation passed
func (r Result) OK() bool {
	return len(r.Fields) == 0
}

// Err returns nil when ok, otherwise an invalid request error carrying the field errors
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return apierr.NewValidationError(r.Fields)
}

// Validate checks v against its validate tags
func Validate(v any) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Fields: map[string]string{"body": err.Error()}}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return Result{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return "must be greater than " + fe.Param()
	case "excluded_with":
		return "must not be combined with contentEn"
	default:
		return "is invalid"
	}
}

// Decode reads a JSON body into dst and validates it. Any returned error
// is ready to be written with apierr.WriteError.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierr.NewInvalidRequestError("Request body is required")
		}
		return apierr.NewInvalidRequestError("Invalid request body")
	}
	return Validate(dst).Err()
}

// DecodeOptional is Decode for endpoints whose body may be empty
func DecodeOptional(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apierr.NewInvalidRequestError("Invalid request body")
	}
	return Validate(dst).Err()
}
