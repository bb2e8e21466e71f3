package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

var setupOnce sync.Once

// SetupBinding registers the schema rules on gin's shared validator. Safe to
// call more than once.
func SetupBinding() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterValidation(v)
		}
	})
}

// RegisterValidation teaches v to look inside Optional fields and to report
// fields by their wire name.
func RegisterValidation(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if o, ok := field.Interface().(Optional[string]); ok {
			// nil when absent so omitempty skips it; a present value (even "")
			// is validated through the pointer.
			return o.Ptr()
		}
		return nil
	}, Optional[string]{})

	v.RegisterTagNameFunc(wireName)
}

// wireName is the name a field travels under: its json tag, else its form tag.
func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// FieldErrors flattens a binding failure into one entry per violated field.
// loc names the input (body, query, path) for errors that carry no field.
func FieldErrors(err error, loc string) []FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag(), Message: describe(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return []FieldError{{Field: loc, Rule: "type", Message: "expected a JSON object"}}
		}
		return []FieldError{jsonTypeError(typeErr.Field, typeErr)}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []FieldError{{Field: loc, Rule: "json", Message: "request body is not valid JSON"}}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return []FieldError{{Field: loc, Rule: "type", Message: fmt.Sprintf("%q is not a valid integer", numErr.Num)}}
	}

	return []FieldError{{Field: loc, Rule: "invalid", Message: err.Error()}}
}

func describe(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
