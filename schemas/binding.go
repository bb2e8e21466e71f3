package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// BodyErrors explains a failed JSON bind of dst. gin stops at the first decode
// error, so the body is decoded again one field at a time and the fields that
// did decode are validated too. raw is the body as received.
func BodyErrors(err error, raw []byte, dst interface{}) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return FieldErrors(err, "body")
	}
	if !json.Valid(raw) {
		return []FieldError{{Field: "body", Rule: "json", Message: "request body is not valid JSON"}}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return []FieldError{{Field: "body", Rule: "type", Message: "expected a JSON object"}}
	}

	fresh := reflect.New(reflect.TypeOf(dst).Elem()).Elem()
	typeErrs := map[string]FieldError{}
	eachField(fresh, func(f reflect.StructField, name string, v reflect.Value) {
		msg, ok := obj[name]
		if !ok {
			return
		}
		if err := json.Unmarshal(msg, v.Addr().Interface()); err != nil {
			typeErrs[name] = jsonTypeError(name, err)
		}
	})
	return merge(fresh, typeErrs, "body")
}

// QueryErrors explains a failed query bind of dst, one entry per bad
// parameter under its own name, followed by the rules the rest violate.
func QueryErrors(err error, values url.Values, dst interface{}) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return FieldErrors(err, "query")
	}

	fresh := reflect.New(reflect.TypeOf(dst).Elem()).Elem()
	typeErrs := map[string]FieldError{}
	eachField(fresh, func(f reflect.StructField, name string, v reflect.Value) {
		s, ok := queryValue(values, f)
		if !ok {
			return
		}
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if s == "" {
				s = "0"
			}
			n, err := strconv.ParseInt(s, 10, v.Type().Bits())
			if err != nil {
				typeErrs[name] = FieldError{Field: name, Rule: "type", Message: fmt.Sprintf("%q is not a valid integer", s)}
				return
			}
			v.SetInt(n)
		case reflect.String:
			v.SetString(s)
		}
	})
	return merge(fresh, typeErrs, "query")
}

// queryValue returns the first value of the parameter named by f's form tag,
// falling back to the tag's default.
func queryValue(values url.Values, f reflect.StructField) (string, bool) {
	parts := strings.Split(f.Tag.Get("form"), ",")
	if vs, ok := values[parts[0]]; ok && len(vs) > 0 {
		return vs[0], true
	}
	for _, opt := range parts[1:] {
		if def, ok := strings.CutPrefix(opt, "default="); ok {
			return def, true
		}
	}
	return "", false
}

// merge validates v and lists, in field order, the type error of each field
// or else the rules it violates.
func merge(v reflect.Value, typeErrs map[string]FieldError, loc string) []FieldError {
	SetupBinding()
	byField := map[string][]FieldError{}
	for _, fe := range FieldErrors(binding.Validator.ValidateStruct(v.Addr().Interface()), loc) {
		byField[fe.Field] = append(byField[fe.Field], fe)
	}

	var out []FieldError
	eachField(v, func(_ reflect.StructField, name string, _ reflect.Value) {
		if te, ok := typeErrs[name]; ok {
			out = append(out, te)
		} else {
			out = append(out, byField[name]...)
		}
		delete(byField, name)
	})
	for _, rest := range byField {
		out = append(out, rest...)
	}
	return out
}

func eachField(v reflect.Value, fn func(f reflect.StructField, name string, field reflect.Value)) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := wireName(f)
		if name == "" {
			continue
		}
		fn(f, name, v.Field(i))
	}
}

func jsonTypeError(name string, err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return FieldError{Field: name, Rule: "type", Message: fmt.Sprintf("expected %s, got %s", jsonKind(typeErr.Type), typeErr.Value)}
	}
	return FieldError{Field: name, Rule: "type", Message: "invalid value"}
}

// jsonKind names t the way a JSON client would see it.
func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "a JSON object"
	default:
		return "a valid value"
	}
}
