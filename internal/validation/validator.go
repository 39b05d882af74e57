// Package validation checks request payloads against the declarative
// constraints of the schema package.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// DefaultMaxBodyBytes caps the size of a request body (1 MiB).
const DefaultMaxBodyBytes int64 = 1 << 20

const rootPath = "root"

// Validator decodes JSON payloads and validates them against struct tags.
// It is safe for concurrent use.
type Validator struct {
	validate     *validator.Validate
	maxBodyBytes int64
}

// New returns a Validator. A non-positive maxBodyBytes selects DefaultMaxBodyBytes.
func New(maxBodyBytes int64) *Validator {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v, maxBodyBytes: maxBodyBytes}
}

// Bind decodes the JSON object in body into dst (a pointer to a schema struct)
// and validates it. Unknown fields are dropped. Any failure is returned as a
// *domain.ValidationError.
func (v *Validator) Bind(body io.Reader, dst any) error {
	raw, err := v.readObject(body)
	if err != nil {
		return err
	}

	raw, err = knownFields(raw, dst)
	if err != nil {
		return err
	}

	var msgs []string
	var failed []string

	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return rootError("invalid JSON payload")
		}
		path := strings.ReplaceAll(typeErr.Field, ".", "/")
		failed = append(failed, path)
		msgs = append(msgs, fmt.Sprintf("%s: expected %s, got %s", path, kindName(typeErr.Type), typeErr.Value))
	}

	if err := v.Struct(dst); err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, m := range verr.Errors {
			path, _, _ := strings.Cut(m, ": ")
			if !under(path, failed) {
				msgs = append(msgs, m)
			}
		}
	}

	if len(msgs) > 0 {
		return &domain.ValidationError{Errors: msgs}
	}
	return nil
}

// Struct validates an already decoded value.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return rootError(err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldPath(fe.Namespace())+": "+message(fe))
	}
	return &domain.ValidationError{Errors: msgs}
}

// readObject reads at most maxBodyBytes and checks that the payload is a single JSON object.
func (v *Validator) readObject(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, rootError("request body must be a JSON object")
	}

	data, err := io.ReadAll(io.LimitReader(body, v.maxBodyBytes+1))
	if err != nil {
		return nil, rootError("unable to read request body")
	}
	if int64(len(data)) > v.maxBodyBytes {
		return nil, rootError(fmt.Sprintf("request body exceeds %d bytes", v.maxBodyBytes))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, rootError("request body must be a JSON object")
		}
		return nil, rootError("malformed JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, rootError("request body must only contain a single JSON object")
	}
	if len(raw) == 0 || raw[0] != '{' {
		return nil, rootError("request body must be a JSON object")
	}
	return raw, nil
}

// knownFields keeps only the keys of obj that exactly match a JSON field name
// of dst. Keys differing only in case are dropped as unknown.
func knownFields(obj json.RawMessage, dst any) (json.RawMessage, error) {
	names := jsonFieldNames(reflect.TypeOf(dst))
	if names == nil {
		return obj, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(obj, &fields); err != nil {
		return nil, rootError("malformed JSON")
	}
	for k := range fields {
		if !names[k] {
			delete(fields, k)
		}
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, rootError("malformed JSON")
	}
	return out, nil
}

func jsonFieldNames(t reflect.Type) map[string]bool {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		if !fld.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = fld.Name
		}
		names[name] = true
	}
	return names
}

// under reports whether path equals or is nested below one of the failed paths.
func under(path string, failed []string) bool {
	for _, f := range failed {
		if path == f || strings.HasPrefix(path, f+"/") {
			return true
		}
	}
	return false
}

func rootError(msg string) error {
	return &domain.ValidationError{Errors: []string{rootPath + ": " + msg}}
}

// fieldPath turns "CreateBookmark.tags[1]" into "tags/1".
func fieldPath(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found || rest == "" {
		return rootPath
	}
	r := strings.NewReplacer("[", "/", "]", "", ".", "/")
	return r.Replace(rest)
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("expected string length greater or equal to %s", fe.Param())
		}
		return fmt.Sprintf("expected at least %s items", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("expected string length less or equal to %s", fe.Param())
		}
		return fmt.Sprintf("expected at most %s items", fe.Param())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Ptr:
		return kindName(t.Elem())
	}
	return t.Kind().String()
}
