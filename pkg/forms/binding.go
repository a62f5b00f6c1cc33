package forms

import (
	"encoding/json"
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

const (
	msgInvalidNumber = "Enter a whole number."
	msgInvalidBody   = "Invalid request body."

	// NonFieldErrors collects failures that belong to no single field.
	NonFieldErrors = "__all__"
)

// FromBindError converts a failure to bind a request into form into Errors,
// keyed by the field whose value could not be decoded. values are the
// submitted form or query values; JSON bodies carry the field in the
// decoder error instead.
func FromBindError(err error, form interface{}, values url.Values) Errors {
	errs := Errors{}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := strings.SplitN(typeErr.Field, ".", 2)[0]
		errs.Add(field, invalidNumberMessage(field))
		return errs
	}

	for _, field := range unparsableFields(form, values) {
		errs.Add(field, invalidNumberMessage(field))
	}
	if len(errs) == 0 {
		errs.Add(NonFieldErrors, msgInvalidBody)
	}
	return errs
}

// unparsableFields lists integer fields of form whose submitted values are
// not base-10 integers, in declaration order.
func unparsableFields(form interface{}, values url.Values) []string {
	t := reflect.TypeOf(form)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var fields []string
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" || !isIntKind(sf.Type) {
			continue
		}
		for _, v := range values[name] {
			if v == "" {
				continue
			}
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				fields = append(fields, name)
				break
			}
		}
	}
	return fields
}

func isIntKind(t reflect.Type) bool {
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// Id references are choices, anything else is a plain number.
func invalidNumberMessage(field string) string {
	if strings.HasSuffix(field, "_id") || strings.HasSuffix(field, "_ids") {
		return msgInvalidChoice
	}
	return msgInvalidNumber
}
