package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/lidator/pkg/validate"
)

// Required reports every field that is missing or nil.
func Required(obj Object, fields ...string) validate.Result {
	var errs []validate.FieldError
	for _, f := range fields {
		if !IsSet(obj, f) {
			errs = append(errs, validate.Field(f, MsgFieldRequired))
		}
	}
	return validate.FieldErrors(errs...)
}

// Forbidden reports every field that is set.
func Forbidden(obj Object, fields ...string) validate.Result {
	var errs []validate.FieldError
	for _, f := range fields {
		if IsSet(obj, f) {
			errs = append(errs, validate.Field(f, MsgFieldMustBeEmpty))
		}
	}
	return validate.FieldErrors(errs...)
}

// AnyRequired passes when at least one field is set. Otherwise every field
// is reported. A single field behaves like Required.
func AnyRequired(obj Object, fields ...string) validate.Result {
	if len(fields) == 1 {
		return Required(obj, fields[0])
	}
	if slices.ContainsFunc(fields, func(f string) bool { return IsSet(obj, f) }) {
		return nil
	}

	errs := make([]validate.FieldError, len(fields))
	for i, f := range fields {
		errs[i] = validate.Field(f, MsgAnyFieldRequired)
	}
	return validate.FieldErrors(errs...)
}

// NotAfter reports field when its date lies after now. An unset field is
// reported as required unless allowNone is set.
func NotAfter(obj Object, field string, now time.Time, allowNone bool) validate.Result {
	v, ok := obj.Lookup(field)
	if !ok || v == nil {
		if allowNone {
			return nil
		}
		return validate.FieldErrors(validate.Field(field, MsgFieldRequired))
	}

	t, err := ParseDate(v)
	if err != nil {
		return validate.FieldErrors(validate.Field(field, MsgInvalidDate))
	}
	if t.After(now) {
		return validate.FieldErrors(validate.Field(field, MsgDateInFuture))
	}
	return nil
}

// OneOf reports field when its value is not among allowed. Unset fields
// pass; combine with Required to demand a value.
func OneOf(obj Object, field string, allowed ...string) validate.Result {
	v, ok := obj.Lookup(field)
	if !ok || v == nil {
		return nil
	}
	if slices.Contains(allowed, fmt.Sprint(v)) {
		return nil
	}
	return validate.FieldErrors(validate.Field(field, fmt.Sprintf(MsgNotAllowed, strings.Join(allowed, ", "))))
}

// Matches reports field when its text does not match re. Unset fields pass.
func Matches(obj Object, field string, re *regexp.Regexp) validate.Result {
	v, ok := obj.Lookup(field)
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return validate.FieldErrors(validate.Field(field, MsgNotText))
	}
	if re.MatchString(s) {
		return nil
	}
	return validate.FieldErrors(validate.Field(field, fmt.Sprintf(MsgNoMatch, re.String())))
}
