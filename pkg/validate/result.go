package validate

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cockroachdb/errors"
)

// Result is the value a validator returns. It is one of:
//
//   - nil: nothing to report
//   - MessageResult: a single free-text finding
//   - FieldErrorsResult: findings keyed by field name
//   - BatchResult: a sequence of messages and field errors
type Result interface {
	isResult()
}

// MessageResult is a single free-text finding. The empty message reports nothing.
type MessageResult string

// FieldError holds the messages reported for one field.
type FieldError struct {
	Field    string
	Messages []string
}

// FieldErrorsResult holds findings keyed by field, in report order.
type FieldErrorsResult []FieldError

// BatchResult is a sequence of MessageResult and FieldErrorsResult values.
// Batches do not nest.
type BatchResult []Result

func (MessageResult) isResult()     {}
func (FieldErrorsResult) isResult() {}
func (BatchResult) isResult()       {}

// Nothing returns the empty result.
func Nothing() Result {
	return nil
}

// Message returns a single free-text finding.
func Message(text string) Result {
	return MessageResult(text)
}

// Messagef returns a single formatted finding.
func Messagef(format string, args ...any) Result {
	return MessageResult(fmt.Sprintf(format, args...))
}

// Messages returns a batch with one finding per text.
func Messages(texts ...string) Result {
	if len(texts) == 0 {
		return nil
	}
	b := make(BatchResult, len(texts))
	for i, t := range texts {
		b[i] = MessageResult(t)
	}
	return b
}

// Field returns the error for one field.
func Field(name string, messages ...string) FieldError {
	return FieldError{Field: name, Messages: messages}
}

// FieldErrors returns findings keyed by field.
func FieldErrors(errs ...FieldError) Result {
	if len(errs) == 0 {
		return nil
	}
	return FieldErrorsResult(errs)
}

// FieldMap returns findings for a field → message mapping, ordered by field name.
func FieldMap(m map[string]string) Result {
	if len(m) == 0 {
		return nil
	}
	errs := make(FieldErrorsResult, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		errs = append(errs, Field(k, m[k]))
	}
	return errs
}

// Batch returns a sequence of findings. Nil items are dropped.
func Batch(items ...Result) Result {
	b := make(BatchResult, 0, len(items))
	for _, it := range items {
		if it != nil {
			b = append(b, it)
		}
	}
	if len(b) == 0 {
		return nil
	}
	return b
}

// ResultOf converts a dynamically shaped value into a Result.
//
// Accepted shapes are nil, false, string, []string, a mapping
// (map[string]string, map[string][]string, or map[string]any with string or
// string-list values) and a list of strings and mappings ([]any,
// []map[string]string, []map[string]any). Maps are ordered by key.
func ResultOf(v any) (Result, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Result:
		return x, nil
	case bool:
		if !x {
			return nil, nil
		}
		return nil, errors.Wrap(ErrUnsupportedResultShape, "true is not a finding")
	case string:
		return Message(x), nil
	case []string:
		return Messages(x...), nil
	case []any:
		return listOf(x)
	case []map[string]string:
		return listOf(anySlice(x))
	case []map[string]any:
		return listOf(anySlice(x))
	}

	res, ok, err := mappingOf(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedResultShape, "%T", v)
	}
	return res, nil
}

// mappingOf converts any supported field mapping. The boolean is false when
// v is not a mapping.
func mappingOf(v any) (Result, bool, error) {
	switch m := v.(type) {
	case map[string]string:
		return FieldMap(m), true, nil
	case map[string][]string:
		errs := make(FieldErrorsResult, 0, len(m))
		for _, k := range slices.Sorted(maps.Keys(m)) {
			errs = append(errs, Field(k, m[k]...))
		}
		return FieldErrors(errs...), true, nil
	case map[string]any:
		res, err := fieldsOf(m)
		return res, true, err
	}
	return nil, false, nil
}

func listOf(items []any) (Result, error) {
	b := make(BatchResult, 0, len(items))
	for i, item := range items {
		switch it := item.(type) {
		case nil:
			continue
		case string:
			b = append(b, MessageResult(it))
			continue
		}

		fe, ok, err := mappingOf(item)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
		if !ok {
			return nil, errors.Wrapf(ErrUnsupportedResultShape, "item %d: %T", i, item)
		}
		if fe != nil {
			b = append(b, fe)
		}
	}
	return Batch(b...), nil
}

func anySlice[T any](items []T) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func fieldsOf(m map[string]any) (Result, error) {
	errs := make(FieldErrorsResult, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		switch v := m[k].(type) {
		case string:
			errs = append(errs, Field(k, v))
		case []string:
			errs = append(errs, Field(k, v...))
		case []any:
			msgs := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, errors.Wrapf(ErrUnsupportedResultShape, "field %q: %T", k, item)
				}
				msgs = append(msgs, s)
			}
			errs = append(errs, Field(k, msgs...))
		default:
			return nil, errors.Wrapf(ErrUnsupportedResultShape, "field %q: %T", k, m[k])
		}
	}
	return FieldErrors(errs...), nil
}
