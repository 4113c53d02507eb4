package ledger

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Reserved record keys. Extra fields may not use them.
const (
	KeyLevel       = "level"
	KeyMessage     = "message"
	KeyField       = "field"
	KeyVerboseName = "verbose_name"
)

// Well-known extra keys.
const (
	KeyDescription    = "description"
	KeyAffects        = "affects"
	KeyValidationType = "validation_type"
)

// NonFieldErrors is the group name used for records without a field.
const NonFieldErrors = "non_field_errors"

// Fields holds extra key/value pairs attached to a record.
type Fields map[string]any

// IsReserved reports whether key is one of the record's own keys.
func IsReserved(key string) bool {
	switch key {
	case KeyLevel, KeyMessage, KeyField, KeyVerboseName:
		return true
	}
	return false
}

// Record is a single validation finding.
type Record struct {
	// Level is the severity of the finding. Required.
	Level Level
	// Message is the display-ready text of the finding. Required.
	Message string
	// Field names the offending attribute (optional).
	Field string
	// VerboseName is the humanized form of Field (optional).
	VerboseName string
	// Extra holds caller-supplied keys such as description or affects.
	Extra Fields
}

// Get returns the value stored under key, looking at the record's own keys
// before its extra fields.
func (r Record) Get(key string) (any, bool) {
	switch key {
	case KeyLevel:
		return r.Level, r.Level != ""
	case KeyMessage:
		return r.Message, r.Message != ""
	case KeyField:
		return r.Field, r.Field != ""
	case KeyVerboseName:
		return r.VerboseName, r.VerboseName != ""
	}
	v, ok := r.Extra[key]
	return v, ok
}

// Description returns the description extra field, if it is set.
func (r Record) Description() (string, bool) {
	v, ok := r.Extra[KeyDescription]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Map flattens the record into a single mapping.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Extra)+4)
	maps.Copy(m, r.Extra)
	m[KeyLevel] = string(r.Level)
	m[KeyMessage] = r.Message
	if r.Field != "" {
		m[KeyField] = r.Field
	}
	if r.VerboseName != "" {
		m[KeyVerboseName] = r.VerboseName
	}
	return m
}

// Equal reports whether two records are field-for-field identical.
func (r Record) Equal(other Record) bool {
	return r.key() == other.key()
}

// key renders the record deterministically for identity comparisons.
func (r Record) key() string {
	m := r.Map()
	keys := slices.Sorted(maps.Keys(m))

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%#v\x00", k, m[k])
	}
	return sb.String()
}

func (r Record) clone() Record {
	if r.Extra != nil {
		r.Extra = maps.Clone(r.Extra)
	}
	return r
}

// MarshalJSON encodes the record as one flat object.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON decodes a flat object produced by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(err, "decoding record")
	}

	*r = Record{}
	for k, v := range m {
		switch k {
		case KeyLevel:
			r.Level = Level(fmt.Sprint(v))
		case KeyMessage:
			r.Message = fmt.Sprint(v)
		case KeyField:
			r.Field = fmt.Sprint(v)
		case KeyVerboseName:
			r.VerboseName = fmt.Sprint(v)
		default:
			if r.Extra == nil {
				r.Extra = Fields{}
			}
			r.Extra[k] = v
		}
	}
	return nil
}
