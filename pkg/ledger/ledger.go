package ledger

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"strings"

	"github.com/cockroachdb/errors"
)

// Option configures a Ledger.
type Option func(*Ledger)

// WithDefaults sets fields merged into every record added to the ledger.
// Fields on the record itself take precedence.
func WithDefaults(defaults Fields) Option {
	return func(l *Ledger) {
		l.defaults = maps.Clone(defaults)
	}
}

// WithLogger enables debug diagnostics for added records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// Ledger is the ordered log of findings for one validation run.
type Ledger struct {
	records  []Record
	valid    bool
	defaults Fields
	seen     map[string]struct{}
	errors   int
	warnings int
	logger   *slog.Logger
}

// New creates an empty, valid ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		valid: true,
		seen:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateRecord builds a record from a message without adding it.
//
// The message must be a string, or a mapping with exactly one key naming the
// field; the value becomes the record message. Prefixing the message with the
// field name is left to the caller.
func (l *Ledger) CreateRecord(message any, level Level, extra Fields) (Record, error) {
	r := Record{Level: level}

	switch m := message.(type) {
	case string:
		r.Message = m
	case map[string]string:
		field, text, err := singleField(len(m), maps.All(m))
		if err != nil {
			return Record{}, err
		}
		r.Field, r.Message = field, text
	case map[string]any:
		field, text, err := singleField(len(m), func(yield func(string, string) bool) {
			for k, v := range m {
				if !yield(k, fmt.Sprint(v)) {
					return
				}
			}
		})
		if err != nil {
			return Record{}, err
		}
		r.Field, r.Message = field, text
	default:
		return Record{}, errors.Wrapf(ErrInvalidMessageShape, "got %T", message)
	}

	if len(extra) > 0 {
		r.Extra = maps.Clone(extra)
	}
	return r, nil
}

func singleField(n int, entries iter.Seq2[string, string]) (string, string, error) {
	switch {
	case n == 0:
		return "", "", errors.Wrap(ErrInvalidMessageShape, "empty mapping")
	case n > 1:
		return "", "", errors.Wrapf(ErrUnsupportedShape, "mapping has %d keys", n)
	}

	var field, text string
	for k, v := range entries {
		field, text = k, v
	}
	return field, text, nil
}

// AddMessage builds a record from message and adds it to the ledger.
func (l *Ledger) AddMessage(message any, level Level, extra Fields) error {
	r, err := l.CreateRecord(message, level, extra)
	if err != nil {
		return err
	}
	return l.AddObject(r)
}

// AddObject merges the ledger defaults beneath r and appends it.
func (l *Ledger) AddObject(r Record) error {
	merged := make(Fields, len(l.defaults)+len(r.Extra))
	maps.Copy(merged, l.defaults)
	maps.Copy(merged, r.Extra)
	if len(merged) > 0 {
		r.Extra = merged
	} else {
		r.Extra = nil
	}

	if r.Level == "" || r.Message == "" {
		return errors.Wrapf(ErrIncompleteRecord, "level=%q message=%q", r.Level, r.Message)
	}
	if !r.Level.Valid() {
		return errors.Wrapf(ErrUnknownLevel, "%q", r.Level)
	}

	l.logOnce(r)

	l.records = append(l.records, r)
	switch r.Level {
	case LevelError:
		l.valid = false
		l.errors++
	case LevelWarn:
		l.warnings++
	}
	return nil
}

// logOnce emits a debug line per distinct "LEVEL message" pair.
func (l *Ledger) logOnce(r Record) {
	if l.logger == nil {
		return
	}
	key := fmt.Sprintf("%s %s", r.Level, r.Message)
	if _, ok := l.seen[key]; ok {
		return
	}
	l.seen[key] = struct{}{}
	l.logger.Debug(key)
}

// MergeWith returns a new ledger holding the records of l followed by the
// records of other. The result is valid only if both inputs are.
func (l *Ledger) MergeWith(other *Ledger) (*Ledger, error) {
	if l == nil || other == nil {
		return nil, ErrIncompatibleLedger
	}

	merged := &Ledger{
		records:  make([]Record, 0, len(l.records)+len(other.records)),
		valid:    l.valid && other.valid,
		defaults: maps.Clone(l.defaults),
		seen:     make(map[string]struct{}, len(l.seen)+len(other.seen)),
		errors:   l.errors + other.errors,
		warnings: l.warnings + other.warnings,
		logger:   l.logger,
	}
	for _, r := range l.records {
		merged.records = append(merged.records, r.clone())
	}
	for _, r := range other.records {
		merged.records = append(merged.records, r.clone())
	}
	maps.Copy(merged.seen, l.seen)
	maps.Copy(merged.seen, other.seen)

	return merged, nil
}

// Merge folds ledgers left to right with MergeWith.
// Merging no ledgers yields an empty, valid ledger.
func Merge(ledgers ...*Ledger) (*Ledger, error) {
	acc := New()
	for _, l := range ledgers {
		next, err := acc.MergeWith(l)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// IsValid reports whether no ERROR record was ever added.
func (l *Ledger) IsValid() bool {
	return l.valid
}

// Len returns the number of records in the ledger.
func (l *Ledger) Len() int {
	return len(l.records)
}

// ErrorCount returns the number of ERROR records added.
func (l *Ledger) ErrorCount() int {
	return l.errors
}

// WarningCount returns the number of WARN records added.
func (l *Ledger) WarningCount() int {
	return l.warnings
}

// Errors returns the ERROR records. With unique set, identical records are
// collapsed to their first occurrence.
func (l *Ledger) Errors(unique bool) []Record {
	return l.byLevel(LevelError, unique)
}

// Warnings returns the WARN records. With unique set, identical records are
// collapsed to their first occurrence.
func (l *Ledger) Warnings(unique bool) []Record {
	return l.byLevel(LevelWarn, unique)
}

func (l *Ledger) byLevel(level Level, unique bool) []Record {
	var res []Record
	seen := make(map[string]struct{})
	for _, r := range l.records {
		if r.Level != level {
			continue
		}
		if unique {
			k := r.key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
		}
		res = append(res, r.clone())
	}
	return res
}

// ErrorMessages returns the distinct ERROR messages in first-seen order.
func (l *Ledger) ErrorMessages() []string {
	return l.messages(LevelError)
}

// WarningMessages returns the distinct WARN messages in first-seen order.
func (l *Ledger) WarningMessages() []string {
	return l.messages(LevelWarn)
}

func (l *Ledger) messages(level Level) []string {
	var res []string
	seen := make(map[string]struct{})
	for _, r := range l.records {
		if r.Level != level {
			continue
		}
		if _, ok := seen[r.Message]; ok {
			continue
		}
		seen[r.Message] = struct{}{}
		res = append(res, r.Message)
	}
	return res
}

// DescriptiveErrorMessages returns "{description} {message}" for each ERROR
// record.
func (l *Ledger) DescriptiveErrorMessages() []string {
	var res []string
	for _, r := range l.records {
		if r.Level != LevelError {
			continue
		}
		desc, ok := r.Description()
		if !ok {
			desc = noDescription
		}
		res = append(res, desc+" "+r.Message)
	}
	return res
}

// FullResults returns every record in insertion order.
func (l *Ledger) FullResults() []Record {
	res := make([]Record, len(l.records))
	for i, r := range l.records {
		res[i] = r.clone()
	}
	return res
}

// GroupedByLevelAndField groups messages by level and then by field.
// Records without a field are grouped under NonFieldErrors, and the
// "{verbose_name}: " prefix is stripped from each message.
func (l *Ledger) GroupedByLevelAndField() map[Level]map[string][]string {
	res := make(map[Level]map[string][]string)
	for _, r := range l.records {
		byField, ok := res[r.Level]
		if !ok {
			byField = make(map[string][]string)
			res[r.Level] = byField
		}

		field := r.Field
		if field == "" {
			field = NonFieldErrors
		}

		msg := strings.TrimPrefix(r.Message, r.VerboseName+": ")
		byField[field] = append(byField[field], msg)
	}
	return res
}
