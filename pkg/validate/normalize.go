package validate

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/lidator/pkg/ledger"
)

// Normalizer turns validator results into ledger records.
type Normalizer struct {
	ledger           *ledger.Ledger
	mapper           FieldNameMapper
	includeFieldName bool
}

// NewNormalizer creates a normalizer writing into l. A nil mapper uses
// HumanizeFieldName. When includeFieldName is set, field messages are
// prefixed with "{verbose name}: ".
func NewNormalizer(l *ledger.Ledger, mapper FieldNameMapper, includeFieldName bool) *Normalizer {
	return &Normalizer{
		ledger:           l,
		mapper:           mapper,
		includeFieldName: includeFieldName,
	}
}

// Normalize records res for row at level. It reports whether res held no
// findings.
func (n *Normalizer) Normalize(res Result, level ledger.Level, extra Fields, row any) (bool, error) {
	if it, ok := row.(Item); ok {
		row = it.Value
	}

	switch r := res.(type) {
	case nil:
		return true, nil
	case MessageResult:
		return n.addMessage(r, level, extra)
	case FieldErrorsResult:
		return n.addFields(r, level, extra, row)
	case BatchResult:
		valid := true
		for i, item := range r {
			var (
				ok  bool
				err error
			)
			switch it := item.(type) {
			case nil:
				ok = true
			case MessageResult:
				ok, err = n.addMessage(it, level, extra)
			case FieldErrorsResult:
				ok, err = n.addFields(it, level, extra, row)
			default:
				err = errors.Wrapf(ErrUnsupportedResultShape, "batch item %d: %T", i, item)
			}
			if err != nil {
				return false, err
			}
			if !ok {
				valid = false
			}
		}
		return valid, nil
	default:
		return false, errors.Wrapf(ErrUnsupportedResultShape, "%T", res)
	}
}

func (n *Normalizer) addMessage(msg MessageResult, level ledger.Level, extra Fields) (bool, error) {
	if msg == "" {
		return true, nil
	}
	if err := n.ledger.AddMessage(string(msg), level, extra); err != nil {
		return false, err
	}
	return false, nil
}

func (n *Normalizer) addFields(errs FieldErrorsResult, level ledger.Level, extra Fields, row any) (bool, error) {
	valid := true
	for _, fe := range errs {
		if fe.Field == "" {
			return false, errors.Wrap(ErrInvalidMessageShape, "field error without a field name")
		}

		msgs := make([]string, 0, len(fe.Messages))
		for _, m := range fe.Messages {
			if m != "" {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) == 0 {
			continue
		}

		verbose := n.verboseName(row, fe.Field)
		msg := strings.Join(msgs, "; ")
		if n.includeFieldName {
			msg = verbose + ": " + msg
		}

		rec, err := n.ledger.CreateRecord(map[string]string{fe.Field: msg}, level, extra)
		if err != nil {
			return false, err
		}
		rec.VerboseName = verbose
		if err := n.ledger.AddObject(rec); err != nil {
			return false, err
		}
		valid = false
	}
	return valid, nil
}

func (n *Normalizer) verboseName(row any, field string) string {
	if n.mapper != nil {
		if name, ok := n.mapper(row, field); ok && name != "" {
			return name
		}
	}
	if name := Humanize(field); name != "" {
		return name
	}
	return field
}
