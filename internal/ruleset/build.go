package ruleset

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/lidator/internal/errors"
	"github.com/thoreinstein/lidator/pkg/ledger"
	"github.com/thoreinstein/lidator/pkg/rules"
	"github.com/thoreinstein/lidator/pkg/validate"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Build compiles a rule set into a suite and the providers its rules run
// over. A rule set with ERROR findings from Check fails with
// ErrInvalidRuleSet.
func Build(rs *RuleSet) (*validate.Suite, validate.Providers, error) {
	report, err := Check(rs)
	if err != nil {
		return nil, nil, err
	}
	if !report.IsValid() {
		msgs := make([]string, 0, report.ErrorCount())
		for _, r := range report.Errors(true) {
			msgs = append(msgs, ledger.FormatRecord(r))
		}
		return nil, nil, errors.Wrapf(errors.ErrInvalidRuleSet, "%s", strings.Join(msgs, "\n"))
	}

	suite := validate.NewSuite()
	for _, r := range rs.Rules {
		level := ledger.LevelError
		if r.Level != "" {
			level, err = ledger.ParseLevel(r.Level)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "rule %s", r.Name)
			}
		}
		v, err := compile(r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "rule %s", r.Name)
		}
		if err := suite.Register(level, v); err != nil {
			return nil, nil, errors.Wrapf(err, "rule %s", r.Name)
		}
	}

	providers := make(validate.Providers, len(rs.Providers))
	for name, p := range rs.Providers {
		providers[name] = listProvider(p)
	}
	return suite, providers, nil
}

// compile turns one rule into a validator.
func compile(r Rule) (*validate.Validator, error) {
	var (
		check validate.Func
		opts  []validate.Option
	)

	switch r.Check {
	case CheckRequired:
		check = objectCheck(func(obj rules.Object, _ validate.Args) (validate.Result, error) {
			return rules.Required(obj, r.Fields...), nil
		})
	case CheckForbidden:
		check = objectCheck(func(obj rules.Object, _ validate.Args) (validate.Result, error) {
			return rules.Forbidden(obj, r.Fields...), nil
		})
	case CheckAnyRequired:
		check = objectCheck(func(obj rules.Object, _ validate.Args) (validate.Result, error) {
			return rules.AnyRequired(obj, r.Fields...), nil
		})
	case CheckOneOf:
		check = objectCheck(func(obj rules.Object, _ validate.Args) (validate.Result, error) {
			return perField(r.Fields, func(f string) validate.Result {
				return rules.OneOf(obj, f, r.Values...)
			}), nil
		})
	case CheckMatches:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "pattern"), errors.ErrInvalidRuleSet)
		}
		check = objectCheck(func(obj rules.Object, _ validate.Args) (validate.Result, error) {
			return perField(r.Fields, func(f string) validate.Result {
				return rules.Matches(obj, f, re)
			}), nil
		})
	case CheckNotAfter:
		opts = append(opts, validate.Requires(ContextNow))
		check = objectCheck(func(obj rules.Object, args validate.Args) (validate.Result, error) {
			now, err := nowOf(args.Get(ContextNow))
			if err != nil {
				return nil, err
			}
			return perField(r.Fields, func(f string) validate.Result {
				return rules.NotAfter(obj, f, now, r.AllowNone)
			}), nil
		})
	default:
		return nil, errors.Wrapf(errors.ErrInvalidRuleSet, "unknown check %q", r.Check)
	}

	if r.Message != "" {
		check = withMessage(check, r.Message)
	}
	if r.Of != "" {
		opts = append(opts, validate.Of(r.Of))
	}
	if len(r.Requires) > 0 {
		opts = append(opts, validate.Requires(r.Requires...))
	}
	if r.Affects != "" {
		opts = append(opts, validate.Affects(r.Affects))
	}
	return validate.New(r.Name, check, opts...), nil
}

func objectCheck(fn func(obj rules.Object, args validate.Args) (validate.Result, error)) validate.Func {
	return func(item any, args validate.Args) (validate.Result, error) {
		obj, ok := item.(rules.Object)
		if !ok {
			return nil, errors.Wrapf(validate.ErrUnexpectedType, "rule expects an object, got %T", item)
		}
		return fn(obj, args)
	}
}

func perField(fields []string, fn func(field string) validate.Result) validate.Result {
	results := make([]validate.Result, 0, len(fields))
	for _, f := range fields {
		results = append(results, fn(f))
	}
	return merged(results)
}

// merged flattens field errors from several results into one.
func merged(results []validate.Result) validate.Result {
	var errs []validate.FieldError
	for _, res := range results {
		if fe, ok := res.(validate.FieldErrorsResult); ok {
			errs = append(errs, fe...)
		}
	}
	return validate.FieldErrors(errs...)
}

// withMessage replaces every message the check reports with text.
func withMessage(check validate.Func, text string) validate.Func {
	return func(item any, args validate.Args) (validate.Result, error) {
		res, err := check(item, args)
		if err != nil || res == nil {
			return res, err
		}
		return replaceMessages(res, text), nil
	}
}

func replaceMessages(res validate.Result, text string) validate.Result {
	switch r := res.(type) {
	case validate.MessageResult:
		return validate.Message(text)
	case validate.FieldErrorsResult:
		out := make(validate.FieldErrorsResult, len(r))
		for i, fe := range r {
			out[i] = validate.Field(fe.Field, text)
		}
		return out
	case validate.BatchResult:
		out := make(validate.BatchResult, len(r))
		for i, item := range r {
			out[i] = replaceMessages(item, text)
		}
		return out
	}
	return res
}

func nowOf(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Now().UTC(), nil
	case time.Time:
		return t, nil
	}
	now, err := rules.ParseDate(v)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "context %q", ContextNow)
	}
	return now, nil
}

// listProvider yields the elements of the list at p.Path. Mapping elements
// are provided as rules.Map; any other element is wrapped as {"value": v}.
// A missing list provides nothing.
func listProvider(p Provider) validate.ProviderFunc {
	return func(root any) (iter.Seq2[any, validate.Fields], error) {
		obj, ok := root.(rules.Object)
		if !ok {
			return nil, errors.Wrapf(validate.ErrUnexpectedType, "provider expects an object, got %T", root)
		}
		v, ok := obj.Lookup(p.Path)
		if !ok || v == nil {
			return func(func(any, validate.Fields) bool) {}, nil
		}
		list, ok := v.([]any)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidDocument, "%s is a %T, not a list", p.Path, v)
		}

		return func(yield func(any, validate.Fields) bool) {
			for i, elem := range list {
				item := asMap(elem)
				var extra validate.Fields
				if p.Description != "" {
					extra = validate.Fields{ledger.KeyDescription: describe(p.Description, i, item)}
				}
				if !yield(item, extra) {
					return
				}
			}
		}, nil
	}
}

func asMap(v any) rules.Map {
	switch m := v.(type) {
	case rules.Map:
		return m
	case map[string]any:
		return rules.Map(m)
	}
	return rules.Map{"value": v}
}

// describe fills a description template. {index} counts from 1 and unset
// fields render empty.
func describe(tmpl string, i int, item rules.Map) string {
	s := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		if key == "index" {
			return strconv.Itoa(i + 1)
		}
		if v, ok := item.Lookup(key); ok && v != nil {
			return fmt.Sprint(v)
		}
		return ""
	})
	return strings.TrimSpace(s)
}
