package validate

import (
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/lidator/pkg/ledger"
)

// Args holds the extra-context values a validator declared it requires.
type Args map[string]any

// Get returns the value for key, or nil.
func (a Args) Get(key string) any {
	return a[key]
}

// Func is a raw validation function. It reports findings through its Result
// and returns an error only for wiring problems.
type Func func(item any, args Args) (Result, error)

// Check adapts a typed validation function. An item of another type fails
// with ErrUnexpectedType.
func Check[T any](fn func(item T, args Args) Result) Func {
	return func(item any, args Args) (Result, error) {
		typed, ok := item.(T)
		if !ok {
			var zero T
			return nil, errors.Wrapf(ErrUnexpectedType, "validator expects %T, got %T", zero, item)
		}
		return fn(typed, args), nil
	}
}

// Option configures a Validator at construction.
type Option func(*Validator)

// Of sets the provider category the validator runs over.
// Without it the validator runs once on the root object.
func Of(category string) Option {
	return func(v *Validator) {
		v.of = Named(category)
	}
}

// OfCategory sets the category the validator runs over.
func OfCategory(c Category) Option {
	return func(v *Validator) {
		v.of = c
	}
}

// Requires declares extra-context keys passed to the validator in Args.
// Each argument may hold several space-separated keys.
func Requires(keys ...string) Option {
	return func(v *Validator) {
		for _, k := range keys {
			v.requires = append(v.requires, strings.Fields(k)...)
		}
	}
}

// Affects sets a tag copied into every finding the validator produces.
func Affects(tag string) Option {
	return func(v *Validator) {
		v.affects = tag
	}
}

// Validator is a validation function with its declared metadata.
// Validators are immutable once built and may be shared between runs.
type Validator struct {
	name     string
	fn       Func
	of       Category
	requires []string
	affects  string
}

// New creates a validator named name.
func New(name string, fn Func, opts ...Option) *Validator {
	v := &Validator{
		name: name,
		fn:   fn,
		of:   Root,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Name returns the validator name.
func (v *Validator) Name() string { return v.name }

// Category returns the category the validator runs over.
func (v *Validator) Category() Category { return v.of }

// Required returns the extra-context keys the validator requires.
func (v *Validator) Required() []string { return slices.Clone(v.requires) }

// AffectsTag returns the affects tag, or "".
func (v *Validator) AffectsTag() string { return v.affects }

// NormalizeFunc records a raw result for row at level, attaching extra.
// It reports whether the result was free of findings.
type NormalizeFunc func(res Result, level ledger.Level, extra Fields, row any) (bool, error)

// Invocation carries what a validator needs for one run.
type Invocation struct {
	Level        ledger.Level
	Resolver     *Resolver
	ExtraContext map[string]any
	Normalize    NormalizeFunc
}

// Run invokes the validator once per item of its category and hands each
// result to the normalizer. It reports whether every item was valid.
func (v *Validator) Run(inv Invocation) (bool, error) {
	args := make(Args, len(v.requires))
	for _, key := range v.requires {
		val, ok := inv.ExtraContext[key]
		if !ok {
			return false, &ContextNotAvailableError{Key: key, Validator: v.name}
		}
		args[key] = val
	}

	items, err := inv.Resolver.Items(v.of, v.name)
	if err != nil {
		return false, err
	}

	valid := true
	for _, it := range items {
		extra := maps.Clone(it.Extra)
		if v.affects != "" {
			if extra == nil {
				extra = Fields{}
			}
			extra[ledger.KeyAffects] = v.affects
		}

		res, err := v.fn(it.Value, args)
		if err != nil {
			return false, errors.Wrapf(err, "validator %q", v.name)
		}

		ok, err := inv.Normalize(res, inv.Level, extra, it.Value)
		if err != nil {
			return false, errors.Wrapf(err, "validator %q", v.name)
		}
		if !ok {
			valid = false
		}
	}
	return valid, nil
}
