package validate

import (
	"iter"
	"maps"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/lidator/pkg/ledger"
)

// Fields holds extra key/value pairs attached to findings.
type Fields = ledger.Fields

// ProviderFunc expands the root object into the items a category covers.
// Each item may carry extra fields (a description, for instance) that are
// copied into every finding reported for it.
type ProviderFunc func(root any) (iter.Seq2[any, Fields], error)

// Providers maps category names to the provider serving them.
type Providers map[string]ProviderFunc

// Item is one provided object with its extra fields.
type Item struct {
	Value any
	Extra Fields
}

// Resolver serves provider items for one validation run, evaluating each
// provider at most once.
type Resolver struct {
	root      any
	providers Providers
	cache     map[Category][]Item
}

// NewResolver creates a resolver for root backed by providers.
func NewResolver(root any, providers Providers) *Resolver {
	return &Resolver{
		root:      root,
		providers: providers,
		cache:     make(map[Category][]Item),
	}
}

// Items returns the items for cat. The requester names the validator asking,
// for error reporting.
func (r *Resolver) Items(cat Category, requester string) ([]Item, error) {
	if items, ok := r.cache[cat]; ok {
		return items, nil
	}

	if cat.IsRoot() {
		items := []Item{{Value: r.root}}
		r.cache[cat] = items
		return items, nil
	}

	provide, ok := r.providers[cat.Name()]
	if !ok || provide == nil {
		return nil, &MissingProviderError{Category: cat.Name(), Validator: requester}
	}

	seq, err := provide(r.root)
	if err != nil {
		return nil, errors.Wrapf(err, "provider %q", cat.Name())
	}

	items := []Item{}
	if seq != nil {
		i := 0
		for value, extra := range seq {
			for k := range extra {
				if ledger.IsReserved(k) {
					return nil, &InvalidProviderOutputError{
						Category: cat.Name(),
						Index:    i,
						Reason:   "extra fields may not set reserved key " + k,
					}
				}
			}
			items = append(items, Item{Value: value, Extra: maps.Clone(extra)})
			i++
		}
	}

	r.cache[cat] = items
	return items, nil
}

// Expand adapts a typed generator into a ProviderFunc. A root of another
// type fails with ErrUnexpectedType.
func Expand[T any](fn func(root T) iter.Seq2[any, Fields]) ProviderFunc {
	return func(root any) (iter.Seq2[any, Fields], error) {
		typed, ok := root.(T)
		if !ok {
			var zero T
			return nil, errors.Wrapf(ErrUnexpectedType, "provider expects %T, got %T", zero, root)
		}
		return fn(typed), nil
	}
}

// Each provides the elements of a slice taken from the root. When describe
// is non-nil it supplies the extra fields of each element.
func Each[T, E any](items func(root T) []E, describe func(i int, item E) Fields) ProviderFunc {
	return Expand(func(root T) iter.Seq2[any, Fields] {
		return func(yield func(any, Fields) bool) {
			for i, item := range items(root) {
				var extra Fields
				if describe != nil {
					extra = describe(i, item)
				}
				if !yield(item, extra) {
					return
				}
			}
		}
	})
}
