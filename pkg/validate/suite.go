package validate

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/lidator/pkg/ledger"
)

// Suite holds validators grouped by level. Levels run in the order they
// were first registered.
type Suite struct {
	order   []ledger.Level
	byLevel map[ledger.Level][]*Validator
}

// NewSuite creates an empty suite.
func NewSuite() *Suite {
	return &Suite{byLevel: make(map[ledger.Level][]*Validator)}
}

// Register adds validators at level. Unknown levels are rejected.
func (s *Suite) Register(level ledger.Level, vs ...*Validator) error {
	if !level.Valid() {
		return errors.Wrapf(ErrUnknownLevel, "level %q is not recognized", level)
	}
	for i, v := range vs {
		if v == nil {
			return errors.Wrapf(ErrNilValidator, "level %s, position %d", level, i)
		}
	}

	if _, ok := s.byLevel[level]; !ok {
		s.order = append(s.order, level)
	}
	s.byLevel[level] = append(s.byLevel[level], vs...)
	return nil
}

// MustRegister is like Register but panics on error. It suits suites
// assembled at package initialization.
func (s *Suite) MustRegister(level ledger.Level, vs ...*Validator) *Suite {
	if err := s.Register(level, vs...); err != nil {
		panic(err)
	}
	return s
}

// Levels returns the registered levels in run order.
func (s *Suite) Levels() []ledger.Level {
	return slices.Clone(s.order)
}

// Validators returns the validators at level, without repeats, in
// registration order.
func (s *Suite) Validators(level ledger.Level) []*Validator {
	var res []*Validator
	seen := make(map[*Validator]struct{})
	for _, v := range s.byLevel[level] {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}

// Len returns the number of distinct validator registrations across levels.
func (s *Suite) Len() int {
	n := 0
	for _, level := range s.order {
		n += len(s.Validators(level))
	}
	return n
}
