package validate

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/lidator/pkg/ledger"
)

// Sentinel errors for validation wiring problems.
var (
	// ErrMissingProvider indicates a validator category with no registered provider.
	ErrMissingProvider = errors.New("missing provider")

	// ErrInvalidProviderOutput indicates a provider yielded a malformed item.
	ErrInvalidProviderOutput = errors.New("invalid provider output")

	// ErrContextNotAvailable indicates a required extra-context key was not supplied.
	ErrContextNotAvailable = errors.New("context not available")

	// ErrUnsupportedResultShape indicates a validator result the normalizer cannot interpret.
	ErrUnsupportedResultShape = errors.New("unsupported result shape")

	// ErrUnexpectedType indicates a typed validator or provider received a value of another type.
	ErrUnexpectedType = errors.New("unexpected type")

	// ErrNilValidator indicates a nil validator was registered.
	ErrNilValidator = errors.New("nil validator")

	// ErrInvalidMessageShape is re-exported from the ledger package.
	ErrInvalidMessageShape = ledger.ErrInvalidMessageShape

	// ErrUnknownLevel is re-exported from the ledger package.
	ErrUnknownLevel = ledger.ErrUnknownLevel
)

// MissingProviderError reports a category that has no provider.
type MissingProviderError struct {
	Category  string
	Validator string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("must add %q to providers for validator %q", e.Category, e.Validator)
}

func (e *MissingProviderError) Unwrap() error {
	return ErrMissingProvider
}

// ContextNotAvailableError reports a required extra-context key that was not supplied.
type ContextNotAvailableError struct {
	Key       string
	Validator string
}

func (e *ContextNotAvailableError) Error() string {
	return fmt.Sprintf("%s is not available in the validator context (required by %q)", e.Key, e.Validator)
}

func (e *ContextNotAvailableError) Unwrap() error {
	return ErrContextNotAvailable
}

// InvalidProviderOutputError reports a malformed item yielded by a provider.
type InvalidProviderOutputError struct {
	Category string
	Index    int
	Reason   string
}

func (e *InvalidProviderOutputError) Error() string {
	return fmt.Sprintf("provider %q item %d: %s", e.Category, e.Index, e.Reason)
}

func (e *InvalidProviderOutputError) Unwrap() error {
	return ErrInvalidProviderOutput
}
