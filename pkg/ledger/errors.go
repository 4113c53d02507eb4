package ledger

import "github.com/cockroachdb/errors"

// Sentinel errors returned when a record cannot be built or added.
var (
	// ErrInvalidMessageShape indicates a message that is neither a string
	// nor a single-field mapping.
	ErrInvalidMessageShape = errors.New("message must be a string or a single-field mapping")

	// ErrUnsupportedShape indicates a field mapping with more than one key.
	ErrUnsupportedShape = errors.New("multi-field mappings are not supported in a single record")

	// ErrUnknownLevel indicates a level outside the recognized set.
	ErrUnknownLevel = errors.New("unknown level")

	// ErrIncompleteRecord indicates a record without a level or a message.
	ErrIncompleteRecord = errors.New("record requires a level and a message")

	// ErrIncompatibleLedger indicates a merge with something that is not a ledger.
	ErrIncompatibleLedger = errors.New("can only merge with another ledger")
)
