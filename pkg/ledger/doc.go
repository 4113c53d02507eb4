// Package ledger records the findings of a validation run.
//
// A [Ledger] is an append-only, leveled collection of [Record] values. Each
// record carries a [Level], a display-ready message, an optional field name
// with its humanized form, and any extra fields the caller attached (a
// description, the affected attribute, the validation type).
//
// # Core Concepts
//
//   - [Level]: ERROR findings make the ledger invalid, WARN findings do not.
//   - [Record]: a single finding. Encodes to JSON as one flat object.
//   - [Ledger]: the ordered log of records plus validity and counts.
//   - [Reporter]: renders a ledger as text, JSON, plain lines, or grouped by field.
//
// # Basic Usage
//
//	l := ledger.New(ledger.WithDefaults(ledger.Fields{"validation_type": "intake"}))
//	if err := l.AddMessage("name is required", ledger.LevelError, nil); err != nil {
//		return err // malformed message, not a finding
//	}
//	if !l.IsValid() {
//		fmt.Println(ledger.Format(l))
//	}
//
// # Concurrency
//
// A Ledger is not safe for concurrent mutation. Runs executing in parallel
// must use their own ledgers and may combine them afterwards with [Merge].
package ledger
