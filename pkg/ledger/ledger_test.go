package ledger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_CreateRecord(t *testing.T) {
	l := New()

	tests := []struct {
		name    string
		message any
		want    Record
		wantErr error
	}{
		{
			name:    "string message",
			message: "failed.",
			want:    Record{Level: LevelError, Message: "failed."},
		},
		{
			name:    "single field map",
			message: map[string]string{"name": "is required"},
			want:    Record{Level: LevelError, Message: "is required", Field: "name"},
		},
		{
			name:    "single field any map",
			message: map[string]any{"age": 12},
			want:    Record{Level: LevelError, Message: "12", Field: "age"},
		},
		{
			name:    "multi field map",
			message: map[string]string{"a": "x", "b": "y"},
			wantErr: ErrUnsupportedShape,
		},
		{
			name:    "empty map",
			message: map[string]string{},
			wantErr: ErrInvalidMessageShape,
		},
		{
			name:    "unsupported type",
			message: 42,
			wantErr: ErrInvalidMessageShape,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.CreateRecord(tt.message, LevelError, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLedger_AddObject_MergesDefaults(t *testing.T) {
	l := New(WithDefaults(Fields{KeyValidationType: "intake", KeyDescription: "default"}))

	require.NoError(t, l.AddMessage("bad", LevelError, Fields{KeyDescription: "Child 0"}))

	got := l.FullResults()
	require.Len(t, got, 1)
	assert.Equal(t, Fields{KeyValidationType: "intake", KeyDescription: "Child 0"}, got[0].Extra)
}

func TestLedger_AddObject_Rejects(t *testing.T) {
	l := New()

	err := l.AddObject(Record{Level: LevelError})
	require.ErrorIs(t, err, ErrIncompleteRecord)

	err = l.AddObject(Record{Message: "m"})
	require.ErrorIs(t, err, ErrIncompleteRecord)

	err = l.AddObject(Record{Level: "INFO", Message: "m"})
	require.ErrorIs(t, err, ErrUnknownLevel)

	assert.Equal(t, 0, l.Len())
	assert.True(t, l.IsValid())
}

func TestLedger_Validity(t *testing.T) {
	l := New()
	assert.True(t, l.IsValid())

	require.NoError(t, l.AddMessage("careful", LevelWarn, nil))
	assert.True(t, l.IsValid(), "warnings must not affect validity")
	assert.Equal(t, 1, l.WarningCount())

	require.NoError(t, l.AddMessage("broken", LevelError, nil))
	assert.False(t, l.IsValid())
	assert.Equal(t, 1, l.ErrorCount())
}

func TestLedger_ErrorsUnique(t *testing.T) {
	l := New()
	require.NoError(t, l.AddMessage("dup", LevelError, nil))
	require.NoError(t, l.AddMessage("other", LevelError, nil))
	require.NoError(t, l.AddMessage("dup", LevelError, nil))
	require.NoError(t, l.AddMessage("dup", LevelError, Fields{KeyDescription: "Child 1"}))
	require.NoError(t, l.AddMessage("warn", LevelWarn, nil))
	require.NoError(t, l.AddMessage("warn", LevelWarn, nil))

	assert.Len(t, l.Errors(false), 4)

	unique := l.Errors(true)
	require.Len(t, unique, 3)
	assert.Equal(t, "dup", unique[0].Message)
	assert.Equal(t, "other", unique[1].Message)
	assert.Equal(t, "dup", unique[2].Message)

	again := l.Errors(true)
	assert.Equal(t, unique, again, "unique read must be idempotent")
	assert.Equal(t, 4, l.ErrorCount(), "reads must not rewrite the running count")

	assert.Len(t, l.Warnings(true), 1)
	assert.Len(t, l.Warnings(false), 2)
}

func TestLedger_Messages(t *testing.T) {
	l := New()
	require.NoError(t, l.AddMessage("b", LevelError, nil))
	require.NoError(t, l.AddMessage("a", LevelError, Fields{KeyDescription: "x"}))
	require.NoError(t, l.AddMessage("b", LevelError, Fields{KeyDescription: "y"}))
	require.NoError(t, l.AddMessage("w", LevelWarn, nil))

	assert.Equal(t, []string{"b", "a"}, l.ErrorMessages())
	assert.Equal(t, []string{"w"}, l.WarningMessages())
	assert.Equal(t, []string{"(no description) b", "x a", "y b"}, l.DescriptiveErrorMessages())
}

func TestLedger_FullResultsIsACopy(t *testing.T) {
	l := New()
	require.NoError(t, l.AddMessage("m", LevelError, Fields{KeyAffects: "name"}))

	got := l.FullResults()
	got[0].Message = "changed"
	got[0].Extra[KeyAffects] = "other"

	again := l.FullResults()
	assert.Equal(t, "m", again[0].Message)
	assert.Equal(t, "name", again[0].Extra[KeyAffects])
}

func TestLedger_GroupedByLevelAndField(t *testing.T) {
	l := New()
	require.NoError(t, l.AddObject(Record{
		Level: LevelError, Message: "First Name: is required", Field: "first_name", VerboseName: "First Name",
	}))
	require.NoError(t, l.AddObject(Record{
		Level: LevelError, Message: "First Name: too short", Field: "first_name", VerboseName: "First Name",
	}))
	require.NoError(t, l.AddMessage("general failure", LevelError, nil))
	require.NoError(t, l.AddObject(Record{
		Level: LevelWarn, Message: "looks odd", Field: "email", VerboseName: "Email",
	}))

	want := map[Level]map[string][]string{
		LevelError: {
			"first_name":   {"is required", "too short"},
			NonFieldErrors: {"general failure"},
		},
		LevelWarn: {
			"email": {"looks odd"},
		},
	}
	assert.Equal(t, want, l.GroupedByLevelAndField())
}

func TestLedger_LogsDistinctMessagesOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l := New(WithLogger(logger))
	require.NoError(t, l.AddMessage("same", LevelWarn, nil))
	require.NoError(t, l.AddMessage("same", LevelWarn, Fields{KeyDescription: "other row"}))
	require.NoError(t, l.AddMessage("same", LevelError, nil))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "WARN same"))
	assert.Equal(t, 1, strings.Count(out, "ERROR same"))
	assert.Equal(t, 3, l.Len(), "dedup applies to diagnostics, not records")
}

func TestLedger_MergeWith(t *testing.T) {
	a := New()
	require.NoError(t, a.AddMessage("a1", LevelWarn, nil))

	b := New()
	require.NoError(t, b.AddMessage("b1", LevelError, nil))
	require.NoError(t, b.AddMessage("b2", LevelWarn, nil))

	merged, err := a.MergeWith(b)
	require.NoError(t, err)

	assert.False(t, merged.IsValid())
	assert.Equal(t, []string{"a1", "b1", "b2"}, messagesOf(merged.FullResults()))
	assert.Equal(t, 1, merged.ErrorCount())
	assert.Equal(t, 2, merged.WarningCount())

	assert.True(t, a.IsValid(), "inputs are left untouched")
	assert.Equal(t, 1, a.Len())

	_, err = a.MergeWith(nil)
	require.ErrorIs(t, err, ErrIncompatibleLedger)
}

func TestMerge_AssociativeAndCommutativeValidity(t *testing.T) {
	mk := func(level Level, msg string) *Ledger {
		l := New()
		require.NoError(t, l.AddMessage(msg, level, nil))
		return l
	}
	a, b, c := mk(LevelWarn, "a"), mk(LevelError, "b"), mk(LevelWarn, "c")

	left, err := Merge(a, b)
	require.NoError(t, err)
	left, err = Merge(left, c)
	require.NoError(t, err)

	right, err := Merge(b, c)
	require.NoError(t, err)
	right, err = Merge(a, right)
	require.NoError(t, err)

	assert.Equal(t, left.IsValid(), right.IsValid())
	assert.Equal(t, messagesOf(left.FullResults()), messagesOf(right.FullResults()))

	swapped, err := Merge(c, b, a)
	require.NoError(t, err)
	assert.Equal(t, left.IsValid(), swapped.IsValid())
	assert.ElementsMatch(t, messagesOf(left.FullResults()), messagesOf(swapped.FullResults()))

	empty, err := Merge()
	require.NoError(t, err)
	assert.True(t, empty.IsValid())
}

func messagesOf(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}
