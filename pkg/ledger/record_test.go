package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSON(t *testing.T) {
	r := Record{
		Level:       LevelError,
		Message:     "Name: is required",
		Field:       "name",
		VerboseName: "Name",
		Extra:       Fields{KeyDescription: "Child 0"},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"level": "ERROR",
		"message": "Name: is required",
		"field": "name",
		"verbose_name": "Name",
		"description": "Child 0"
	}`, string(data))

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, r.Equal(decoded))
}

func TestRecord_MarshalJSON_OmitsEmptyField(t *testing.T) {
	data, err := json.Marshal(Record{Level: LevelWarn, Message: "stale"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level": "WARN", "message": "stale"}`, string(data))
}

func TestRecord_Get(t *testing.T) {
	r := Record{Level: LevelWarn, Message: "m", Extra: Fields{KeyAffects: "email"}}

	v, ok := r.Get(KeyLevel)
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, v)

	_, ok = r.Get(KeyField)
	assert.False(t, ok)

	v, ok = r.Get(KeyAffects)
	assert.True(t, ok)
	assert.Equal(t, "email", v)
}

func TestRecord_Equal(t *testing.T) {
	a := Record{Level: LevelError, Message: "m", Extra: Fields{"n": 1}}
	b := Record{Level: LevelError, Message: "m", Extra: Fields{"n": 1}}
	c := Record{Level: LevelError, Message: "m", Extra: Fields{"n": 2}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestIsReserved(t *testing.T) {
	for _, k := range []string{KeyLevel, KeyMessage, KeyField, KeyVerboseName} {
		assert.True(t, IsReserved(k), k)
	}
	assert.False(t, IsReserved(KeyDescription))
}
