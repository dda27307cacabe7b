package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRawEvents_Array(t *testing.T) {
	stdout := `[
		{"Subject": "Standup", "Start": "2026-08-24T09:00:00", "End": "2026-08-24T09:15:00"},
		{"Subject": "Review", "Start": "2026-08-24T14:00:00", "End": "2026-08-24T15:00:00"}
	]`

	records, err := decodeRawEvents(stdout)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Standup", records[0].Subject)
	assert.Equal(t, "Review", records[1].Subject)
}

func TestDecodeRawEvents_EmptyArray(t *testing.T) {
	records, err := decodeRawEvents("[]")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestDecodeRawEvents_SingleObject(t *testing.T) {
	// ConvertTo-Json unwraps one-element arrays into a bare object.
	stdout := `{"Subject": "1:1", "Start": "2026-08-24T10:00:00", "End": "2026-08-24T10:30:00"}`

	records, err := decodeRawEvents(stdout)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1:1", records[0].Subject)
}

func TestDecodeRawEvents_NullElements(t *testing.T) {
	// ConvertTo-Json @($null) renders an empty Restrict window as "[null]".
	records, err := decodeRawEvents("[\n null\n]")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)

	records, err = decodeRawEvents(`[null, {"Subject": "Standup", "Start": "2026-08-24T09:00:00", "End": "2026-08-24T09:15:00"}]`)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Standup", records[0].Subject)
}

func TestDecodeRawEvents_StripsBOM(t *testing.T) {
	stdout := "\ufeff" + `[{"Subject": "Planning", "Start": "2026-08-24T11:00:00", "End": "2026-08-24T12:00:00"}]`

	records, err := decodeRawEvents(stdout)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Planning", records[0].Subject)
}

func TestDecodeRawEvents_EmptyOutput(t *testing.T) {
	for _, stdout := range []string{"", "   ", "\n\n", "\ufeff"} {
		_, err := decodeRawEvents(stdout)
		require.Error(t, err, "stdout %q should be a parse failure", stdout)
	}
}

func TestDecodeRawEvents_Garbage(t *testing.T) {
	_, err := decodeRawEvents("Exception calling GetNamespace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON array")
}

func TestDecodeRawEvents_MalformedObject(t *testing.T) {
	_, err := decodeRawEvents(`{"Subject": `)
	require.Error(t, err)
}
