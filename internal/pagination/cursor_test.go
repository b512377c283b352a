package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	ts := time.Date(2025, 6, 15, 9, 30, 0, 123456789, time.UTC)

	encoded := EncodeCursor("guideline.pdf", ts)
	require.NotEmpty(t, encoded)

	cursor, err := DecodeCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, "guideline.pdf", cursor.LastID)
	assert.True(t, cursor.Timestamp.Equal(ts))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestDecodeCursor_Empty(t *testing.T) {
	cursor, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := []string{
		"!!not-base64",
		"bm8tc2VwYXJhdG9y",             // "no-separator"
		"Zm9vfG5vdC1hLXRpbWVzdGFtcA==", // "foo|not-a-timestamp"
	}

	for _, raw := range cases {
		_, err := DecodeCursor(raw)
		assert.ErrorIs(t, err, ErrInvalidCursor, raw)
	}
}
