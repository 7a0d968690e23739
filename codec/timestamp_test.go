package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typemix/codec"
)

func TestTimestamp_RoundTrip(t *testing.T) {
	var ts codec.Timestamp
	require.NoError(t, ts.FromSymbol("2025-01-01T09:00:00+09:00"))
	assert.True(t, ts.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01-01T00:00:00Z", ts.ToSymbol())
}

func TestTimestamp_UnixSeconds(t *testing.T) {
	var ts codec.Timestamp
	require.NoError(t, ts.FromSymbol(int64(1735689600)))
	assert.Equal(t, "2025-01-01T00:00:00Z", ts.ToSymbol())

	require.NoError(t, ts.FromSymbol(1735689600.5))
	assert.Equal(t, "2025-01-01T00:00:00.5Z", ts.ToSymbol())
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts codec.Timestamp
	assert.Error(t, ts.FromSymbol("yesterday"))
	assert.Error(t, ts.FromSymbol(true))
}

func TestDate(t *testing.T) {
	var d codec.Date
	require.NoError(t, d.FromSymbol("2024-02-29"))
	assert.Equal(t, "2024-02-29", d.ToSymbol())
	assert.Error(t, d.FromSymbol("2023-02-29"))
	assert.Error(t, d.FromSymbol(20240229))
	assert.Equal(t, "2025-03-04", codec.Date{Time: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)}.ToSymbol())
}
