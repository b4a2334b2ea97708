package api

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 1_000_000 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), v.Uint64())

	for _, bad := range []string{"", "-1", "1.5", "0x10", "abc"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestSecondsField(t *testing.T) {
	d, err := secondsField("cliff_seconds", 90)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = secondsField("cliff_seconds", maxDurationSeconds)
	require.NoError(t, err)
	assert.Positive(t, d)

	// 9223372037 * 1e9 wraps to a negative int64
	for _, bad := range []int64{maxDurationSeconds + 1, math.MaxInt64, math.MinInt64} {
		_, err := secondsField("duration_seconds", bad)
		assert.Error(t, err, bad)
	}
}
