package vesting

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

var beneficiary = common.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func newTestSchedule(t *testing.T, revocable bool) (*Schedule, time.Time) {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewSchedule(beneficiary, uint256.NewInt(1200), start, 30*24*time.Hour, 120*24*time.Hour, revocable)
	require.NoError(t, err)
	return s, start
}

func TestNewScheduleValidation(t *testing.T) {
	start := time.Now()
	tests := []struct {
		name     string
		addr     common.Address
		total    *uint256.Int
		cliff    time.Duration
		duration time.Duration
		wantErr  error
	}{
		{"zero beneficiary", "", uint256.NewInt(1), 0, time.Hour, ErrZeroBeneficiary},
		{"zero total", beneficiary, uint256.NewInt(0), 0, time.Hour, ErrZeroTotal},
		{"nil total", beneficiary, nil, 0, time.Hour, ErrZeroTotal},
		{"zero duration", beneficiary, uint256.NewInt(1), 0, 0, ErrZeroDuration},
		{"cliff after end", beneficiary, uint256.NewInt(1), 2 * time.Hour, time.Hour, ErrCliffAfterEnd},
		{"valid", beneficiary, uint256.NewInt(1), time.Hour, time.Hour, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(tt.addr, tt.total, start, tt.cliff, tt.duration, false)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVestedAmount(t *testing.T) {
	s, start := newTestSchedule(t, false)
	day := 24 * time.Hour

	tests := []struct {
		name string
		at   time.Time
		want uint64
	}{
		{"before start", start.Add(-day), 0},
		{"just before cliff", start.Add(30*day - time.Second), 0},
		{"at cliff", start.Add(30 * day), 300},
		{"halfway", start.Add(60 * day), 600},
		{"at end", start.Add(120 * day), 1200},
		{"long after end", start.Add(365 * day), 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.VestedAmount(tt.at).Uint64())
		})
	}
}

func TestReleasableTracksReleased(t *testing.T) {
	s, start := newTestSchedule(t, false)
	at := start.Add(60 * 24 * time.Hour)

	assert.Equal(t, uint64(600), s.Releasable(at).Uint64())

	s.Released = uint256.NewInt(600)
	assert.True(t, s.Releasable(at).IsZero())
	assert.Equal(t, uint64(600), s.Releasable(s.End()).Uint64())
}

func TestRevokedScheduleFreezes(t *testing.T) {
	s, start := newTestSchedule(t, true)
	revokedAt := start.Add(60 * 24 * time.Hour)
	s.Revoked = true
	s.RevokedAt = &revokedAt

	assert.Equal(t, uint64(600), s.VestedAmount(s.End()).Uint64())
	assert.Equal(t, uint64(600), s.Unvested(s.End()).Uint64())
}

func TestVestedAmountMonotonic(t *testing.T) {
	s, start := newTestSchedule(t, false)
	prev := uint256.NewInt(0)
	for h := 0; h <= 130*24; h += 7 {
		v := s.VestedAmount(start.Add(time.Duration(h) * time.Hour))
		require.True(t, v.Cmp(prev) >= 0, "vesting decreased at hour %d", h)
		require.True(t, v.Cmp(s.Total) <= 0)
		prev = v
	}
}
