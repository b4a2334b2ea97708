package treasury

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func (f *fixture) vest(t *testing.T, total uint64, revocable bool) uint64 {
	t.Helper()
	sched, err := f.svc.CreateVestingSchedule(f.treasurer, VestingParams{
		Beneficiary: addr(90),
		Total:       uint256.NewInt(total),
		Cliff:       30 * day,
		Duration:    120 * day,
		Revocable:   revocable,
	})
	require.NoError(t, err)
	return sched.ID
}

func TestVestingLifecycle(t *testing.T) {
	f := newFixture(t, 2_000)
	beneficiary := addr(90)

	id := f.vest(t, 1_200, false)
	require.Equal(t, uint64(1), id)

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, uint64(800), pool.ReserveFunds.Uint64())
	assert.Equal(t, uint64(1_200), pool.VestingLocked.Uint64())

	_, err = f.svc.ReleaseVested(beneficiary, id)
	require.ErrorIs(t, err, ErrNothingDue)

	f.clock.Advance(60 * day)
	_, err = f.svc.ReleaseVested(f.admin, id)
	require.ErrorIs(t, err, ErrUnauthorized)

	released, err := f.svc.ReleaseVested(beneficiary, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), released.Uint64())

	_, err = f.svc.ReleaseVested(beneficiary, id)
	require.ErrorIs(t, err, ErrNothingDue)

	f.clock.Advance(365 * day)
	released, err = f.svc.ReleaseVested(beneficiary, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), released.Uint64())

	balance, err := f.svc.BalanceOf(beneficiary)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_200), balance.Uint64())

	view, err := f.svc.GetVestingSchedule(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_200), view.Released.Uint64())
	assert.True(t, view.Releasable.IsZero())

	pool, err = f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.True(t, pool.VestingLocked.IsZero())

	_, err = f.svc.RevokeVesting(f.admin, id)
	require.ErrorIs(t, err, ErrNotRevocable)
}

func TestRevokeVestingReturnsUnvested(t *testing.T) {
	f := newFixture(t, 1_200)
	id := f.vest(t, 1_200, true)

	f.clock.Advance(60 * day)
	_, err := f.svc.RevokeVesting(f.trustees[0], id)
	require.ErrorIs(t, err, ErrUnauthorized)

	refunded, err := f.svc.RevokeVesting(f.admin, id)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), refunded.Uint64())

	_, err = f.svc.RevokeVesting(f.admin, id)
	require.ErrorIs(t, err, ErrAlreadyRevoked)

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, uint64(600), pool.ReserveFunds.Uint64())
	assert.Equal(t, uint64(600), pool.VestingLocked.Uint64())

	// what vested before revocation is still claimable, nothing more
	f.clock.Advance(365 * day)
	released, err := f.svc.ReleaseVested(addr(90), id)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), released.Uint64())

	pool, err = f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.True(t, pool.VestingLocked.IsZero())
}

func TestCreateVestingRejections(t *testing.T) {
	f := newFixture(t, 100)

	tests := []struct {
		name    string
		caller  int
		params  VestingParams
		wantErr error
	}{
		{"outsider", 0, VestingParams{Beneficiary: addr(90), Total: uint256.NewInt(1), Duration: day}, ErrUnauthorized},
		{"zero total", 1, VestingParams{Beneficiary: addr(90), Total: uint256.NewInt(0), Duration: day}, ErrZeroAmount},
		{"exceeds reserve", 1, VestingParams{Beneficiary: addr(90), Total: uint256.NewInt(101), Duration: day}, ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := f.outsider
			if tt.caller == 1 {
				caller = f.admin
			}
			_, err := f.svc.CreateVestingSchedule(caller, tt.params)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := f.svc.CreateVestingSchedule(f.admin, VestingParams{Beneficiary: addr(90), Total: uint256.NewInt(1), Cliff: 2 * day, Duration: day})
	require.Error(t, err)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))

	_, err = f.svc.GetVestingSchedule(7)
	require.ErrorIs(t, err, ErrScheduleNotFound)
}
