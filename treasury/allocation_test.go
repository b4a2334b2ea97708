package treasury

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
)

func TestAllocateFunds(t *testing.T) {
	f := newFixture(t, 5_000)
	_, ch := f.bus.SubscribeSubject(events.AccountSubject(addr(70)))

	require.NoError(t, f.svc.AllocateFunds(f.treasurer, addr(70), uint256.NewInt(300), "marketing"))

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), pool.CategorySpend["marketing"].Uint64())
	assert.Equal(t, uint64(300), pool.PoolSupply.Uint64())
	assert.Equal(t, uint64(5_000), pool.ReserveFunds.Uint64(), "allocation does not draw on the reserve")
	assert.True(t, pool.CategorySpend["development"].IsZero())

	balance, err := f.svc.BalanceOf(addr(70))
	require.NoError(t, err)
	assert.Equal(t, uint64(300), balance.Uint64())

	assert.Equal(t, []events.EventType{events.EventFundsAllocated}, drain(ch))
}

func TestAllocateFundsRejections(t *testing.T) {
	f := newFixture(t, 0)

	err := f.svc.AllocateFunds(f.treasurer, addr(70), uint256.NewInt(0), "marketing")
	require.ErrorIs(t, err, ErrZeroAmount)
	assert.Equal(t, "Amount must be greater than 0", err.Error())

	err = f.svc.AllocateFunds(f.admin, addr(70), uint256.NewInt(1), "marketing")
	require.ErrorIs(t, err, ErrUnauthorized)

	err = f.svc.AllocateFunds(f.treasurer, addr(70), uint256.NewInt(1), "yachts")
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))

	maxAmount := new(uint256.Int).SetAllOne()
	require.NoError(t, f.svc.AllocateFunds(f.treasurer, addr(70), maxAmount, "community"))
	err = f.svc.AllocateFunds(f.treasurer, addr(71), uint256.NewInt(1), "community")
	require.ErrorIs(t, err, ErrAmountOverflow)

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, maxAmount, pool.PoolSupply)
}

// Every successful allocation grows its category and the supply by exactly
// the allocated amount.
func TestAllocationAccountingProperty(t *testing.T) {
	f := newFixture(t, 0)
	categories := f.svc.Categories()
	fz := fuzz.NewWithSeed(42).NilChance(0)

	expected := make(map[string]uint64)
	var total uint64
	for i := 0; i < 200; i++ {
		var amount uint32
		var pick uint8
		fz.Fuzz(&amount)
		fz.Fuzz(&pick)
		category := categories[int(pick)%len(categories)]

		err := f.svc.AllocateFunds(f.treasurer, addr(80), uint256.NewInt(uint64(amount)), category)
		if amount == 0 {
			require.ErrorIs(t, err, ErrZeroAmount)
			continue
		}
		require.NoError(t, err)
		expected[category] += uint64(amount)
		total += uint64(amount)
	}

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, total, pool.PoolSupply.Uint64())
	for _, c := range categories {
		assert.Equal(t, expected[c], pool.CategorySpend[c].Uint64(), c)
	}
}

func TestDepositReserve(t *testing.T) {
	f := newFixture(t, 10)

	pool, err := f.svc.DepositReserve(f.treasurer, uint256.NewInt(90))
	require.NoError(t, err)
	assert.Equal(t, uint64(100), pool.ReserveFunds.Uint64())

	_, err = f.svc.DepositReserve(f.trustees[0], uint256.NewInt(1))
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.svc.DepositReserve(f.admin, nil)
	require.ErrorIs(t, err, ErrZeroAmount)
}

func TestViewPoolDetailsIsASnapshot(t *testing.T) {
	f := newFixture(t, 10)

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	pool.ReserveFunds.SetUint64(999)
	pool.CategorySpend["marketing"].SetUint64(999)

	again, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), again.ReserveFunds.Uint64())
	assert.True(t, again.CategorySpend["marketing"].IsZero())
}
