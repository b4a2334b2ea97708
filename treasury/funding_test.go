package treasury

import (
	"errors"
	"sync"
	"testing"
	"time"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

func TestFundingQuorumScenario(t *testing.T) {
	f := newFixture(t, 10_000)
	_, ch := f.bus.Subscribe()

	id := f.request(t, 2_500)
	require.Equal(t, uint64(1), id)

	view, err := f.svc.GetFundingRequest(id)
	require.NoError(t, err)
	assert.Equal(t, types.RequestPending, view.Status)
	assert.Equal(t, 3, view.Required)

	for i, trustee := range f.trustees[:2] {
		view, err = f.svc.ApproveFundingRequest(trustee, id)
		require.NoError(t, err)
		assert.Equal(t, i+1, view.ApprovalCount)
		assert.Equal(t, types.RequestPartiallyApproved, view.Status)
		assert.False(t, view.Executed)
	}

	view, err = f.svc.ApproveFundingRequest(f.trustees[2], id)
	require.NoError(t, err)
	assert.True(t, view.Executed)
	assert.Equal(t, types.RequestExecuted, view.Status)
	require.NotNil(t, view.ExecutedAt)
	assert.ElementsMatch(t, f.trustees[:3], view.Approvers)

	_, err = f.svc.ApproveFundingRequest(f.trustees[3], id)
	require.ErrorIs(t, err, ErrAlreadyExecuted)
	assert.Equal(t, "Request already executed", err.Error())

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, uint64(7_500), pool.ReserveFunds.Uint64())
	assert.Equal(t, uint64(2_500), pool.ExecutedFunding.Uint64())

	balance, err := f.svc.BalanceOf(addr(50))
	require.NoError(t, err)
	assert.Equal(t, uint64(2_500), balance.Uint64())

	assert.Equal(t, []events.EventType{
		events.EventFundingRequested,
		events.EventFundingApproved,
		events.EventFundingApproved,
		events.EventFundingApproved,
		events.EventFundingExecuted,
	}, drain(ch))
}

func TestRequestFundingValidation(t *testing.T) {
	f := newFixture(t, 0)

	tests := []struct {
		name      string
		recipient common.Address
		amount    *uint256.Int
		purpose   string
		wantErr   error
	}{
		{"zero amount", addr(50), uint256.NewInt(0), "x", ErrZeroAmount},
		{"nil amount", addr(50), nil, "x", ErrZeroAmount},
		{"missing recipient", "", uint256.NewInt(1), "x", ErrInvalidAddress},
		{"purpose too long", addr(50), uint256.NewInt(1), string(make([]byte, MaxPurposeLength+1)), ErrPurposeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RequestFunding(f.outsider, tt.recipient, tt.amount, tt.purpose)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// rejected requests do not consume ids
	assert.Equal(t, uint64(1), f.request(t, 1))
	assert.Equal(t, uint64(2), f.request(t, 1))
}

func TestApproveRejections(t *testing.T) {
	f := newFixture(t, 10_000)
	id := f.request(t, 100)

	_, err := f.svc.ApproveFundingRequest(f.outsider, id)
	require.ErrorIs(t, err, ErrUnauthorized)
	var authErr *AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, RoleTrustee, authErr.Role)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))

	_, err = f.svc.ApproveFundingRequest(f.trustees[0], 42)
	require.ErrorIs(t, err, ErrRequestNotFound)

	_, err = f.svc.ApproveFundingRequest(f.trustees[0], id)
	require.NoError(t, err)
	_, err = f.svc.ApproveFundingRequest(f.trustees[0], id)
	require.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, CodeConflict, CodeOf(err))

	view, err := f.svc.GetFundingRequest(id)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ApprovalCount)
}

func TestFundingExpiryBoundary(t *testing.T) {
	f := newFixture(t, 10_000)
	id := f.request(t, 100)

	f.clock.Advance(DefaultExpiryWindow)
	_, err := f.svc.ApproveFundingRequest(f.trustees[0], id)
	require.NoError(t, err, "request is still open at exactly the window")

	f.clock.Advance(time.Second)
	_, err = f.svc.ApproveFundingRequest(f.trustees[1], id)
	require.ErrorIs(t, err, ErrRequestExpired)
	assert.Equal(t, CodeExpired, CodeOf(err))

	// a repeated vote is reported before expiry
	_, err = f.svc.ApproveFundingRequest(f.trustees[0], id)
	require.ErrorIs(t, err, ErrAlreadyVoted)

	view, err := f.svc.GetFundingRequest(id)
	require.NoError(t, err)
	assert.Equal(t, types.RequestExpired, view.Status)
	assert.Equal(t, 1, view.ApprovalCount)
}

func TestExecutedRequestReportsExecutedAfterWindow(t *testing.T) {
	f := newFixture(t, 10_000)
	id := f.request(t, 100)
	for _, trustee := range f.trustees[:3] {
		_, err := f.svc.ApproveFundingRequest(trustee, id)
		require.NoError(t, err)
	}

	f.clock.Advance(2 * DefaultExpiryWindow)
	_, err := f.svc.ApproveFundingRequest(f.trustees[4], id)
	require.ErrorIs(t, err, ErrAlreadyExecuted)

	view, err := f.svc.GetFundingRequest(id)
	require.NoError(t, err)
	assert.Equal(t, types.RequestExecuted, view.Status)
}

func TestInsufficientReserveRejectsDecidingVote(t *testing.T) {
	f := newFixture(t, 100)
	id := f.request(t, 500)

	for _, trustee := range f.trustees[:2] {
		_, err := f.svc.ApproveFundingRequest(trustee, id)
		require.NoError(t, err)
	}

	_, err := f.svc.ApproveFundingRequest(f.trustees[2], id)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	voted, err := f.store.HasApproval(id, f.trustees[2])
	require.NoError(t, err)
	assert.False(t, voted)
	view, err := f.svc.GetFundingRequest(id)
	require.NoError(t, err)
	assert.Equal(t, 2, view.ApprovalCount)
	assert.False(t, view.Executed)

	_, err = f.svc.DepositReserve(f.admin, uint256.NewInt(1_000))
	require.NoError(t, err)

	view, err = f.svc.ApproveFundingRequest(f.trustees[2], id)
	require.NoError(t, err)
	assert.True(t, view.Executed)

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, uint64(600), pool.ReserveFunds.Uint64())
}

func TestFractionQuorum(t *testing.T) {
	f := newFixture(t, 10_000, WithQuorumPolicy(FractionQuorum{Num: 2, Den: 3}))
	id := f.request(t, 100)

	// ceil(5 * 2 / 3) = 4
	for _, trustee := range f.trustees[:3] {
		view, err := f.svc.ApproveFundingRequest(trustee, id)
		require.NoError(t, err)
		assert.False(t, view.Executed)
		assert.Equal(t, 4, view.Required)
	}
	view, err := f.svc.ApproveFundingRequest(f.trustees[3], id)
	require.NoError(t, err)
	assert.True(t, view.Executed)
}

func TestQuorumIsFrozenWhenRequestOpens(t *testing.T) {
	f := newFixture(t, 10_000, WithQuorumPolicy(FractionQuorum{Num: 2, Den: 3}))
	id := f.request(t, 100)

	// ceil(5 * 2 / 3) = 4 at creation
	for _, trustee := range f.trustees[:3] {
		_, err := f.svc.ApproveFundingRequest(trustee, id)
		require.NoError(t, err)
	}
	for _, trustee := range f.trustees[3:] {
		require.NoError(t, f.svc.RevokeTrustee(f.admin, trustee))
	}
	require.Equal(t, 2, f.svc.QuorumPolicy().Required(3))

	view, err := f.svc.GetFundingRequest(id)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Required)
	assert.Equal(t, 3, view.ApprovalCount)
	assert.Equal(t, types.RequestPartiallyApproved, view.Status)
	assert.False(t, view.Executed)

	all, err := f.svc.ListFundingRequests("")
	require.NoError(t, err)
	for _, v := range all {
		if v.Status == types.RequestPartiallyApproved || v.Status == types.RequestPending {
			assert.Less(t, v.ApprovalCount, v.Required, "open request %d at quorum", v.ID)
		}
	}

	// requests opened after the revocations use the smaller trustee set
	next := f.request(t, 100)
	view, err = f.svc.ApproveFundingRequest(f.trustees[0], next)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Required)
	assert.False(t, view.Executed)
	view, err = f.svc.ApproveFundingRequest(f.trustees[1], next)
	require.NoError(t, err)
	assert.True(t, view.Executed)
}

func TestQuorumSurvivesTrusteeGrowth(t *testing.T) {
	f := newFixture(t, 10_000, WithQuorumPolicy(FractionQuorum{Num: 1, Den: 2}))
	// ceil(5 / 2) = 3
	id := f.request(t, 100)

	for n := byte(0); n < 5; n++ {
		require.NoError(t, f.svc.AddTrustee(f.admin, addr(30+n)))
	}

	for _, trustee := range f.trustees[:2] {
		_, err := f.svc.ApproveFundingRequest(trustee, id)
		require.NoError(t, err)
	}
	view, err := f.svc.ApproveFundingRequest(f.trustees[2], id)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Required)
	assert.True(t, view.Executed)
}

func TestSweepExpired(t *testing.T) {
	f := newFixture(t, 10_000)
	_, ch := f.bus.SubscribeTypes(events.EventFundingExpired)

	stale := f.request(t, 100)
	done := f.request(t, 100)
	for _, trustee := range f.trustees[:3] {
		_, err := f.svc.ApproveFundingRequest(trustee, done)
		require.NoError(t, err)
	}

	f.clock.Advance(DefaultExpiryWindow / 2)
	fresh := f.request(t, 100)
	f.clock.Advance(DefaultExpiryWindow/2 + time.Hour)

	n, err := f.svc.SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []events.EventType{events.EventFundingExpired}, drain(ch))

	n, err = f.svc.SweepExpired()
	require.NoError(t, err)
	assert.Zero(t, n)

	expired, err := f.svc.ListFundingRequests(types.RequestExpired)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale, expired[0].ID)

	pending, err := f.svc.ListFundingRequests(types.RequestPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, fresh, pending[0].ID)

	all, err := f.svc.ListFundingRequests("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRevokedTrusteeApprovalStillCounts(t *testing.T) {
	f := newFixture(t, 10_000)
	id := f.request(t, 100)

	_, err := f.svc.ApproveFundingRequest(f.trustees[0], id)
	require.NoError(t, err)
	require.NoError(t, f.svc.RevokeTrustee(f.admin, f.trustees[0]))

	_, err = f.svc.ApproveFundingRequest(f.trustees[0], id)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.ApproveFundingRequest(f.trustees[1], id)
	require.NoError(t, err)
	view, err := f.svc.ApproveFundingRequest(f.trustees[2], id)
	require.NoError(t, err)
	assert.True(t, view.Executed)
}

// Random approval sequences never record a trustee twice, never exceed the
// quorum, and execute exactly when the quorum is reached.
func TestApprovalSetProperties(t *testing.T) {
	fz := fuzz.NewWithSeed(7).NilChance(0).NumElements(1, 20)

	for round := 0; round < 50; round++ {
		var picks []uint8
		fz.Fuzz(&picks)

		f := newFixture(t, 1_000_000)
		id := f.request(t, 1_000)
		seen := make(map[common.Address]bool)

		for _, p := range picks {
			trustee := f.trustees[int(p)%len(f.trustees)]
			_, err := f.svc.ApproveFundingRequest(trustee, id)

			switch {
			case len(seen) >= 3:
				require.ErrorIs(t, err, ErrAlreadyExecuted)
			case seen[trustee]:
				require.ErrorIs(t, err, ErrAlreadyVoted)
			default:
				require.NoError(t, err)
				seen[trustee] = true
			}
		}

		view, err := f.svc.GetFundingRequest(id)
		require.NoError(t, err)
		assert.Equal(t, len(seen), view.ApprovalCount)
		assert.Len(t, view.Approvers, len(seen))
		assert.LessOrEqual(t, view.ApprovalCount, 3)
		assert.Equal(t, len(seen) == 3, view.Executed)
	}
}

func TestConcurrentApprovalsExecuteOnce(t *testing.T) {
	f := newFixture(t, 10_000)
	id := f.request(t, 1_000)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		executed  int
	)
	for _, trustee := range f.trustees {
		wg.Add(1)
		go func(trustee common.Address) {
			defer wg.Done()
			_, err := f.svc.ApproveFundingRequest(trustee, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyExecuted):
				executed++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(trustee)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 2, executed)

	pool, err := f.svc.ViewPoolDetails()
	require.NoError(t, err)
	assert.Equal(t, uint64(9_000), pool.ReserveFunds.Uint64())
}
