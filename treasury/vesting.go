package treasury

import (
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/db"
	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/monitoring"
	"github.com/abya-university/ABYA-Ecosystem-sub001/store"
	"github.com/abya-university/ABYA-Ecosystem-sub001/vesting"
)

type VestingParams struct {
	Beneficiary common.Address
	Total       *uint256.Int
	// Start defaults to now when zero
	Start     time.Time
	Cliff     time.Duration
	Duration  time.Duration
	Revocable bool
}

// VestingView is a schedule with its amounts evaluated at a point in time
type VestingView struct {
	*vesting.Schedule
	Vested     *uint256.Int `json:"vested"`
	Releasable *uint256.Int `json:"releasable"`
	End        time.Time    `json:"end"`
}

// CreateVestingSchedule locks Total out of the reserve for the beneficiary
func (s *Service) CreateVestingSchedule(caller common.Address, p VestingParams) (sched *vesting.Schedule, err error) {
	defer s.observe("create_vesting", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapManageVesting); err != nil {
		return nil, err
	}
	if p.Total == nil || p.Total.IsZero() {
		return nil, ErrZeroAmount
	}
	start := p.Start
	if start.IsZero() {
		start = s.clock.Now()
	}
	sched, err = vesting.NewSchedule(p.Beneficiary, new(uint256.Int).Set(p.Total), start, p.Cliff, p.Duration, p.Revocable)
	if err != nil {
		return nil, invalidArgument("%s", err.Error())
	}

	pool, err := s.loadPool()
	if err != nil {
		return nil, err
	}
	if pool.ReserveFunds.Lt(sched.Total) {
		return nil, ErrInsufficientFunds
	}
	locked, err := addChecked(pool.VestingLocked, sched.Total)
	if err != nil {
		return nil, err
	}
	pool.VestingLocked = locked
	pool.ReserveFunds = new(uint256.Int).Sub(pool.ReserveFunds, sched.Total)

	id, err := s.store.NextVestingID()
	if err != nil {
		return nil, err
	}
	sched.ID = id

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		s.store.PutNextVestingID(batch, id+1)
		if err := s.store.PutVestingSchedule(batch, sched); err != nil {
			return err
		}
		return s.store.PutPoolState(batch, pool)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store vesting schedule: %w", err)
	}

	s.publish(events.NewVestingCreated(id, sched.Beneficiary, sched.Total, s.clock.Now()))
	monitoring.SetReserveFunds(pool.ReserveFunds)
	logx.Info("TREASURY", fmt.Sprintf("vesting schedule %d created for %s: total=%s duration=%s",
		id, sched.Beneficiary, sched.Total.Dec(), sched.Duration))
	return sched, nil
}

// ReleaseVested pays the beneficiary everything vested and not yet released
func (s *Service) ReleaseVested(caller common.Address, id uint64) (released *uint256.Int, err error) {
	defer s.observe("release_vesting", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, err := s.getSchedule(id)
	if err != nil {
		return nil, err
	}
	if caller != sched.Beneficiary {
		return nil, &AuthorizationError{Caller: caller, Capability: "release_vesting", Role: RoleBeneficiary}
	}

	now := s.clock.Now()
	amount := sched.Releasable(now)
	if amount.IsZero() {
		return nil, ErrNothingDue
	}

	pool, err := s.loadPool()
	if err != nil {
		return nil, err
	}
	if pool.VestingLocked.Lt(amount) {
		return nil, fmt.Errorf("vesting pool out of balance: locked %s, releasing %s", pool.VestingLocked.Dec(), amount.Dec())
	}
	account, err := s.store.GetAccount(sched.Beneficiary)
	if err != nil {
		return nil, err
	}
	balance, err := addChecked(account.Balance, amount)
	if err != nil {
		return nil, err
	}
	account.Balance = balance
	pool.VestingLocked = new(uint256.Int).Sub(pool.VestingLocked, amount)
	sched.Released = new(uint256.Int).Add(sched.Released, amount)

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		if err := s.store.PutVestingSchedule(batch, sched); err != nil {
			return err
		}
		if err := s.store.PutPoolState(batch, pool); err != nil {
			return err
		}
		return s.store.PutAccount(batch, account)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record release: %w", err)
	}

	s.publish(events.NewVestingReleased(id, sched.Beneficiary, amount, now))
	monitoring.IncreaseVestingReleases()
	logx.Info("TREASURY", fmt.Sprintf("vesting schedule %d released %s to %s", id, amount.Dec(), sched.Beneficiary))
	return amount, nil
}

// RevokeVesting stops a revocable schedule; the unvested remainder goes back
// to the reserve and what already vested stays releasable
func (s *Service) RevokeVesting(caller common.Address, id uint64) (refunded *uint256.Int, err error) {
	defer s.observe("revoke_vesting", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapManageVesting); err != nil {
		return nil, err
	}
	sched, err := s.getSchedule(id)
	if err != nil {
		return nil, err
	}
	if !sched.Revocable {
		return nil, ErrNotRevocable
	}
	if sched.Revoked {
		return nil, ErrAlreadyRevoked
	}

	now := s.clock.Now()
	refunded = sched.Unvested(now)
	sched.Revoked = true
	sched.RevokedAt = &now

	pool, err := s.loadPool()
	if err != nil {
		return nil, err
	}
	if pool.VestingLocked.Lt(refunded) {
		return nil, fmt.Errorf("vesting pool out of balance: locked %s, refunding %s", pool.VestingLocked.Dec(), refunded.Dec())
	}
	reserve, err := addChecked(pool.ReserveFunds, refunded)
	if err != nil {
		return nil, err
	}
	pool.ReserveFunds = reserve
	pool.VestingLocked = new(uint256.Int).Sub(pool.VestingLocked, refunded)

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		if err := s.store.PutVestingSchedule(batch, sched); err != nil {
			return err
		}
		return s.store.PutPoolState(batch, pool)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record revocation: %w", err)
	}

	s.publish(events.NewVestingRevoked(id, sched.Beneficiary, refunded, now))
	monitoring.SetReserveFunds(pool.ReserveFunds)
	logx.Info("TREASURY", fmt.Sprintf("vesting schedule %d revoked by %s, %s returned to reserve", id, caller, refunded.Dec()))
	return refunded, nil
}

func (s *Service) GetVestingSchedule(id uint64) (*VestingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, err := s.getSchedule(id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	return &VestingView{
		Schedule:   sched,
		Vested:     sched.VestedAmount(now),
		Releasable: sched.Releasable(now),
		End:        sched.End(),
	}, nil
}

func (s *Service) getSchedule(id uint64) (*vesting.Schedule, error) {
	sched, err := s.store.GetVestingSchedule(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return sched, nil
}
