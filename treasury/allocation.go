package treasury

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/db"
	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/monitoring"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

// AllocateFunds grows the pool by amount under category and credits the
// recipient. The reserve is not involved.
func (s *Service) AllocateFunds(caller, recipient common.Address, amount *uint256.Int, category string) (err error) {
	defer s.observe("allocate_funds", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapAllocate); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	if recipient.IsZero() {
		return ErrInvalidAddress
	}
	if !s.categories[category] {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	pool, err := s.loadPool()
	if err != nil {
		return err
	}
	account, err := s.store.GetAccount(recipient)
	if err != nil {
		return err
	}

	spend, err := addChecked(pool.CategorySpend[category], amount)
	if err != nil {
		return err
	}
	supply, err := addChecked(pool.PoolSupply, amount)
	if err != nil {
		return err
	}
	balance, err := addChecked(account.Balance, amount)
	if err != nil {
		return err
	}
	pool.CategorySpend[category] = spend
	pool.PoolSupply = supply
	account.Balance = balance

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		if err := s.store.PutPoolState(batch, pool); err != nil {
			return err
		}
		return s.store.PutAccount(batch, account)
	})
	if err != nil {
		return fmt.Errorf("failed to record allocation: %w", err)
	}

	s.publish(events.NewFundsAllocated(recipient, amount, category, caller, s.clock.Now()))
	monitoring.RecordAllocation(category)
	monitoring.SetPoolSupply(pool.PoolSupply)
	logx.Info("TREASURY", fmt.Sprintf("allocated %s to %s under %s", amount.Dec(), recipient, category))
	return nil
}

// DepositReserve adds funds that executed requests and vesting draw on
func (s *Service) DepositReserve(caller common.Address, amount *uint256.Int) (pool *types.PoolState, err error) {
	defer s.observe("deposit_reserve", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapDeposit); err != nil {
		return nil, err
	}
	if amount == nil || amount.IsZero() {
		return nil, ErrZeroAmount
	}

	pool, err = s.loadPool()
	if err != nil {
		return nil, err
	}
	reserve, err := addChecked(pool.ReserveFunds, amount)
	if err != nil {
		return nil, err
	}
	pool.ReserveFunds = reserve

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		return s.store.PutPoolState(batch, pool)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	s.publish(events.NewReserveDeposited(caller, amount, s.clock.Now()))
	monitoring.SetReserveFunds(pool.ReserveFunds)
	logx.Info("TREASURY", fmt.Sprintf("reserve deposit %s by %s, reserve now %s", amount.Dec(), caller, pool.ReserveFunds.Dec()))
	return pool.Clone(), nil
}

// ViewPoolDetails returns a snapshot of the pool; it never writes
func (s *Service) ViewPoolDetails() (*types.PoolState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.loadPool()
	if err != nil {
		return nil, err
	}
	return pool.Clone(), nil
}

func (s *Service) BalanceOf(addr common.Address) (*uint256.Int, error) {
	account, err := s.store.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// Categories lists the allocation categories this node accepts
func (s *Service) Categories() []string {
	out := make([]string, 0, len(s.categories))
	for c := range s.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
