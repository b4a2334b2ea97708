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
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

// RequestFunding opens a new request. Anyone may ask; only trustees decide.
func (s *Service) RequestFunding(caller, recipient common.Address, amount *uint256.Int, purpose string) (req *types.FundingRequest, err error) {
	defer s.observe("request_funding", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount == nil || amount.IsZero() {
		return nil, ErrZeroAmount
	}
	if recipient.IsZero() {
		return nil, ErrInvalidAddress
	}
	if len(purpose) > MaxPurposeLength {
		return nil, ErrPurposeTooLong
	}

	required, err := s.requiredApprovals()
	if err != nil {
		return nil, err
	}
	id, err := s.store.NextRequestID()
	if err != nil {
		return nil, err
	}
	req = &types.FundingRequest{
		ID:        id,
		Requester: caller,
		Recipient: recipient,
		Amount:    new(uint256.Int).Set(amount),
		Purpose:   purpose,
		CreatedAt: s.clock.Now(),
		Required:  required,
	}

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		s.store.PutNextRequestID(batch, id+1)
		return s.store.PutFundingRequest(batch, req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store funding request: %w", err)
	}

	s.publish(events.NewFundingRequested(id, caller, recipient, req.Amount, purpose, req.CreatedAt))
	monitoring.IncreaseFundingRequests()
	logx.Info("TREASURY", fmt.Sprintf("funding request %d created: requester=%s recipient=%s amount=%s",
		id, caller, recipient, amount.Dec()))
	return req, nil
}

// ApproveFundingRequest records the caller's vote. The vote that reaches the
// quorum also executes the request: the reserve pays the recipient in the
// same commit. If the reserve cannot cover it the vote is not recorded.
func (s *Service) ApproveFundingRequest(caller common.Address, id uint64) (view *types.FundingRequestView, err error) {
	defer s.observe("approve_funding", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapApproveFunding); err != nil {
		return nil, err
	}

	req, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}
	if req.Executed {
		return nil, ErrAlreadyExecuted
	}
	voted, err := s.store.HasApproval(id, caller)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}
	now := s.clock.Now()
	if req.ExpiredMarked || req.IsExpired(now, s.expiry) {
		return nil, ErrRequestExpired
	}

	required, err := s.requiredFor(req)
	if err != nil {
		return nil, err
	}

	req.ApprovalCount++
	approval := &types.Approval{RequestID: id, Trustee: caller, ApprovedAt: now}
	evs := []events.TreasuryEvent{events.NewFundingApproved(id, caller, req.ApprovalCount, required, now)}

	var (
		pool    *types.PoolState
		account *types.Account
	)
	if req.ApprovalCount >= required {
		if pool, account, err = s.settle(req); err != nil {
			return nil, err
		}
		req.Executed = true
		req.ExecutedAt = &now
		evs = append(evs, events.NewFundingExecuted(id, req.Recipient, req.Amount, now))
	}

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		if err := s.store.PutApproval(batch, approval); err != nil {
			return err
		}
		if err := s.store.PutFundingRequest(batch, req); err != nil {
			return err
		}
		if pool == nil {
			return nil
		}
		if err := s.store.PutPoolState(batch, pool); err != nil {
			return err
		}
		return s.store.PutAccount(batch, account)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record approval: %w", err)
	}

	s.publish(evs...)
	monitoring.IncreaseFundingApprovals()
	logx.Info("TREASURY", fmt.Sprintf("funding request %d approved by %s (%d/%d)", id, caller, req.ApprovalCount, required))
	if req.Executed {
		monitoring.IncreaseFundingExecuted()
		monitoring.SetReserveFunds(pool.ReserveFunds)
		logx.Info("TREASURY", fmt.Sprintf("funding request %d executed: %s paid to %s", id, req.Amount.Dec(), req.Recipient))
	}

	return s.buildView(req, now)
}

// settle computes the post-execution pool and recipient account without
// writing anything
func (s *Service) settle(req *types.FundingRequest) (*types.PoolState, *types.Account, error) {
	pool, err := s.loadPool()
	if err != nil {
		return nil, nil, err
	}
	if pool.ReserveFunds.Lt(req.Amount) {
		return nil, nil, ErrInsufficientFunds
	}
	account, err := s.store.GetAccount(req.Recipient)
	if err != nil {
		return nil, nil, err
	}

	balance, err := addChecked(account.Balance, req.Amount)
	if err != nil {
		return nil, nil, err
	}
	executed, err := addChecked(pool.ExecutedFunding, req.Amount)
	if err != nil {
		return nil, nil, err
	}
	account.Balance = balance
	pool.ExecutedFunding = executed
	pool.ReserveFunds = new(uint256.Int).Sub(pool.ReserveFunds, req.Amount)
	return pool, account, nil
}

func (s *Service) GetFundingRequest(id uint64) (*types.FundingRequestView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}
	return s.buildView(req, s.clock.Now())
}

// ListFundingRequests returns requests in id order, optionally only those in
// the given status
func (s *Service) ListFundingRequests(status types.RequestStatus) ([]*types.FundingRequestView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs, err := s.store.ListFundingRequests()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]*types.FundingRequestView, 0, len(reqs))
	for _, req := range reqs {
		if status != "" && req.StatusAt(now, s.expiry) != status {
			continue
		}
		view, err := s.buildView(req, now)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// SweepExpired marks lapsed requests as expired and returns how many changed
func (s *Service) SweepExpired() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs, err := s.store.ListFundingRequests()
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	var lapsed []*types.FundingRequest
	for _, req := range reqs {
		if req.Executed || req.ExpiredMarked || !req.IsExpired(now, s.expiry) {
			continue
		}
		req.ExpiredMarked = true
		lapsed = append(lapsed, req)
	}
	if len(lapsed) == 0 {
		return 0, nil
	}

	err = s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		for _, req := range lapsed {
			if err := s.store.PutFundingRequest(batch, req); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark expired requests: %w", err)
	}

	for _, req := range lapsed {
		s.publish(events.NewFundingExpired(req.ID, req.ApprovalCount, now))
		monitoring.IncreaseFundingExpired()
	}
	logx.Info("TREASURY", fmt.Sprintf("marked %d funding requests expired", len(lapsed)))
	return len(lapsed), nil
}

func (s *Service) getRequest(id uint64) (*types.FundingRequest, error) {
	req, err := s.store.GetFundingRequest(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// requiredFor returns the quorum frozen on req. Records written before the
// quorum was stored fall back to the current policy.
func (s *Service) requiredFor(req *types.FundingRequest) (int, error) {
	if req.Required > 0 {
		return req.Required, nil
	}
	return s.requiredApprovals()
}

func (s *Service) buildView(req *types.FundingRequest, now time.Time) (*types.FundingRequestView, error) {
	required, err := s.requiredFor(req)
	if err != nil {
		return nil, err
	}
	approvals, err := s.store.GetApprovals(req.ID)
	if err != nil {
		return nil, err
	}
	approvers := make([]common.Address, 0, len(approvals))
	for _, a := range approvals {
		approvers = append(approvers, a.Trustee)
	}
	view := &types.FundingRequestView{
		FundingRequest: *req,
		Status:         req.StatusAt(now, s.expiry),
		Approvers:      approvers,
		ExpiresAt:      req.CreatedAt.Add(s.expiry),
	}
	view.Required = required
	return view, nil
}
