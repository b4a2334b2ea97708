package store

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/db"
	"github.com/abya-university/ABYA-Ecosystem-sub001/jsonx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
	"github.com/abya-university/ABYA-Ecosystem-sub001/vesting"
)

var ErrNotFound = errors.New("record not found")

// TreasuryStore persists treasury state. Reads go straight to the provider;
// writes are staged on a caller supplied batch so that one operation commits
// all of its records together.
type TreasuryStore interface {
	HasRole(role string, addr common.Address) (bool, error)
	ListRoleMembers(role string) ([]*types.RoleGrant, error)
	CountRoleMembers(role string) (int, error)
	PutRoleGrant(batch db.DatabaseBatch, grant *types.RoleGrant) error
	DeleteRoleGrant(batch db.DatabaseBatch, role string, addr common.Address)

	NextRequestID() (uint64, error)
	PutNextRequestID(batch db.DatabaseBatch, next uint64)
	GetFundingRequest(id uint64) (*types.FundingRequest, error)
	ListFundingRequests() ([]*types.FundingRequest, error)
	PutFundingRequest(batch db.DatabaseBatch, req *types.FundingRequest) error

	HasApproval(requestID uint64, trustee common.Address) (bool, error)
	GetApprovals(requestID uint64) ([]*types.Approval, error)
	PutApproval(batch db.DatabaseBatch, approval *types.Approval) error

	GetPoolState() (*types.PoolState, error)
	PutPoolState(batch db.DatabaseBatch, pool *types.PoolState) error

	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(batch db.DatabaseBatch, acc *types.Account) error

	NextVestingID() (uint64, error)
	PutNextVestingID(batch db.DatabaseBatch, next uint64)
	GetVestingSchedule(id uint64) (*vesting.Schedule, error)
	ListVestingSchedules() ([]*vesting.Schedule, error)
	PutVestingSchedule(batch db.DatabaseBatch, s *vesting.Schedule) error

	Provider() db.DatabaseProvider
	MustClose()
}

type GenericTreasuryStore struct {
	dbProvider db.IterableProvider
}

func NewGenericTreasuryStore(dbProvider db.DatabaseProvider) (*GenericTreasuryStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	iterable, ok := dbProvider.(db.IterableProvider)
	if !ok {
		return nil, fmt.Errorf("database provider does not support iteration")
	}

	return &GenericTreasuryStore{dbProvider: iterable}, nil
}

func (s *GenericTreasuryStore) Provider() db.DatabaseProvider {
	return s.dbProvider
}

func (s *GenericTreasuryStore) MustClose() {
	if err := s.dbProvider.Close(); err != nil {
		logx.Error("TREASURY_STORE", "failed to close provider: ", err)
	}
}

func (s *GenericTreasuryStore) HasRole(role string, addr common.Address) (bool, error) {
	ok, err := s.dbProvider.Has(roleKey(role, addr))
	if err != nil {
		return false, fmt.Errorf("failed to check role %s: %w", role, err)
	}
	return ok, nil
}

func (s *GenericTreasuryStore) ListRoleMembers(role string) ([]*types.RoleGrant, error) {
	var grants []*types.RoleGrant
	err := s.dbProvider.IteratePrefix(roleMembersPrefix(role), func(key, value []byte) bool {
		var grant types.RoleGrant
		if err := jsonx.Unmarshal(value, &grant); err != nil {
			logx.Error("TREASURY_STORE", "failed to unmarshal role grant ", string(key), ": ", err)
			return true
		}
		grants = append(grants, &grant)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate role %s: %w", role, err)
	}
	return grants, nil
}

func (s *GenericTreasuryStore) CountRoleMembers(role string) (int, error) {
	count := 0
	err := s.dbProvider.IteratePrefix(roleMembersPrefix(role), func(_, _ []byte) bool {
		count++
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count role %s: %w", role, err)
	}
	return count, nil
}

func (s *GenericTreasuryStore) PutRoleGrant(batch db.DatabaseBatch, grant *types.RoleGrant) error {
	if grant == nil {
		return fmt.Errorf("grant cannot be nil")
	}
	data, err := jsonx.Marshal(grant)
	if err != nil {
		return fmt.Errorf("failed to marshal role grant: %w", err)
	}
	batch.Put(roleKey(grant.Role, grant.Account), data)
	return nil
}

func (s *GenericTreasuryStore) DeleteRoleGrant(batch db.DatabaseBatch, role string, addr common.Address) {
	batch.Delete(roleKey(role, addr))
}

func (s *GenericTreasuryStore) NextRequestID() (uint64, error) {
	return s.readCounter(MetaKeyNextRequestID)
}

func (s *GenericTreasuryStore) PutNextRequestID(batch db.DatabaseBatch, next uint64) {
	batch.Put([]byte(MetaKeyNextRequestID), []byte(strconv.FormatUint(next, 10)))
}

func (s *GenericTreasuryStore) NextVestingID() (uint64, error) {
	return s.readCounter(MetaKeyNextVestingID)
}

func (s *GenericTreasuryStore) PutNextVestingID(batch db.DatabaseBatch, next uint64) {
	batch.Put([]byte(MetaKeyNextVestingID), []byte(strconv.FormatUint(next, 10)))
}

// readCounter returns the next id to hand out; ids start at 1
func (s *GenericTreasuryStore) readCounter(key string) (uint64, error) {
	data, err := s.dbProvider.Get([]byte(key))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if data == nil {
		return 1, nil
	}
	next, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter %s: %w", key, err)
	}
	return next, nil
}

func (s *GenericTreasuryStore) GetFundingRequest(id uint64) (*types.FundingRequest, error) {
	var req types.FundingRequest
	if err := s.getJSON(idKey(PrefixFundingRequest, id), &req); err != nil {
		return nil, fmt.Errorf("funding request %d: %w", id, err)
	}
	return &req, nil
}

func (s *GenericTreasuryStore) ListFundingRequests() ([]*types.FundingRequest, error) {
	var reqs []*types.FundingRequest
	err := s.dbProvider.IteratePrefix([]byte(PrefixFundingRequest), func(key, value []byte) bool {
		var req types.FundingRequest
		if err := jsonx.Unmarshal(value, &req); err != nil {
			logx.Error("TREASURY_STORE", "failed to unmarshal funding request ", string(key), ": ", err)
			return true
		}
		reqs = append(reqs, &req)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate funding requests: %w", err)
	}
	return reqs, nil
}

func (s *GenericTreasuryStore) PutFundingRequest(batch db.DatabaseBatch, req *types.FundingRequest) error {
	if req == nil {
		return fmt.Errorf("funding request cannot be nil")
	}
	return putJSON(batch, idKey(PrefixFundingRequest, req.ID), req)
}

func (s *GenericTreasuryStore) HasApproval(requestID uint64, trustee common.Address) (bool, error) {
	ok, err := s.dbProvider.Has(approvalKey(requestID, trustee))
	if err != nil {
		return false, fmt.Errorf("failed to check approval: %w", err)
	}
	return ok, nil
}

func (s *GenericTreasuryStore) GetApprovals(requestID uint64) ([]*types.Approval, error) {
	var approvals []*types.Approval
	err := s.dbProvider.IteratePrefix(approvalsPrefix(requestID), func(key, value []byte) bool {
		var a types.Approval
		if err := jsonx.Unmarshal(value, &a); err != nil {
			logx.Error("TREASURY_STORE", "failed to unmarshal approval ", string(key), ": ", err)
			return true
		}
		approvals = append(approvals, &a)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate approvals for %d: %w", requestID, err)
	}
	return approvals, nil
}

// PutApproval only ever adds; approvals are never deleted
func (s *GenericTreasuryStore) PutApproval(batch db.DatabaseBatch, approval *types.Approval) error {
	if approval == nil {
		return fmt.Errorf("approval cannot be nil")
	}
	return putJSON(batch, approvalKey(approval.RequestID, approval.Trustee), approval)
}

// GetPoolState returns ErrNotFound before the pool has been initialized
func (s *GenericTreasuryStore) GetPoolState() (*types.PoolState, error) {
	var pool types.PoolState
	if err := s.getJSON([]byte(KeyPoolState), &pool); err != nil {
		return nil, fmt.Errorf("pool state: %w", err)
	}
	pool.Normalize()
	return &pool, nil
}

func (s *GenericTreasuryStore) PutPoolState(batch db.DatabaseBatch, pool *types.PoolState) error {
	if pool == nil {
		return fmt.Errorf("pool state cannot be nil")
	}
	return putJSON(batch, []byte(KeyPoolState), pool)
}

// GetAccount returns a zero balance account for unknown addresses
func (s *GenericTreasuryStore) GetAccount(addr common.Address) (*types.Account, error) {
	var acc types.Account
	err := s.getJSON(accountKey(addr), &acc)
	if errors.Is(err, ErrNotFound) {
		return types.NewAccount(addr), nil
	}
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", addr, err)
	}
	if acc.Balance == nil {
		acc.Balance = types.NewAccount(addr).Balance
	}
	return &acc, nil
}

func (s *GenericTreasuryStore) PutAccount(batch db.DatabaseBatch, acc *types.Account) error {
	if acc == nil {
		return fmt.Errorf("account cannot be nil")
	}
	return putJSON(batch, accountKey(acc.Address), acc)
}

func (s *GenericTreasuryStore) GetVestingSchedule(id uint64) (*vesting.Schedule, error) {
	var sched vesting.Schedule
	if err := s.getJSON(idKey(PrefixVesting, id), &sched); err != nil {
		return nil, fmt.Errorf("vesting schedule %d: %w", id, err)
	}
	return &sched, nil
}

func (s *GenericTreasuryStore) ListVestingSchedules() ([]*vesting.Schedule, error) {
	var out []*vesting.Schedule
	err := s.dbProvider.IteratePrefix([]byte(PrefixVesting), func(key, value []byte) bool {
		var sched vesting.Schedule
		if err := jsonx.Unmarshal(value, &sched); err != nil {
			logx.Error("TREASURY_STORE", "failed to unmarshal vesting schedule ", string(key), ": ", err)
			return true
		}
		out = append(out, &sched)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate vesting schedules: %w", err)
	}
	return out, nil
}

func (s *GenericTreasuryStore) PutVestingSchedule(batch db.DatabaseBatch, sched *vesting.Schedule) error {
	if sched == nil {
		return fmt.Errorf("vesting schedule cannot be nil")
	}
	return putJSON(batch, idKey(PrefixVesting, sched.ID), sched)
}

func (s *GenericTreasuryStore) getJSON(key []byte, out interface{}) error {
	data, err := s.dbProvider.Get(key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if data == nil {
		return ErrNotFound
	}
	if err := jsonx.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func putJSON(batch db.DatabaseBatch, key []byte, v interface{}) error {
	data, err := jsonx.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	batch.Put(key, data)
	return nil
}
