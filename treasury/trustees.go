package treasury

import (
	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/db"
	"github.com/abya-university/ABYA-Ecosystem-sub001/events"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/monitoring"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

// AddTrustee grants the trustee role. Adding an existing trustee is an error.
func (s *Service) AddTrustee(caller, trustee common.Address) (err error) {
	defer s.observe("add_trustee", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapManageTrustees); err != nil {
		return err
	}
	if err := s.grantRole(caller, RoleTrustee, trustee, ErrTrusteeExists); err != nil {
		return err
	}

	s.publish(events.NewTrusteeAdded(trustee, caller, s.clock.Now()))
	s.refreshTrusteeGauge()
	logx.Info("TREASURY", "trustee added: ", trustee, " by ", caller)
	return nil
}

func (s *Service) RevokeTrustee(caller, trustee common.Address) (err error) {
	defer s.observe("revoke_trustee", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapManageTrustees); err != nil {
		return err
	}
	if err := s.revokeRole(RoleTrustee, trustee, ErrTrusteeNotFound); err != nil {
		return err
	}

	s.publish(events.NewTrusteeRevoked(trustee, caller, s.clock.Now()))
	s.refreshTrusteeGauge()
	logx.Info("TREASURY", "trustee revoked: ", trustee, " by ", caller)
	return nil
}

func (s *Service) GetTrusteesCount() (int, error) {
	return s.store.CountRoleMembers(string(RoleTrustee))
}

func (s *Service) ListTrustees() ([]common.Address, error) {
	return s.listRole(RoleTrustee)
}

func (s *Service) IsTrustee(addr common.Address) (bool, error) {
	return s.HasRole(RoleTrustee, addr)
}

func (s *Service) GrantTreasurer(caller, account common.Address) (err error) {
	defer s.observe("grant_treasurer", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapManageRoles); err != nil {
		return err
	}
	if err := s.grantRole(caller, RoleTreasurer, account, ErrTreasurerExists); err != nil {
		return err
	}

	s.publish(events.NewRoleGranted(string(RoleTreasurer), account, caller, s.clock.Now()))
	logx.Info("TREASURY", "treasurer granted: ", account, " by ", caller)
	return nil
}

func (s *Service) RevokeTreasurer(caller, account common.Address) (err error) {
	defer s.observe("revoke_treasurer", &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, CapManageRoles); err != nil {
		return err
	}
	if err := s.revokeRole(RoleTreasurer, account, ErrTreasurerNotFound); err != nil {
		return err
	}

	s.publish(events.NewRoleRevoked(string(RoleTreasurer), account, caller, s.clock.Now()))
	logx.Info("TREASURY", "treasurer revoked: ", account, " by ", caller)
	return nil
}

func (s *Service) ListTreasurers() ([]common.Address, error) {
	return s.listRole(RoleTreasurer)
}

func (s *Service) grantRole(by common.Address, role Role, account common.Address, errExists error) error {
	if account.IsZero() {
		return ErrInvalidAddress
	}
	has, err := s.store.HasRole(string(role), account)
	if err != nil {
		return err
	}
	if has {
		return errExists
	}

	grant := &types.RoleGrant{Role: string(role), Account: account, GrantedBy: by, GrantedAt: s.clock.Now()}
	return s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		return s.store.PutRoleGrant(batch, grant)
	})
}

func (s *Service) revokeRole(role Role, account common.Address, errMissing error) error {
	has, err := s.store.HasRole(string(role), account)
	if err != nil {
		return err
	}
	if !has {
		return errMissing
	}

	return s.txm.WithBatch(func(batch db.DatabaseBatch) error {
		s.store.DeleteRoleGrant(batch, string(role), account)
		return nil
	})
}

func (s *Service) listRole(role Role) ([]common.Address, error) {
	grants, err := s.store.ListRoleMembers(string(role))
	if err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(grants))
	for _, g := range grants {
		out = append(out, g.Account)
	}
	return out, nil
}

func (s *Service) refreshTrusteeGauge() {
	if n, err := s.store.CountRoleMembers(string(RoleTrustee)); err == nil {
		monitoring.SetTrusteeCount(n)
	}
}
