package treasury

import (
	"fmt"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleTrustee   Role = "TRUSTEE"
	RoleTreasurer Role = "TREASURER"

	// RoleBeneficiary is not stored; it names the owner of a vesting schedule
	RoleBeneficiary Role = "BENEFICIARY"
)

type Capability string

const (
	CapManageTrustees Capability = "manage_trustees"
	CapManageRoles    Capability = "manage_roles"
	CapApproveFunding Capability = "approve_funding"
	CapAllocate       Capability = "allocate_funds"
	CapDeposit        Capability = "deposit_reserve"
	CapManageVesting  Capability = "manage_vesting"
)

// capabilityRoles lists, per capability, the roles that grant it
var capabilityRoles = map[Capability][]Role{
	CapManageTrustees: {RoleAdmin},
	CapManageRoles:    {RoleAdmin},
	CapApproveFunding: {RoleTrustee},
	CapAllocate:       {RoleTreasurer},
	CapDeposit:        {RoleAdmin, RoleTreasurer},
	CapManageVesting:  {RoleAdmin, RoleTreasurer},
}

// authorize is the single gate every state-changing operation passes through
func (s *Service) authorize(caller common.Address, capability Capability) error {
	roles, ok := capabilityRoles[capability]
	if !ok {
		return fmt.Errorf("unknown capability %q", capability)
	}
	if caller.IsZero() {
		return &AuthorizationError{Caller: caller, Capability: capability, Role: roles[0]}
	}

	for _, role := range roles {
		has, err := s.HasRole(role, caller)
		if err != nil {
			return err
		}
		if has {
			return nil
		}
	}
	return &AuthorizationError{Caller: caller, Capability: capability, Role: roles[0]}
}

// HasRole reports whether addr currently holds role
func (s *Service) HasRole(role Role, addr common.Address) (bool, error) {
	return s.store.HasRole(string(role), addr)
}

// RolesOf lists the stored roles addr holds, in a fixed order
func (s *Service) RolesOf(addr common.Address) ([]Role, error) {
	var held []Role
	for _, role := range []Role{RoleAdmin, RoleTrustee, RoleTreasurer} {
		has, err := s.HasRole(role, addr)
		if err != nil {
			return nil, err
		}
		if has {
			held = append(held, role)
		}
	}
	return held, nil
}
