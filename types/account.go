package types

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

// Account tracks what the treasury has paid out to an address
type Account struct {
	Address common.Address `json:"address"`
	Balance *uint256.Int   `json:"balance"`
}

func NewAccount(addr common.Address) *Account {
	return &Account{Address: addr, Balance: uint256.NewInt(0)}
}

// RoleGrant records who holds a role and since when
type RoleGrant struct {
	Role      string         `json:"role"`
	Account   common.Address `json:"account"`
	GrantedBy common.Address `json:"granted_by"`
	GrantedAt time.Time      `json:"granted_at"`
}
