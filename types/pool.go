package types

import (
	"sort"

	"github.com/holiman/uint256"
)

// PoolState is the aggregate accounting of the treasury
type PoolState struct {
	// PoolSupply is the total allocated through AllocateFunds
	PoolSupply    *uint256.Int            `json:"pool_supply"`
	CategorySpend map[string]*uint256.Int `json:"category_spend"`
	// ReserveFunds backs executed funding requests and vesting schedules
	ReserveFunds    *uint256.Int `json:"reserve_funds"`
	ExecutedFunding *uint256.Int `json:"executed_funding"`
	VestingLocked   *uint256.Int `json:"vesting_locked"`
}

func NewPoolState(categories []string) *PoolState {
	p := &PoolState{
		PoolSupply:      uint256.NewInt(0),
		CategorySpend:   make(map[string]*uint256.Int, len(categories)),
		ReserveFunds:    uint256.NewInt(0),
		ExecutedFunding: uint256.NewInt(0),
		VestingLocked:   uint256.NewInt(0),
	}
	for _, c := range categories {
		p.CategorySpend[c] = uint256.NewInt(0)
	}
	return p
}

// Normalize fills nil counters left by older or partial records
func (p *PoolState) Normalize() {
	for _, f := range []**uint256.Int{&p.PoolSupply, &p.ReserveFunds, &p.ExecutedFunding, &p.VestingLocked} {
		if *f == nil {
			*f = uint256.NewInt(0)
		}
	}
	if p.CategorySpend == nil {
		p.CategorySpend = make(map[string]*uint256.Int)
	}
	for k, v := range p.CategorySpend {
		if v == nil {
			p.CategorySpend[k] = uint256.NewInt(0)
		}
	}
}

// Clone returns a deep copy safe to hand to callers
func (p *PoolState) Clone() *PoolState {
	c := &PoolState{
		PoolSupply:      new(uint256.Int).Set(p.PoolSupply),
		CategorySpend:   make(map[string]*uint256.Int, len(p.CategorySpend)),
		ReserveFunds:    new(uint256.Int).Set(p.ReserveFunds),
		ExecutedFunding: new(uint256.Int).Set(p.ExecutedFunding),
		VestingLocked:   new(uint256.Int).Set(p.VestingLocked),
	}
	for k, v := range p.CategorySpend {
		c.CategorySpend[k] = new(uint256.Int).Set(v)
	}
	return c
}

// Categories lists the known allocation categories in a stable order
func (p *PoolState) Categories() []string {
	out := make([]string, 0, len(p.CategorySpend))
	for k := range p.CategorySpend {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
