package events

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

// EventType is an enum-like string type for treasury events
type EventType string

const (
	EventTrusteeAdded     EventType = "TrusteeAdded"
	EventTrusteeRevoked   EventType = "TrusteeRevoked"
	EventRoleGranted      EventType = "RoleGranted"
	EventRoleRevoked      EventType = "RoleRevoked"
	EventFundingRequested EventType = "FundingRequested"
	EventFundingApproved  EventType = "FundingApproved"
	EventFundingExecuted  EventType = "FundingExecuted"
	EventFundingExpired   EventType = "FundingExpired"
	EventFundsAllocated   EventType = "FundsAllocated"
	EventReserveDeposited EventType = "ReserveDeposited"
	EventVestingCreated   EventType = "VestingCreated"
	EventVestingReleased  EventType = "VestingReleased"
	EventVestingRevoked   EventType = "VestingRevoked"
)

// TreasuryEvent is anything the treasury emits after a committed state change.
// Subject identifies the entity the event is about, e.g. "request:3".
type TreasuryEvent interface {
	Type() EventType
	Timestamp() time.Time
	Subject() string
}

type baseEvent struct {
	eventType EventType
	subject   string
	timestamp time.Time
}

func (e *baseEvent) Type() EventType      { return e.eventType }
func (e *baseEvent) Timestamp() time.Time { return e.timestamp }
func (e *baseEvent) Subject() string      { return e.subject }

func RequestSubject(id uint64) string        { return fmt.Sprintf("request:%d", id) }
func AccountSubject(a common.Address) string { return "account:" + a.String() }
func VestingSubject(id uint64) string        { return fmt.Sprintf("vesting:%d", id) }

// RoleChanged covers trustee and treasurer membership changes
type RoleChanged struct {
	baseEvent
	Role    string
	Account common.Address
	By      common.Address
}

func NewTrusteeAdded(trustee, by common.Address, at time.Time) *RoleChanged {
	return newRoleChanged(EventTrusteeAdded, "TRUSTEE", trustee, by, at)
}

func NewTrusteeRevoked(trustee, by common.Address, at time.Time) *RoleChanged {
	return newRoleChanged(EventTrusteeRevoked, "TRUSTEE", trustee, by, at)
}

func NewRoleGranted(role string, account, by common.Address, at time.Time) *RoleChanged {
	return newRoleChanged(EventRoleGranted, role, account, by, at)
}

func NewRoleRevoked(role string, account, by common.Address, at time.Time) *RoleChanged {
	return newRoleChanged(EventRoleRevoked, role, account, by, at)
}

func newRoleChanged(t EventType, role string, account, by common.Address, at time.Time) *RoleChanged {
	return &RoleChanged{
		baseEvent: baseEvent{eventType: t, subject: AccountSubject(account), timestamp: at},
		Role:      role,
		Account:   account,
		By:        by,
	}
}

// FundingRequested is emitted when a new funding request gets its id
type FundingRequested struct {
	baseEvent
	RequestID uint64
	Requester common.Address
	Recipient common.Address
	Amount    *uint256.Int
	Purpose   string
}

func NewFundingRequested(id uint64, requester, recipient common.Address, amount *uint256.Int, purpose string, at time.Time) *FundingRequested {
	return &FundingRequested{
		baseEvent: baseEvent{eventType: EventFundingRequested, subject: RequestSubject(id), timestamp: at},
		RequestID: id,
		Requester: requester,
		Recipient: recipient,
		Amount:    new(uint256.Int).Set(amount),
		Purpose:   purpose,
	}
}

// FundingApproved carries the approval count after the vote was recorded
type FundingApproved struct {
	baseEvent
	RequestID uint64
	Trustee   common.Address
	Approvals int
	Required  int
}

func NewFundingApproved(id uint64, trustee common.Address, approvals, required int, at time.Time) *FundingApproved {
	return &FundingApproved{
		baseEvent: baseEvent{eventType: EventFundingApproved, subject: RequestSubject(id), timestamp: at},
		RequestID: id,
		Trustee:   trustee,
		Approvals: approvals,
		Required:  required,
	}
}

type FundingExecuted struct {
	baseEvent
	RequestID uint64
	Recipient common.Address
	Amount    *uint256.Int
}

func NewFundingExecuted(id uint64, recipient common.Address, amount *uint256.Int, at time.Time) *FundingExecuted {
	return &FundingExecuted{
		baseEvent: baseEvent{eventType: EventFundingExecuted, subject: RequestSubject(id), timestamp: at},
		RequestID: id,
		Recipient: recipient,
		Amount:    new(uint256.Int).Set(amount),
	}
}

type FundingExpired struct {
	baseEvent
	RequestID uint64
	Approvals int
}

func NewFundingExpired(id uint64, approvals int, at time.Time) *FundingExpired {
	return &FundingExpired{
		baseEvent: baseEvent{eventType: EventFundingExpired, subject: RequestSubject(id), timestamp: at},
		RequestID: id,
		Approvals: approvals,
	}
}

type FundsAllocated struct {
	baseEvent
	Recipient common.Address
	Amount    *uint256.Int
	Category  string
	By        common.Address
}

func NewFundsAllocated(recipient common.Address, amount *uint256.Int, category string, by common.Address, at time.Time) *FundsAllocated {
	return &FundsAllocated{
		baseEvent: baseEvent{eventType: EventFundsAllocated, subject: AccountSubject(recipient), timestamp: at},
		Recipient: recipient,
		Amount:    new(uint256.Int).Set(amount),
		Category:  category,
		By:        by,
	}
}

type ReserveDeposited struct {
	baseEvent
	By     common.Address
	Amount *uint256.Int
}

func NewReserveDeposited(by common.Address, amount *uint256.Int, at time.Time) *ReserveDeposited {
	return &ReserveDeposited{
		baseEvent: baseEvent{eventType: EventReserveDeposited, subject: AccountSubject(by), timestamp: at},
		By:        by,
		Amount:    new(uint256.Int).Set(amount),
	}
}

// VestingChanged covers schedule creation, release and revocation. Amount is
// the schedule total, the released amount or the refunded remainder.
type VestingChanged struct {
	baseEvent
	ScheduleID  uint64
	Beneficiary common.Address
	Amount      *uint256.Int
}

func NewVestingCreated(id uint64, beneficiary common.Address, total *uint256.Int, at time.Time) *VestingChanged {
	return newVestingChanged(EventVestingCreated, id, beneficiary, total, at)
}

func NewVestingReleased(id uint64, beneficiary common.Address, amount *uint256.Int, at time.Time) *VestingChanged {
	return newVestingChanged(EventVestingReleased, id, beneficiary, amount, at)
}

func NewVestingRevoked(id uint64, beneficiary common.Address, refunded *uint256.Int, at time.Time) *VestingChanged {
	return newVestingChanged(EventVestingRevoked, id, beneficiary, refunded, at)
}

func newVestingChanged(t EventType, id uint64, beneficiary common.Address, amount *uint256.Int, at time.Time) *VestingChanged {
	return &VestingChanged{
		baseEvent:   baseEvent{eventType: t, subject: VestingSubject(id), timestamp: at},
		ScheduleID:  id,
		Beneficiary: beneficiary,
		Amount:      new(uint256.Int).Set(amount),
	}
}
