package types

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

type RequestStatus string

const (
	RequestPending           RequestStatus = "PENDING"
	RequestPartiallyApproved RequestStatus = "PARTIALLY_APPROVED"
	RequestExecuted          RequestStatus = "EXECUTED"
	RequestExpired           RequestStatus = "EXPIRED"
)

func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case RequestPending, RequestPartiallyApproved, RequestExecuted, RequestExpired:
		return st, true
	}
	return "", false
}

// FundingRequest is the persisted record of one request. Approvals are kept
// in their own append-only set keyed by request id; ApprovalCount mirrors
// its size so status can be derived without loading the set.
type FundingRequest struct {
	ID            uint64         `json:"id"`
	Requester     common.Address `json:"requester"`
	Recipient     common.Address `json:"recipient"`
	Amount        *uint256.Int   `json:"amount"`
	Purpose       string         `json:"purpose"`
	CreatedAt     time.Time      `json:"created_at"`
	// Required is the quorum in force when the request was opened. Later
	// trustee changes do not move it.
	Required      int            `json:"required"`
	ApprovalCount int            `json:"approval_count"`
	Executed      bool           `json:"executed"`
	ExecutedAt    *time.Time     `json:"executed_at,omitempty"`
	// ExpiredMarked is set once the sweeper has recorded the expiry
	ExpiredMarked bool `json:"expired_marked,omitempty"`
}

// IsExpired reports whether the approval window has lapsed at now.
// A request is still open at exactly createdAt+window.
func (r *FundingRequest) IsExpired(now time.Time, window time.Duration) bool {
	return !r.Executed && now.Sub(r.CreatedAt) > window
}

// StatusAt derives the lifecycle state at now
func (r *FundingRequest) StatusAt(now time.Time, window time.Duration) RequestStatus {
	switch {
	case r.Executed:
		return RequestExecuted
	case r.ExpiredMarked || r.IsExpired(now, window):
		return RequestExpired
	case r.ApprovalCount > 0:
		return RequestPartiallyApproved
	default:
		return RequestPending
	}
}

// Approval is one trustee vote on a request
type Approval struct {
	RequestID  uint64         `json:"request_id"`
	Trustee    common.Address `json:"trustee"`
	ApprovedAt time.Time      `json:"approved_at"`
}

// FundingRequestView is a request with its derived status and voters,
// as returned to API callers
type FundingRequestView struct {
	FundingRequest
	Status    RequestStatus    `json:"status"`
	Approvers []common.Address `json:"approvers"`
	ExpiresAt time.Time        `json:"expires_at"`
}
