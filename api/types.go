package api

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/treasury"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

const (
	HeaderAddress   = "X-Treasury-Address"
	HeaderTimestamp = "X-Treasury-Timestamp"
	HeaderSignature = "X-Treasury-Signature"
	// HeaderNonce carries a uuid chosen per call; a caller may use it once
	HeaderNonce     = "X-Treasury-Nonce"

	PathPrefix = "/api/v1"
)

// Amounts travel as decimal strings; "_" separators are accepted on input.

type AddressRequest struct {
	Address string `json:"address"`
}

type FundingRequestBody struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Purpose   string `json:"purpose"`
}

type AllocationRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Category  string `json:"category"`
}

type DepositRequest struct {
	Amount string `json:"amount"`
}

type VestingRequest struct {
	Beneficiary string `json:"beneficiary"`
	Total       string `json:"total"`
	// Start is RFC 3339; empty means now
	Start           string `json:"start,omitempty"`
	CliffSeconds    int64  `json:"cliff_seconds"`
	DurationSeconds int64  `json:"duration_seconds"`
	Revocable       bool   `json:"revocable"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type TrusteesResponse struct {
	Trustees []common.Address `json:"trustees"`
	Count    int              `json:"count"`
}

type FundingRequestsResponse struct {
	Requests []*types.FundingRequestView `json:"requests"`
}

type AccountResponse struct {
	Address common.Address  `json:"address"`
	Balance *uint256.Int    `json:"balance"`
	Roles   []treasury.Role `json:"roles"`
}

type AmountResponse struct {
	Amount *uint256.Int `json:"amount"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
