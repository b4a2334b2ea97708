package treasury

import (
	"errors"
	"fmt"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

// ErrorCode classifies why an operation was rejected
type ErrorCode string

const (
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeConflict          ErrorCode = "conflict"
	CodeNotFound          ErrorCode = "not_found"
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeExpired           ErrorCode = "expired"
	CodeInsufficientFunds ErrorCode = "insufficient_funds"
	CodeInternal          ErrorCode = "internal"
)

// TreasuryError is a rejected operation. Nothing was written when one is
// returned.
type TreasuryError struct {
	Code   ErrorCode
	Reason string
}

func (e *TreasuryError) Error() string {
	return e.Reason
}

// Is matches on code and reason so errors rebuilt from the wire compare equal
func (e *TreasuryError) Is(target error) bool {
	t, ok := target.(*TreasuryError)
	return ok && t.Code == e.Code && t.Reason == e.Reason
}

func newError(code ErrorCode, reason string) *TreasuryError {
	return &TreasuryError{Code: code, Reason: reason}
}

var (
	ErrUnauthorized = newError(CodeUnauthorized, "Unauthorized")

	ErrTrusteeExists     = newError(CodeConflict, "Trustee already exists")
	ErrTrusteeNotFound   = newError(CodeNotFound, "Trustee not found")
	ErrTreasurerExists   = newError(CodeConflict, "Treasurer already exists")
	ErrTreasurerNotFound = newError(CodeNotFound, "Treasurer not found")
	ErrInvalidAddress    = newError(CodeInvalidArgument, "Invalid address")

	ErrRequestNotFound = newError(CodeNotFound, "Funding request not found")
	ErrAlreadyExecuted = newError(CodeConflict, "Request already executed")
	ErrAlreadyVoted    = newError(CodeConflict, "Already voted")
	ErrRequestExpired  = newError(CodeExpired, "Funding request expired")
	ErrPurposeTooLong  = newError(CodeInvalidArgument, "Purpose is too long")

	ErrZeroAmount        = newError(CodeInvalidArgument, "Amount must be greater than 0")
	ErrAmountOverflow    = newError(CodeInvalidArgument, "Amount overflows treasury accounting")
	ErrUnknownCategory   = newError(CodeInvalidArgument, "Unknown allocation category")
	ErrInsufficientFunds = newError(CodeInsufficientFunds, "Insufficient treasury funds")

	ErrScheduleNotFound = newError(CodeNotFound, "Vesting schedule not found")
	ErrNothingDue       = newError(CodeConflict, "No tokens are due")
	ErrNotRevocable     = newError(CodeConflict, "Vesting schedule is not revocable")
	ErrAlreadyRevoked   = newError(CodeConflict, "Vesting schedule already revoked")
)

func invalidArgument(format string, args ...interface{}) *TreasuryError {
	return newError(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

// AuthorizationError is returned when the caller holds none of the roles a
// capability needs. errors.Is matches it against ErrUnauthorized.
type AuthorizationError struct {
	Caller     common.Address
	Capability Capability
	Role       Role
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("Caller %s is missing role %s for %s", e.Caller, e.Role, e.Capability)
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// CodeOf extracts the rejection code, CodeInternal for infrastructure failures
func CodeOf(err error) ErrorCode {
	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		return CodeUnauthorized
	}
	var tErr *TreasuryError
	if errors.As(err, &tErr) {
		return tErr.Code
	}
	return CodeInternal
}
