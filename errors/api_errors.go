package errors

import (
	"net/http"

	"github.com/abya-university/ABYA-Ecosystem-sub001/jsonx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/treasury"
)

// APIErrorCode represents standardized error codes returned by the HTTP API
type APIErrorCode string

const (
	ErrCodeInternal APIErrorCode = "internal_error"

	// Request errors, raised before the treasury is consulted
	ErrCodeInvalidRequest   APIErrorCode = "invalid_request"
	ErrCodeInvalidSignature APIErrorCode = "invalid_signature"
	ErrCodeStaleRequest     APIErrorCode = "stale_request"
	ErrCodeRateLimited      APIErrorCode = "rate_limited"
	ErrCodeNotFound         APIErrorCode = "route_not_found"
	ErrCodeBodyTooLarge     APIErrorCode = "body_too_large"

	// Treasury rejections mirror treasury.ErrorCode
	ErrCodeUnauthorized      APIErrorCode = APIErrorCode(treasury.CodeUnauthorized)
	ErrCodeConflict          APIErrorCode = APIErrorCode(treasury.CodeConflict)
	ErrCodeTreasuryNotFound  APIErrorCode = APIErrorCode(treasury.CodeNotFound)
	ErrCodeInvalidArgument   APIErrorCode = APIErrorCode(treasury.CodeInvalidArgument)
	ErrCodeExpired           APIErrorCode = APIErrorCode(treasury.CodeExpired)
	ErrCodeInsufficientFunds APIErrorCode = APIErrorCode(treasury.CodeInsufficientFunds)
)

const (
	ErrMsgInvalidRequest   = "Request format is invalid"
	ErrMsgInvalidSignature = "Request signature is invalid"
	ErrMsgStaleRequest     = "Request timestamp is outside the accepted window"
	ErrMsgInternal         = "Server error, please try again"
	ErrMsgRateLimited      = "Too many requests, please slow down"
	ErrMsgNotFound         = "Route not found"
	ErrMsgBodyTooLarge     = "Request body exceeds maximum allowed size (%d bytes)"

	ErrMsgShortTextTooLong  = "Short text length exceeds maximum (%d) for field '%s'"
	ErrMsgLongTextTooLong   = "Long text length exceeds maximum (%d) for field '%s'"
	ErrMsgInvalidCharacters = "Field '%s' contains invalid characters"
)

// APIError is the JSON error envelope of the HTTP API
type APIError struct {
	Code    APIErrorCode `json:"code"`
	Message string       `json:"message"`
}

func (e *APIError) Error() string {
	data, _ := jsonx.Marshal(e)
	return string(data)
}

// NewError creates a new APIError and returns it as error interface
func NewError(code APIErrorCode, message string) error {
	return &APIError{Code: code, Message: message}
}

var treasuryStatus = map[treasury.ErrorCode]int{
	treasury.CodeUnauthorized:      http.StatusForbidden,
	treasury.CodeConflict:          http.StatusConflict,
	treasury.CodeNotFound:          http.StatusNotFound,
	treasury.CodeInvalidArgument:   http.StatusBadRequest,
	treasury.CodeExpired:           http.StatusGone,
	treasury.CodeInsufficientFunds: http.StatusUnprocessableEntity,
}

// FromTreasury converts a treasury error to its envelope and HTTP status.
// Infrastructure failures are reported without their details.
func FromTreasury(err error) (*APIError, int) {
	code := treasury.CodeOf(err)
	status, ok := treasuryStatus[code]
	if !ok {
		return &APIError{Code: ErrCodeInternal, Message: ErrMsgInternal}, http.StatusInternalServerError
	}
	return &APIError{Code: APIErrorCode(code), Message: err.Error()}, status
}
