package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	apierrors "github.com/abya-university/ABYA-Ecosystem-sub001/errors"
	"github.com/abya-university/ABYA-Ecosystem-sub001/jsonx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

func writeJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonx.NewEncoder(w).Encode(data); err != nil {
		logx.Error("API", "failed to encode response: ", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code apierrors.APIErrorCode, message string) {
	writeJSONResponse(w, status, &apierrors.APIError{Code: code, Message: message})
}

// writeTreasuryError maps a service error onto the API envelope
func writeTreasuryError(w http.ResponseWriter, err error) {
	apiErr, status := apierrors.FromTreasury(err)
	if status == http.StatusInternalServerError {
		logx.Error("API", "internal error: ", err)
	}
	writeJSONResponse(w, status, apiErr)
}

// writeValidationError reports a rejected request field
func writeValidationError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		writeJSONResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	badRequest(w, "%v", err)
}

func badRequest(w http.ResponseWriter, format string, args ...interface{}) {
	writeErrorResponse(w, http.StatusBadRequest, apierrors.ErrCodeInvalidRequest, fmt.Sprintf(format, args...))
}

// ParseAmount reads a decimal amount, allowing "_" separators
func ParseAmount(s string) (*uint256.Int, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if raw == "" {
		return nil, fmt.Errorf("amount is required")
	}
	v, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// maxDurationSeconds is the largest whole-second count a time.Duration holds
const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// secondsField converts a seconds count, rejecting values a time.Duration
// cannot represent
func secondsField(field string, seconds int64) (time.Duration, error) {
	if seconds > maxDurationSeconds || seconds < -maxDurationSeconds {
		return 0, fmt.Errorf("%s: %d is out of range (max %d)", field, seconds, maxDurationSeconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAddressField(field, s string) (common.Address, error) {
	addr, err := common.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return addr, nil
}
