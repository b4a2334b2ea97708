package validation

import (
	"fmt"
	"strings"
	"testing"

	apierrors "github.com/abya-university/ABYA-Ecosystem-sub001/errors"
)

func TestValidateShortTextLength(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantMsg   string
	}{
		{
			name:      "valid",
			fieldName: RecipientField,
			value:     "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			name:      "empty string",
			fieldName: AmountField,
			value:     "",
		},
		{
			name:      "too long",
			fieldName: "too_long_field",
			value:     makeString(MaxShortTextLength + 1),
			wantErr:   true,
			wantMsg:   fmt.Sprintf(apierrors.ErrMsgShortTextTooLong, MaxShortTextLength, "too_long_field"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkResult(t, ValidateShortTextLength(tt.fieldName, tt.value), tt.wantErr, tt.wantMsg)
		})
	}
}

func TestValidateLongText(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantMsg   string
	}{
		{
			name:      "valid",
			fieldName: PurposeField,
			value:     "Scholarships for the spring cohort",
		},
		{
			name:      "empty string",
			fieldName: PurposeField,
			value:     "",
		},
		{
			name:      "multibyte counts runes",
			fieldName: PurposeField,
			value:     strings.Repeat("é", MaxLongTextLength),
		},
		{
			name:      "injection pattern",
			fieldName: PurposeField,
			value:     "test {{ alert(1) }}",
			wantErr:   true,
			wantMsg:   fmt.Sprintf(apierrors.ErrMsgInvalidCharacters, PurposeField),
		},
		{
			name:      "script tag any case",
			fieldName: PurposeField,
			value:     "<SCRIPT>steal()</SCRIPT>",
			wantErr:   true,
			wantMsg:   fmt.Sprintf(apierrors.ErrMsgInvalidCharacters, PurposeField),
		},
		{
			name:      "too long",
			fieldName: PurposeField,
			value:     makeString(MaxLongTextLength + 1),
			wantErr:   true,
			wantMsg:   fmt.Sprintf(apierrors.ErrMsgLongTextTooLong, MaxLongTextLength, PurposeField),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkResult(t, ValidateLongText(tt.fieldName, tt.value), tt.wantErr, tt.wantMsg)
		})
	}
}

func TestValidateCategory(t *testing.T) {
	for _, ok := range []string{"marketing", "r_and_d", "ops-2025"} {
		if err := ValidateCategory(ok); err != nil {
			t.Errorf("ValidateCategory(%q): unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"Marketing", "dev ops", "grants{{", makeString(MaxShortTextLength + 1)} {
		if err := ValidateCategory(bad); err == nil {
			t.Errorf("ValidateCategory(%q): expected error", bad)
		}
	}
}

func checkResult(t *testing.T, err error, wantErr bool, wantMsg string) {
	t.Helper()
	if !wantErr {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	apiErr, ok := err.(*apierrors.APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != apierrors.ErrCodeInvalidRequest {
		t.Fatalf("expected code %s, got %s", apierrors.ErrCodeInvalidRequest, apiErr.Code)
	}
	if apiErr.Message != wantMsg {
		t.Fatalf("expected message %q, got %q", wantMsg, apiErr.Message)
	}
}

func makeString(n int) string {
	return strings.Repeat("a", n)
}
