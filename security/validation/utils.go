// Package validation checks free-text request fields before they reach the
// treasury, so stored purposes and categories stay short and inert.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	apierrors "github.com/abya-university/ABYA-Ecosystem-sub001/errors"
)

var InjectionRegexp = BuildInjectionPatterns()

// BuildInjectionPatterns builds regexp for injection detection (case-insensitive)
func BuildInjectionPatterns() *regexp.Regexp {
	parts := make([]string, 0, len(InjectionPatterns))
	for _, pattern := range InjectionPatterns {
		pNorm := norm.NFC.String(pattern)
		parts = append(parts, regexp.QuoteMeta(pNorm))
	}
	return regexp.MustCompile("(?i)" + strings.Join(parts, "|"))
}

// ValidateShortTextLength validates short text field length
func ValidateShortTextLength(fieldName, fieldValue string) error {
	normalized := norm.NFC.String(fieldValue)

	if utf8.RuneCountInString(normalized) > MaxShortTextLength {
		return apierrors.NewError(
			apierrors.ErrCodeInvalidRequest,
			fmt.Sprintf(apierrors.ErrMsgShortTextTooLong, MaxShortTextLength, fieldName),
		)
	}
	return nil
}

// ValidateLongText validates length and rejects template or script payloads
func ValidateLongText(fieldName, fieldValue string) error {
	normalized := norm.NFC.String(fieldValue)

	if utf8.RuneCountInString(normalized) > MaxLongTextLength {
		return apierrors.NewError(
			apierrors.ErrCodeInvalidRequest,
			fmt.Sprintf(apierrors.ErrMsgLongTextTooLong, MaxLongTextLength, fieldName),
		)
	}

	if InjectionRegexp.MatchString(normalized) {
		return apierrors.NewError(
			apierrors.ErrCodeInvalidRequest,
			fmt.Sprintf(apierrors.ErrMsgInvalidCharacters, fieldName),
		)
	}

	return nil
}

// ValidateCategory accepts short lowercase identifiers such as "marketing"
func ValidateCategory(category string) error {
	if err := ValidateShortTextLength(CategoryField, category); err != nil {
		return err
	}
	for _, r := range category {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' && r != '-' {
			return apierrors.NewError(
				apierrors.ErrCodeInvalidRequest,
				fmt.Sprintf(apierrors.ErrMsgInvalidCharacters, CategoryField),
			)
		}
	}
	return nil
}
