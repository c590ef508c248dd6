// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var lebaneseLocal = regexp.MustCompile(`^[378]\d{6,7}$`)

// NormalizeLebanesePhone strips formatting, a leading 961 country code or a
// leading trunk 0, and returns the local number. ok is false when the result
// is not a Lebanese mobile or landline number.
//
//	NormalizeLebanesePhone("+961 3 123 456") == ("3123456", true)
//	NormalizeLebanesePhone("071234567")      == ("71234567", true)
func NormalizeLebanesePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case strings.HasPrefix(digits, "961"):
		digits = digits[3:]
	case strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	if !lebaneseLocal.MatchString(digits) {
		return "", false
	}
	return digits, true
}

func validateLebanesePhone(fl validator.FieldLevel) bool {
	_, ok := NormalizeLebanesePhone(fl.Field().String())
	return ok
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}
