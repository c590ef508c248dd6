// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package validation

import (
	"strings"
	"testing"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,lbphone"`
	Level string `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Start string `json:"start_date" validate:"required,isodate"`
	Coins int64  `json:"coins" validate:"gte=0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	req := signup{Email: "lea@example.com", Phone: "+961 70 123 456", Start: "2026-03-01"}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_SingleError(t *testing.T) {
	t.Parallel()

	req := signup{Email: "lea@example.com", Phone: "12345", Start: "2026-03-01"}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected error")
	}
	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", apiErr.Code)
	}
	if apiErr.Details["field"] != "phone" {
		t.Errorf("field = %v, want json name phone", apiErr.Details["field"])
	}
	if !strings.Contains(apiErr.Message, "Lebanese") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	req := signup{Email: "nope", Phone: "", Level: "Expert", Start: "03/01/2026", Coins: -1}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected error")
	}
	if got := len(verr.Errors()); got != 5 {
		t.Fatalf("got %d errors, want 5: %v", got, verr)
	}
	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 5 {
		t.Fatalf("Details[fields] = %#v", apiErr.Details["fields"])
	}
}

func TestNormalizeLebanesePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"03123456", "3123456", true},
		{"+961 3 123 456", "3123456", true},
		{"961-71-234-567", "71234567", true},
		{"81 234 567", "81234567", true},
		{"76123456", "76123456", true},
		{"01234567", "", false}, // Beirut landline prefix 1 is not accepted
		{"5123456", "", false},
		{"3123", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeLebanesePhone(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeLebanesePhone(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if d.Day() != 28 || d.Month() != 2 {
		t.Errorf("ParseDate = %v", d)
	}
	if _, err := ParseDate("2026-02-30"); err == nil {
		t.Error("expected error for invalid day")
	}
}
