// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	in := wrapper{Start: mustDate(t, "2026-03-01")}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := string(data); got != `{"start":"2026-03-01","end":null}` {
		t.Errorf("Marshal = %s", got)
	}

	var out wrapper
	if err := json.Unmarshal([]byte(`{"start":"2026-03-01","end":""}`), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Start.String() != "2026-03-01" {
		t.Errorf("Start = %s", out.Start)
	}
	if !out.End.IsZero() {
		t.Errorf("End should be zero, got %s", out.End)
	}

	if err := json.Unmarshal([]byte(`{"start":"03/01/2026"}`), &out); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestDate_Scan(t *testing.T) {
	t.Parallel()

	var d Date
	if err := d.Scan(time.Date(2026, 5, 4, 13, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan time: %v", err)
	}
	if d.String() != "2026-05-04" {
		t.Errorf("Scan time = %s", d)
	}
	if err := d.Scan("2026-06-01"); err != nil || d.String() != "2026-06-01" {
		t.Errorf("Scan string = %s, %v", d, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("Scan nil = %s, %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}

	v, err := Date{}.Value()
	if err != nil || v != nil {
		t.Errorf("zero Value = %v, %v", v, err)
	}
}

func TestCanTransitionRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to string
		want     bool
	}{
		{RequestPending, RequestAccepted, true},
		{RequestPending, RequestRejected, true},
		{RequestPending, RequestPending, false},
		{RequestAccepted, RequestRejected, false},
		{RequestRejected, RequestAccepted, false},
		{RequestAccepted, RequestPending, false},
		{"unknown", RequestAccepted, false},
	}
	for _, tt := range tests {
		if got := CanTransitionRequest(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransitionRequest(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanTransitionApplication(t *testing.T) {
	t.Parallel()

	if !CanTransitionApplication(ApplicationPending, ApplicationAccepted) {
		t.Error("pending -> accepted should be allowed")
	}
	if CanTransitionApplication(ApplicationRejected, ApplicationAccepted) {
		t.Error("rejected is terminal")
	}
	if CanTransitionApplication(ApplicationAccepted, ApplicationPending) {
		t.Error("accepted is terminal")
	}
}

func TestStatusForProgress(t *testing.T) {
	t.Parallel()

	today := mustDate(t, "2026-04-10")
	past := mustDate(t, "2026-04-01")
	future := mustDate(t, "2026-05-01")

	tests := []struct {
		name       string
		current    string
		progress   int
		start, end Date
		want       string
	}{
		{"complete after end date", LearningInProgress, 100, past, past, LearningCompleted},
		{"complete on end date", LearningInProgress, 100, past, today, LearningCompleted},
		{"full progress before end date", LearningInProgress, 100, past, future, LearningInProgress},
		{"partial after start", LearningEnrolled, 40, past, future, LearningInProgress},
		{"partial before start keeps status", LearningEnrolled, 40, future, future, LearningEnrolled},
		{"zero resets", LearningInProgress, 0, past, future, LearningEnrolled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := StatusForProgress(tt.current, tt.progress, tt.start, tt.end, today)
			if got != tt.want {
				t.Errorf("StatusForProgress = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRefreshStatus(t *testing.T) {
	t.Parallel()

	today := mustDate(t, "2026-04-10")

	l := &Learning{Status: LearningEnrolled, StartDate: mustDate(t, "2026-04-10"), CompletionDate: mustDate(t, "2026-04-20")}
	if !RefreshStatus(l, today) || l.Status != LearningInProgress {
		t.Errorf("enrolled on start date should become in_progress, got %s", l.Status)
	}
	if RefreshStatus(l, today) {
		t.Error("second refresh on the same day should be a no-op")
	}

	l = &Learning{Status: LearningEnrolled, Progress: 10, StartDate: mustDate(t, "2026-03-01"), CompletionDate: mustDate(t, "2026-04-01")}
	if !RefreshStatus(l, today) || l.Status != LearningCompleted || l.Progress != 100 {
		t.Errorf("past completion date should complete with full progress, got %s/%d", l.Status, l.Progress)
	}

	l = &Learning{Status: LearningCompleted, Progress: 100}
	if RefreshStatus(l, today) {
		t.Error("completed learnings never change")
	}
}

func TestFindCoinPackage(t *testing.T) {
	t.Parallel()

	p, ok := FindCoinPackage("large")
	if !ok || p.Coins != 300 || p.PriceCents != 10000 {
		t.Errorf("large package = %+v, %v", p, ok)
	}
	if _, ok := FindCoinPackage("huge"); ok {
		t.Error("unknown package should not be found")
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	t.Parallel()

	u := &User{ID: 7, Name: "Rana", Email: "rana@example.com", PasswordHash: "$2a$12$secret"}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("password hash leaked: %s", data)
	}

	pub, err := json.Marshal(u.Public())
	if err != nil {
		t.Fatalf("Marshal public: %v", err)
	}
	if strings.Contains(string(pub), "rana@example.com") {
		t.Errorf("public profile leaked email: %s", pub)
	}
}

func TestLedgerReportOK(t *testing.T) {
	t.Parallel()

	r := &LedgerReport{Balanced: true}
	if !r.OK() {
		t.Error("empty balanced report should be OK")
	}
	r.Negative = []int64{3}
	if r.OK() {
		t.Error("negative balance must fail verification")
	}
}
