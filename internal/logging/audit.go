// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package logging

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// AuditEvent describes a security or money relevant action.
type AuditEvent struct {
	// Action is a stable identifier such as "login", "password_reset" or "admin_grant".
	Action  string
	UserID  int64
	Email   string
	IP      string
	Success bool
	Reason  string
	Details map[string]string
}

// Audit writes an audit line. Emails and secret-looking detail values are masked.
func Audit(ctx context.Context, ev AuditEvent) {
	l := Ctx(ctx)
	var e *zerolog.Event
	if ev.Success {
		e = l.Info()
	} else {
		e = l.Warn()
	}
	e = e.Str("audit", ev.Action).Bool("success", ev.Success)
	if ev.UserID != 0 {
		e = e.Int64("subject_id", ev.UserID)
	}
	if ev.Email != "" {
		e = e.Str("email", MaskEmail(ev.Email))
	}
	if ev.IP != "" {
		e = e.Str("ip", ev.IP)
	}
	if ev.Reason != "" {
		e = e.Str("reason", ev.Reason)
	}
	for k, v := range ev.Details {
		e = e.Str(k, MaskValue(k, v))
	}
	e.Msg("audit")
}

// MaskEmail keeps the first two characters of the local part.
//
//	MaskEmail("rana.k@example.com") == "ra***@example.com"
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

// MaskSecret keeps the first and last four characters of long secrets.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 12 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

var secretKeys = map[string]bool{
	"token":      true,
	"password":   true,
	"secret":     true,
	"code":       true,
	"session_id": true,
	"signature":  true,
}

// MaskValue masks v when key names a secret or v looks like an email.
func MaskValue(key, v string) string {
	if secretKeys[strings.ToLower(key)] {
		return MaskSecret(v)
	}
	if strings.Contains(v, "@") && strings.Contains(v, ".") {
		return MaskEmail(v)
	}
	return v
}
