// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// DefaultEventColor is used when an event is created without a colour.
const DefaultEventColor = "blue"

// CalendarEvent is an entry in a user's personal calendar.
type CalendarEvent struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EventDate   Date      `json:"event_date"`
	StartTime   string    `json:"start_time,omitempty"` // HH:MM
	EndTime     string    `json:"end_time,omitempty"`   // HH:MM
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CalendarEventUpdate holds optional event changes; nil fields are kept.
type CalendarEventUpdate struct {
	Title       *string
	Description *string
	EventDate   *Date
	StartTime   *string
	EndTime     *string
	Color       *string
}

// Empty reports whether the update changes nothing.
func (u *CalendarEventUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.EventDate == nil &&
		u.StartTime == nil && u.EndTime == nil && u.Color == nil
}

// SearchResult is one hit of the combined course and skill search.
type SearchResult struct {
	Type         string `json:"type"` // course or skill
	ID           int64  `json:"id,omitempty"`
	Code         string `json:"code,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Coins        int64  `json:"coins,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}
