// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/skillswap/internal/models"
)

const eventSelect = `
	SELECT id, user_id, title, COALESCE(description, ''), event_date, COALESCE(start_time, ''),
	       COALESCE(end_time, ''), color, created_at, updated_at
	FROM calendar_events`

func scanEvent(row rowScanner) (*models.CalendarEvent, error) {
	e := &models.CalendarEvent{}
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.EventDate, &e.StartTime,
		&e.EndTime, &e.Color, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// validClock accepts "" or a 24-hour "HH:MM" time.
func validClock(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.CalendarEvent, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]models.CalendarEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// CreateEvent adds an event to a user's calendar.
func (db *DB) CreateEvent(ctx context.Context, e *models.CalendarEvent) (*models.CalendarEvent, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" || e.EventDate.IsZero() {
		return nil, invalidInput("Title and event date are required")
	}
	if !validClock(e.StartTime) || !validClock(e.EndTime) {
		return nil, invalidInput("Times must be HH:MM")
	}
	if e.Color == "" {
		e.Color = models.DefaultEventColor
	}

	now := time.Now().UTC()
	var id int64
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO calendar_events (user_id, title, description, event_date, start_time, end_time, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		e.UserID, e.Title, nullString(e.Description), dateArg(e.EventDate), nullString(e.StartTime),
		nullString(e.EndTime), e.Color, now, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return db.GetEvent(ctx, e.UserID, id)
}

// GetEvent returns one of a user's events. Other users' events are reported
// as not found.
func (db *DB) GetEvent(ctx context.Context, userID, eventID int64) (*models.CalendarEvent, error) {
	e, err := scanEvent(db.conn.QueryRowContext(ctx, eventSelect+` WHERE id = ? AND user_id = ?`, eventID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Event not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns a user's events ordered by date and start time.
func (db *DB) ListEvents(ctx context.Context, userID int64) ([]models.CalendarEvent, error) {
	return db.queryEvents(ctx, eventSelect+` WHERE user_id = ? ORDER BY event_date, start_time NULLS FIRST, id`, userID)
}

// ListEventsForMonth returns a user's events in one calendar month.
func (db *DB) ListEventsForMonth(ctx context.Context, userID int64, year, month int) ([]models.CalendarEvent, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, invalidInput("Invalid year or month")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	return db.queryEvents(ctx, eventSelect+`
		WHERE user_id = ? AND event_date >= ? AND event_date < ?
		ORDER BY event_date, start_time NULLS FIRST, id`, userID, first, next)
}

// UpdateEvent applies the non-nil fields of upd to one of a user's events.
func (db *DB) UpdateEvent(ctx context.Context, userID, eventID int64, upd models.CalendarEventUpdate) (*models.CalendarEvent, error) {
	if upd.Empty() {
		return nil, invalidInput("No fields to update")
	}

	sets := make([]string, 0, 7)
	args := make([]interface{}, 0, 9)
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, invalidInput("Title cannot be empty")
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullString(*upd.Description))
	}
	if upd.EventDate != nil {
		if upd.EventDate.IsZero() {
			return nil, invalidInput("Event date cannot be empty")
		}
		sets = append(sets, "event_date = ?")
		args = append(args, dateArg(*upd.EventDate))
	}
	if upd.StartTime != nil {
		if !validClock(*upd.StartTime) {
			return nil, invalidInput("Times must be HH:MM")
		}
		sets = append(sets, "start_time = ?")
		args = append(args, nullString(*upd.StartTime))
	}
	if upd.EndTime != nil {
		if !validClock(*upd.EndTime) {
			return nil, invalidInput("Times must be HH:MM")
		}
		sets = append(sets, "end_time = ?")
		args = append(args, nullString(*upd.EndTime))
	}
	if upd.Color != nil {
		color := *upd.Color
		if color == "" {
			color = models.DefaultEventColor
		}
		sets = append(sets, "color = ?")
		args = append(args, color)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), eventID, userID)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE calendar_events SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, notFound("Event not found")
	}
	return db.GetEvent(ctx, userID, eventID)
}

// DeleteEvent removes one of a user's events.
func (db *DB) DeleteEvent(ctx context.Context, userID, eventID int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ? AND user_id = ?`, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("Event not found")
	}
	return nil
}
