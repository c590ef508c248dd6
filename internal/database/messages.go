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

// maxThreadMessages caps a single thread fetch.
const maxThreadMessages = 500

// SendMessage stores a direct message. The receiver must exist.
func (db *DB) SendMessage(ctx context.Context, senderID, receiverID int64, text, msgType string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidInput("Message text is required")
	}
	if receiverID == senderID {
		return nil, invalidInput("You cannot message yourself")
	}
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	var exists int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, receiverID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check receiver: %w", err)
	}
	if exists == 0 {
		return nil, notFound("Receiver not found")
	}

	m := &models.Message{SenderID: senderID, ReceiverID: receiverID, Text: text, Type: msgType, CreatedAt: time.Now().UTC()}
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, message, message_type, is_read, created_at)
		VALUES (?, ?, ?, ?, false, ?)
		RETURNING id`, senderID, receiverID, text, msgType, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// GetThread returns the messages between a user and a contact with IDs
// greater than afterID, oldest first. Messages the user received in the
// returned range are marked read.
func (db *DB) GetThread(ctx context.Context, userID, contactID, afterID int64) ([]models.Message, error) {
	out := make([]models.Message, 0)
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		out = out[:0]
		rows, err := tx.QueryContext(ctx, `
			SELECT id, sender_id, receiver_id, message, message_type, is_read, created_at
			FROM messages
			WHERE id > $3
			  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
			ORDER BY created_at, id
			LIMIT $4`, userID, contactID, afterID, maxThreadMessages)
		if err != nil {
			return fmt.Errorf("query thread: %w", err)
		}

		var lo, hi int64
		for rows.Next() {
			var m models.Message
			if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Type, &m.IsRead, &m.CreatedAt); err != nil {
				closeQuietly(rows)
				return fmt.Errorf("scan message: %w", err)
			}
			if m.ReceiverID == userID && !m.IsRead {
				if lo == 0 || m.ID < lo {
					lo = m.ID
				}
				if m.ID > hi {
					hi = m.ID
				}
			}
			out = append(out, m)
		}
		if err := rows.Err(); err != nil {
			closeQuietly(rows)
			return err
		}
		closeWithLog(rows, "rows")

		if hi == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE messages SET is_read = true
			WHERE receiver_id = ? AND sender_id = ? AND is_read = false AND id BETWEEN ? AND ?`,
			userID, contactID, lo, hi); err != nil {
			return fmt.Errorf("mark thread read: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListConversations returns one row per contact with the latest message and
// the number of unread messages from that contact, most recent first.
func (db *DB) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	rows, err := db.conn.QueryContext(ctx, `
		WITH thread AS (
			SELECT m.*,
			       CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS contact_id,
			       row_number() OVER (
			           PARTITION BY CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END
			           ORDER BY m.created_at DESC, m.id DESC
			       ) AS rn
			FROM messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
		)
		SELECT t.contact_id, COALESCE(u.name, ''), COALESCE(u.username, ''), t.message, t.sender_id, t.created_at,
		       (SELECT COUNT(*) FROM messages x
		        WHERE x.receiver_id = $1 AND x.sender_id = t.contact_id AND x.is_read = false)
		FROM thread t
		LEFT JOIN users u ON u.id = t.contact_id
		WHERE t.rn = 1
		ORDER BY t.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ContactID, &c.ContactName, &c.ContactUsername, &c.LastMessage,
			&c.LastSenderID, &c.LastMessageAt, &c.UnreadCount); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MarkRead marks every message from a contact to the user as read and
// returns how many changed.
func (db *DB) MarkRead(ctx context.Context, userID, contactID int64) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE messages SET is_read = true
		WHERE receiver_id = ? AND sender_id = ? AND is_read = false`, userID, contactID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// UnreadCount returns the number of unread messages addressed to a user.
func (db *DB) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = false`, userID).Scan(&n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return n, nil
}
