// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// MessageTypeText is the default message type.
const MessageTypeText = "text"

// Message is a direct message between two users.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Text       string    `json:"message"`
	Type       string    `json:"message_type"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation summarises the thread with one contact.
type Conversation struct {
	ContactID       int64     `json:"contact_id"`
	ContactName     string    `json:"contact_name"`
	ContactUsername string    `json:"contact_username"`
	LastMessage     string    `json:"last_message"`
	LastSenderID    int64     `json:"last_sender_id"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int       `json:"unread_count"`
}
