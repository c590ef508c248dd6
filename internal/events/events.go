// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topic names.
const (
	TopicCoinsChanged        = "coins.changed"
	TopicMessageSent         = "message.sent"
	TopicSkillRequestUpdated = "skill_request.updated"
	TopicApplicationUpdated  = "application.updated"
	TopicCommunityJoined     = "community.joined"
)

// Topics lists every topic the forwarder subscribes to.
var Topics = []string{
	TopicCoinsChanged,
	TopicMessageSent,
	TopicSkillRequestUpdated,
	TopicApplicationUpdated,
	TopicCommunityJoined,
}

// Payload is the body of an event.
type Payload interface {
	Topic() string
	// Recipients are the users whose clients should be notified.
	Recipients() []int64
}

// Event is the envelope published on the bus.
type Event struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	Recipients []int64         `json:"recipients"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent wraps p in an envelope.
func NewEvent(p Payload) (*Event, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", p.Topic(), err)
	}
	return &Event{
		ID:         uuid.New().String(),
		Topic:      p.Topic(),
		Recipients: uniqueUsers(p.Recipients()),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// Decode parses an envelope.
func Decode(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if ev.Topic == "" {
		return nil, fmt.Errorf("event %s has no topic", ev.ID)
	}
	return &ev, nil
}

// uniqueUsers drops zero IDs and duplicates, keeping order.
func uniqueUsers(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CoinsChanged reports a committed ledger entry.
type CoinsChanged struct {
	EntryID string `json:"entry_id"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
	FromID  int64  `json:"from_user_id,omitempty"`
	ToID    int64  `json:"to_user_id,omitempty"`
	Amount  int64  `json:"amount"`
}

func (CoinsChanged) Topic() string { return TopicCoinsChanged }

func (c CoinsChanged) Recipients() []int64 { return []int64{c.FromID, c.ToID} }

// MessageSent reports a new direct message.
type MessageSent struct {
	MessageID  int64     `json:"message_id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Text       string    `json:"message"`
	Type       string    `json:"message_type"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MessageSent) Topic() string { return TopicMessageSent }

func (m MessageSent) Recipients() []int64 { return []int64{m.ReceiverID, m.SenderID} }

// SkillRequestUpdated reports a new or decided skill request.
type SkillRequestUpdated struct {
	RequestID        int64  `json:"request_id"`
	SkillID          int64  `json:"skill_id"`
	SkillName        string `json:"skill_name,omitempty"`
	RequesterID      int64  `json:"requester_id"`
	OwnerID          int64  `json:"owner_id"`
	Status           string `json:"status"`
	CoinsTransferred int64  `json:"coins_transferred"`
}

func (SkillRequestUpdated) Topic() string { return TopicSkillRequestUpdated }

func (s SkillRequestUpdated) Recipients() []int64 { return []int64{s.RequesterID, s.OwnerID} }

// ApplicationUpdated reports an internship application change.
type ApplicationUpdated struct {
	ApplicationID int64  `json:"application_id"`
	InternshipID  int64  `json:"internship_id"`
	ApplicantID   int64  `json:"applicant_id"`
	PosterID      int64  `json:"poster_id"`
	Status        string `json:"status"`
}

func (ApplicationUpdated) Topic() string { return TopicApplicationUpdated }

func (a ApplicationUpdated) Recipients() []int64 { return []int64{a.ApplicantID, a.PosterID} }

// CommunityJoined reports a new member and the creator's reward.
type CommunityJoined struct {
	CommunityID int64 `json:"community_id"`
	UserID      int64 `json:"user_id"`
	CreatorID   int64 `json:"creator_id"`
	Reward      int64 `json:"reward"`
}

func (CommunityJoined) Topic() string { return TopicCommunityJoined }

func (c CommunityJoined) Recipients() []int64 { return []int64{c.CreatorID, c.UserID} }
