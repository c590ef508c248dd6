// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Skill request statuses.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Learning modes.
const (
	ModeOnline   = "online"
	ModeInPerson = "in_person"
	ModeHybrid   = "hybrid"
)

// SkillRequest is one member asking another to teach them a skill.
type SkillRequest struct {
	ID            int64     `json:"id"`
	SkillID       int64     `json:"skill_id"`
	SkillName     string    `json:"skill_name,omitempty"`
	Coins         int64     `json:"coins"`
	RequesterID   int64     `json:"requester_id"`
	RequesterName string    `json:"requester_name,omitempty"`
	OwnerID       int64     `json:"owner_id"`
	OwnerName     string    `json:"owner_name,omitempty"`
	Status        string    `json:"status"`
	LearningMode  string    `json:"learning_mode"`
	StartDate     Date      `json:"start_date"`
	EndDate       Date      `json:"end_date"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RequestDecision is the outcome of an owner answering a request.
type RequestDecision struct {
	Request          *SkillRequest `json:"request"`
	CoinsTransferred int64         `json:"coins_transferred"`
	Enrolled         bool          `json:"enrolled"`
}

var requestTransitions = map[string][]string{
	RequestPending: {RequestAccepted, RequestRejected},
}

// CanTransitionRequest reports whether a skill request may move from one
// status to another. Accepted and rejected are terminal.
func CanTransitionRequest(from, to string) bool {
	return allowed(requestTransitions, from, to)
}

// IsValidLearningMode checks a learning mode value.
func IsValidLearningMode(mode string) bool {
	switch mode {
	case ModeOnline, ModeInPerson, ModeHybrid:
		return true
	}
	return false
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}
