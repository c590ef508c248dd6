// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Community levels.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelAll          = "All Levels"
)

// IsValidCommunityLevel checks a community level value.
func IsValidCommunityLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAll:
		return true
	}
	return false
}

// Community is a user-created group. Joining it rewards the creator.
type Community struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Level       string    `json:"level"`
	CreatorID   int64     `json:"creator_id"`
	CreatorName string    `json:"creator_name,omitempty"`
	StartDate   Date      `json:"start_date"`
	EndDate     Date      `json:"end_date"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// JoinResult is returned when a member joins a community.
type JoinResult struct {
	CommunityID   int64 `json:"community_id"`
	CreatorID     int64 `json:"creator_id"`
	CreatorReward int64 `json:"creator_reward"`
}

// CommunityComment is a post on a community board.
type CommunityComment struct {
	ID          int64     `json:"id"`
	CommunityID int64     `json:"community_id"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommunityResource is a link shared with a community.
type CommunityResource struct {
	ID          int64     `json:"id"`
	CommunityID int64     `json:"community_id"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
