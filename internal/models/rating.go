// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Rated item types.
const (
	ItemSkill     = "skill"
	ItemCommunity = "community"
)

// IsValidItemType checks a rated item type.
func IsValidItemType(t string) bool {
	return t == ItemSkill || t == ItemCommunity
}

// Rating is one user's score for a skill or community.
type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	ItemType  string    `json:"item_type"`
	ItemID    int64     `json:"item_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary aggregates the ratings of one item.
type RatingSummary struct {
	ItemType string   `json:"item_type"`
	ItemID   int64    `json:"item_id"`
	Average  float64  `json:"average"`
	Count    int      `json:"count"`
	Ratings  []Rating `json:"ratings"`
}

// TopRatedItem is one row of a top-rated listing.
type TopRatedItem struct {
	ItemType string  `json:"item_type"`
	ItemID   int64   `json:"item_id"`
	Name     string  `json:"name"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

// Favorite is a bookmarked skill.
type Favorite struct {
	UserID    int64     `json:"user_id"`
	SkillID   int64     `json:"skill_id"`
	Skill     *Skill    `json:"skill,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
