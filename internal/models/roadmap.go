// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Roadmap levels, in the order a learner climbs them.
const (
	RoadmapBeginner     = "Beginner"
	RoadmapIntermediate = "Intermediate"
	RoadmapAdvanced     = "Advanced"
)

// RoadmapLevels lists the valid levels in order.
var RoadmapLevels = []string{RoadmapBeginner, RoadmapIntermediate, RoadmapAdvanced}

// ValidRoadmapLevel reports whether level is one of RoadmapLevels.
func ValidRoadmapLevel(level string) bool {
	for _, l := range RoadmapLevels {
		if l == level {
			return true
		}
	}
	return false
}

// DevelopmentPath is a career track such as "Backend Development".
type DevelopmentPath struct {
	ID                  int64    `json:"id"`
	CategoryID          int64    `json:"category_id"`
	CategoryName        string   `json:"category_name"`
	Name                string   `json:"name"`
	Icon                string   `json:"icon_name"`
	Description         string   `json:"description"`
	DetailedDescription string   `json:"detailed_description,omitempty"`
	Difficulty          string   `json:"difficulty"`
	EstimatedDuration   string   `json:"estimated_duration"`
	KeySkills           []string `json:"key_skills"`
}

// UserRoadmap is the path a user follows and how far they are along it.
// A user follows at most one path.
type UserRoadmap struct {
	UserID             int64     `json:"user_id"`
	PathID             int64     `json:"path_id"`
	PathName           string    `json:"path_name"`
	PathIcon           string    `json:"path_icon"`
	CurrentLevel       string    `json:"current_level"`
	ProgressPercentage int       `json:"progress_percentage"`
	StartedAt          time.Time `json:"started_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RoadmapLevel is one stage of a path.
type RoadmapLevel struct {
	ID          int64    `json:"id"`
	PathID      int64    `json:"path_id"`
	LevelOrder  int      `json:"level_order"`
	Level       string   `json:"level"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Topics      []string `json:"topics"`
}

// RoadmapResource is a course, book, video or doc recommended for a path.
type RoadmapResource struct {
	ID          int64  `json:"id"`
	PathID      int64  `json:"path_id"`
	Level       string `json:"level"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	IsFree      bool   `json:"is_free"`
}

// RoadmapProject is a practice project attached to a path level.
type RoadmapProject struct {
	ID             int64    `json:"id"`
	PathID         int64    `json:"path_id"`
	Name           string   `json:"name"`
	Level          string   `json:"level"`
	Description    string   `json:"description"`
	Technologies   []string `json:"technologies"`
	GithubURL      string   `json:"github_url,omitempty"`
	EstimatedHours int      `json:"estimated_hours"`
}

// RoadmapRecommendation suggests what to learn next on a path.
type RoadmapRecommendation struct {
	PathID            int64           `json:"path_id"`
	RecommendedSkills []string        `json:"recommended_skills"`
	NextLevel         string          `json:"next_level,omitempty"`
	NextProject       *RoadmapProject `json:"next_project,omitempty"`
	LearningTips      string          `json:"learning_tips"`
	NextSteps         string          `json:"next_steps"`
}
