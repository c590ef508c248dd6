// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Skill is something a member offers to teach, priced in coins.
type Skill struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	OwnerName     string    `json:"owner_name,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Level         string    `json:"level,omitempty"`
	CategoryID    int64     `json:"category_id,omitempty"`
	CategoryName  string    `json:"category_name,omitempty"`
	CourseCode    string    `json:"course_code,omitempty"`
	CourseName    string    `json:"course_name,omitempty"`
	Coins         int64     `json:"coins"`
	DurationHours int       `json:"duration_hours,omitempty"`
	DurationDays  int       `json:"duration_days,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Category groups courses in the catalog.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is a catalog entry that skills can be attached to.
type Course struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CategoryID  int64  `json:"category_id"`
}

// CategoryWithCourses is a category with its courses inlined.
type CategoryWithCourses struct {
	Category
	Courses []Course `json:"courses"`
}
