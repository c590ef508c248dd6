// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Learning statuses.
const (
	LearningEnrolled   = "enrolled"
	LearningInProgress = "in_progress"
	LearningCompleted  = "completed"
)

// Learning is a user's enrollment in a skill.
type Learning struct {
	UserID         int64     `json:"user_id"`
	SkillID        int64     `json:"skill_id"`
	SkillName      string    `json:"skill_name,omitempty"`
	TeacherID      int64     `json:"teacher_id,omitempty"`
	TeacherName    string    `json:"teacher_name,omitempty"`
	Status         string    `json:"status"`
	Progress       int       `json:"progress"`
	StartDate      Date      `json:"start_date"`
	CompletionDate Date      `json:"completion_date"`
	EnrolledAt     time.Time `json:"enrolled_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsValidLearningStatus checks a learning status value.
func IsValidLearningStatus(status string) bool {
	switch status {
	case LearningEnrolled, LearningInProgress, LearningCompleted:
		return true
	}
	return false
}

// StatusForProgress derives the status implied by a progress update:
// 100 with the completion date reached is completed, any progress once the
// start date is reached is in progress, zero is enrolled. Otherwise the
// current status is kept.
func StatusForProgress(current string, progress int, start, completion, today Date) string {
	switch {
	case progress >= 100 && !completion.IsZero() && completion.OnOrBefore(today):
		return LearningCompleted
	case progress > 0 && !start.IsZero() && start.OnOrBefore(today):
		return LearningInProgress
	case progress == 0:
		return LearningEnrolled
	}
	return current
}

// RefreshStatus applies the passage of calendar days to a learning: enrolled
// becomes in progress on the start date, and anything not yet completed is
// completed with full progress once the completion date is reached. It
// reports whether l changed.
func RefreshStatus(l *Learning, today Date) bool {
	if l.Status == LearningCompleted {
		return false
	}
	if !l.CompletionDate.IsZero() && l.CompletionDate.OnOrBefore(today) {
		l.Status = LearningCompleted
		l.Progress = 100
		return true
	}
	if l.Status == LearningEnrolled && !l.StartDate.IsZero() && l.StartDate.OnOrBefore(today) {
		l.Status = LearningInProgress
		return true
	}
	return false
}

// Certificate records a completed learning. Rendering is done elsewhere.
type Certificate struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	RecipientName string `json:"recipient_name,omitempty"`
	SkillID       int64  `json:"skill_id"`
	SkillName     string `json:"skill_name,omitempty"`
	TeacherName   string `json:"teacher_name,omitempty"`
	Code          string `json:"code"`
	IssuedDate    Date   `json:"issued_date"`
}
