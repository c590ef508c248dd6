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
	"strconv"
	"time"

	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/models"
)

const requestSelect = `
	SELECT r.id, r.skill_id, COALESCE(s.name, ''), COALESCE(s.coins, 0),
	       r.requester_id, COALESCE(req.name, ''), r.owner_id, COALESCE(own.name, ''),
	       r.status, r.learning_mode, r.start_date, r.end_date, COALESCE(r.message, ''),
	       r.created_at, r.updated_at
	FROM skill_requests r
	LEFT JOIN skills s ON s.id = r.skill_id
	LEFT JOIN users req ON req.id = r.requester_id
	LEFT JOIN users own ON own.id = r.owner_id`

func scanRequest(row rowScanner) (*models.SkillRequest, error) {
	r := &models.SkillRequest{}
	err := row.Scan(&r.ID, &r.SkillID, &r.SkillName, &r.Coins, &r.RequesterID, &r.RequesterName,
		&r.OwnerID, &r.OwnerName, &r.Status, &r.LearningMode, &r.StartDate, &r.EndDate, &r.Message,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateSkillRequest records a request to learn a skill. The requester may
// not request their own skill or request the same skill twice.
func (db *DB) CreateSkillRequest(ctx context.Context, r *models.SkillRequest) (*models.SkillRequest, error) {
	if r.LearningMode == "" {
		r.LearningMode = models.ModeOnline
	}
	if !models.IsValidLearningMode(r.LearningMode) {
		return nil, invalidInput("Invalid learning mode")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return nil, invalidInput("Start and end dates are required")
	}
	if !r.EndDate.After(r.StartDate) {
		return nil, invalidInput("End date must be after start date")
	}

	var id int64
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM skills WHERE id = ?`, r.SkillID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Skill not found")
		}
		if err != nil {
			return fmt.Errorf("get skill owner: %w", err)
		}
		if owner == r.RequesterID {
			return invalidInput("You cannot request your own skill")
		}

		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM skill_requests WHERE skill_id = ? AND requester_id = ?`,
			r.SkillID, r.RequesterID).Scan(&existing); err != nil {
			return fmt.Errorf("check existing request: %w", err)
		}
		if existing > 0 {
			return conflict("You have already requested this skill")
		}

		now := time.Now().UTC()
		err = tx.QueryRowContext(ctx, `
			INSERT INTO skill_requests (skill_id, requester_id, owner_id, status, learning_mode,
			                            start_date, end_date, message, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			r.SkillID, r.RequesterID, owner, models.RequestPending, r.LearningMode,
			dateArg(r.StartDate), dateArg(r.EndDate), nullString(r.Message), now, now).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return conflict("You have already requested this skill")
			}
			return fmt.Errorf("insert skill request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetSkillRequest(ctx, id)
}

// GetSkillRequest returns a request or ErrNotFound.
func (db *DB) GetSkillRequest(ctx context.Context, id int64) (*models.SkillRequest, error) {
	r, err := scanRequest(db.conn.QueryRowContext(ctx, requestSelect+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Skill request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get skill request: %w", err)
	}
	return r, nil
}

// FindSkillRequest returns the request a user made for a skill, or nil when
// there is none.
func (db *DB) FindSkillRequest(ctx context.Context, skillID, requesterID int64) (*models.SkillRequest, error) {
	r, err := scanRequest(db.conn.QueryRowContext(ctx,
		requestSelect+` WHERE r.skill_id = ? AND r.requester_id = ?`, skillID, requesterID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find skill request: %w", err)
	}
	return r, nil
}

// ListIncomingRequests returns the requests for skills a user owns.
func (db *DB) ListIncomingRequests(ctx context.Context, ownerID int64) ([]models.SkillRequest, error) {
	return db.queryRequests(ctx, requestSelect+` WHERE r.owner_id = ? ORDER BY r.created_at DESC, r.id DESC`, ownerID)
}

// ListOutgoingRequests returns the requests a user has made.
func (db *DB) ListOutgoingRequests(ctx context.Context, requesterID int64) ([]models.SkillRequest, error) {
	return db.queryRequests(ctx, requestSelect+` WHERE r.requester_id = ? ORDER BY r.created_at DESC, r.id DESC`, requesterID)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.SkillRequest, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skill requests: %w", err)
	}
	defer rows.Close()

	out := make([]models.SkillRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill request: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// DecideSkillRequest lets the skill owner accept or reject a pending request.
// Accepting charges the requester the skill's price, pays it to the owner and
// enrolls the requester, all in one transaction. The ledger entry is keyed by
// the request ID, so a replayed accept cannot charge twice.
func (db *DB) DecideSkillRequest(ctx context.Context, ownerID, requestID int64, status string) (*models.RequestDecision, error) {
	if status != models.RequestAccepted && status != models.RequestRejected {
		return nil, invalidInput("Status must be accepted or rejected")
	}

	decision := &models.RequestDecision{}
	err := db.ledger.Run(ctx, func(tx *ledger.Tx) error {
		*decision = models.RequestDecision{}

		var (
			skillID, requesterID, owner, coins int64
			current                            string
			start, end                         models.Date
		)
		err := tx.QueryRowContext(ctx, `
			SELECT r.skill_id, r.requester_id, r.owner_id, r.status, r.start_date, r.end_date, COALESCE(s.coins, 0)
			FROM skill_requests r
			LEFT JOIN skills s ON s.id = r.skill_id
			WHERE r.id = ?`, requestID).Scan(&skillID, &requesterID, &owner, &current, &start, &end, &coins)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Skill request not found")
		}
		if err != nil {
			return fmt.Errorf("get skill request: %w", err)
		}
		if owner != ownerID {
			return forbidden("Only the skill owner can respond to this request")
		}
		if !models.CanTransitionRequest(current, status) {
			return badTransition("Request has already been " + current)
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE skill_requests SET status = ?, updated_at = ? WHERE id = ?`,
			status, now, requestID); err != nil {
			return fmt.Errorf("update skill request: %w", err)
		}
		if status == models.RequestRejected {
			return nil
		}

		if coins > 0 {
			if _, err := db.ledger.Post(ctx, tx, ledger.Entry{
				IdempotencyKey: "skill_request:" + strconv.FormatInt(requestID, 10),
				Reason:         models.ReasonSkillEnrollment,
				From:           requesterID,
				To:             owner,
				Amount:         coins,
				Memo:           "Skill enrollment",
				Reference:      "skill:" + strconv.FormatInt(skillID, 10),
			}); err != nil {
				return err
			}
			decision.CoinsTransferred = coins
		}

		var enrolled int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM user_learnings WHERE user_id = ? AND skill_id = ?`,
			requesterID, skillID).Scan(&enrolled); err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if enrolled == 0 {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO user_learnings (user_id, skill_id, status, progress, start_date, completion_date, enrolled_at, updated_at)
				VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
				requesterID, skillID, models.LearningEnrolled, dateArg(start), dateArg(end), now, now); err != nil {
				return fmt.Errorf("enroll requester: %w", err)
			}
			decision.Enrolled = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	decision.Request, err = db.GetSkillRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return decision, nil
}

// DeleteSkillRequest withdraws a request. Only the requester may delete it.
func (db *DB) DeleteSkillRequest(ctx context.Context, requesterID, requestID int64) error {
	return db.InTx(ctx, func(tx *sql.Tx) error {
		var owner int64
		err := tx.QueryRowContext(ctx, `SELECT requester_id FROM skill_requests WHERE id = ?`, requestID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Skill request not found")
		}
		if err != nil {
			return fmt.Errorf("get skill request: %w", err)
		}
		if owner != requesterID {
			return forbidden("You can only delete your own requests")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM skill_requests WHERE id = ?`, requestID); err != nil {
			return fmt.Errorf("delete skill request: %w", err)
		}
		return nil
	})
}
