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
	"strings"
	"time"

	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/models"
)

const communitySelect = `
	SELECT c.id, c.name, COALESCE(c.description, ''), c.level, c.creator_id, COALESCE(u.name, ''),
	       c.start_date, c.end_date,
	       (SELECT COUNT(*) FROM community_members m WHERE m.community_id = c.id),
	       c.created_at
	FROM communities c
	LEFT JOIN users u ON u.id = c.creator_id`

func scanCommunity(row rowScanner) (*models.Community, error) {
	c := &models.Community{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Level, &c.CreatorID, &c.CreatorName,
		&c.StartDate, &c.EndDate, &c.MemberCount, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (db *DB) queryCommunities(ctx context.Context, query string, args ...interface{}) ([]models.Community, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query communities: %w", err)
	}
	defer rows.Close()

	out := make([]models.Community, 0)
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan community: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CreateCommunity creates a community and adds its creator as the first
// member.
func (db *DB) CreateCommunity(ctx context.Context, c *models.Community) (*models.Community, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, invalidInput("Community name is required")
	}
	if c.Level == "" {
		c.Level = models.LevelBeginner
	}
	if !models.IsValidCommunityLevel(c.Level) {
		return nil, invalidInput("Invalid community level")
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return nil, invalidInput("Start and end dates are required")
	}
	if !c.EndDate.After(c.StartDate) {
		return nil, invalidInput("End date must be after start date")
	}

	var id int64
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		var taken int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM communities WHERE name = ?`, name).Scan(&taken); err != nil {
			return fmt.Errorf("check community name: %w", err)
		}
		if taken > 0 {
			return conflict("A community with this name already exists")
		}

		now := time.Now().UTC()
		err := tx.QueryRowContext(ctx, `
			INSERT INTO communities (name, description, level, creator_id, start_date, end_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			name, nullString(c.Description), c.Level, c.CreatorID,
			dateArg(c.StartDate), dateArg(c.EndDate), now).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return conflict("A community with this name already exists")
			}
			return fmt.Errorf("insert community: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO community_members (community_id, user_id, joined_at) VALUES (?, ?, ?)`,
			id, c.CreatorID, now); err != nil {
			return fmt.Errorf("add creator membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetCommunity(ctx, id)
}

// GetCommunity returns a community or ErrNotFound.
func (db *DB) GetCommunity(ctx context.Context, id int64) (*models.Community, error) {
	c, err := scanCommunity(db.conn.QueryRowContext(ctx, communitySelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Community not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get community: %w", err)
	}
	return c, nil
}

// ListCommunities returns every community with its member count.
func (db *DB) ListCommunities(ctx context.Context) ([]models.Community, error) {
	return db.queryCommunities(ctx, communitySelect+` ORDER BY c.created_at DESC, c.id DESC`)
}

// ListJoinedCommunities returns the communities a user belongs to,
// including the ones they created.
func (db *DB) ListJoinedCommunities(ctx context.Context, userID int64) ([]models.Community, error) {
	return db.queryCommunities(ctx, communitySelect+`
		WHERE c.id IN (SELECT community_id FROM community_members WHERE user_id = ?)
		ORDER BY c.created_at DESC, c.id DESC`, userID)
}

// ListCreatedCommunities returns the communities a user created.
func (db *DB) ListCreatedCommunities(ctx context.Context, userID int64) ([]models.Community, error) {
	return db.queryCommunities(ctx, communitySelect+` WHERE c.creator_id = ? ORDER BY c.created_at DESC, c.id DESC`, userID)
}

// IsCommunityMember reports whether a user belongs to a community.
func (db *DB) IsCommunityMember(ctx context.Context, communityID, userID int64) (bool, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM community_members WHERE community_id = ? AND user_id = ?`,
		communityID, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return n > 0, nil
}

// JoinCommunity adds a member and rewards the creator with coins minted
// through the ledger, in one transaction.
func (db *DB) JoinCommunity(ctx context.Context, communityID, userID, reward int64) (*models.JoinResult, error) {
	result := &models.JoinResult{CommunityID: communityID}
	err := db.ledger.Run(ctx, func(tx *ledger.Tx) error {
		result.CreatorReward = 0

		creator, err := communityCreator(ctx, tx, communityID)
		if err != nil {
			return err
		}
		result.CreatorID = creator
		if creator == userID {
			return invalidInput("You cannot join your own community")
		}

		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM community_members WHERE community_id = ? AND user_id = ?`,
			communityID, userID).Scan(&n); err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if n > 0 {
			return conflict("You are already a member of this community")
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO community_members (community_id, user_id, joined_at) VALUES (?, ?, ?)`,
			communityID, userID, time.Now().UTC()); err != nil {
			if isUniqueViolation(err) {
				return conflict("You are already a member of this community")
			}
			return fmt.Errorf("insert membership: %w", err)
		}

		if reward <= 0 {
			return nil
		}
		_, err = db.ledger.Post(ctx, tx, ledger.Entry{
			IdempotencyKey: "community_join:" + strconv.FormatInt(communityID, 10) + ":" + strconv.FormatInt(userID, 10),
			Reason:         models.ReasonCommunityJoinReward,
			To:             creator,
			Amount:         reward,
			Memo:           "New member joined your community",
			Reference:      "community:" + strconv.FormatInt(communityID, 10),
		})
		switch {
		case errors.Is(err, ledger.ErrDuplicateEntry):
			// A member who left and rejoined does not pay the creator again.
			return nil
		case err != nil:
			return err
		}
		result.CreatorReward = reward
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LeaveCommunity removes a membership. The creator cannot leave.
func (db *DB) LeaveCommunity(ctx context.Context, communityID, userID int64) error {
	return db.InTx(ctx, func(tx *sql.Tx) error {
		creator, err := communityCreator(ctx, tx, communityID)
		if err != nil {
			return err
		}
		if creator == userID {
			return invalidInput("The creator cannot leave their own community")
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM community_members WHERE community_id = ? AND user_id = ?`, communityID, userID)
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return notFound("You are not a member of this community")
		}
		return nil
	})
}

// rowQueryer is satisfied by *sql.DB, *sql.Tx and *ledger.Tx.
type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// communityCreator returns the creator of a community or ErrNotFound.
func communityCreator(ctx context.Context, q rowQueryer, communityID int64) (int64, error) {
	var creator int64
	err := q.QueryRowContext(ctx, `SELECT creator_id FROM communities WHERE id = ?`, communityID).Scan(&creator)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound("Community not found")
	}
	if err != nil {
		return 0, fmt.Errorf("get community: %w", err)
	}
	return creator, nil
}

// UpdateCommunity replaces the editable fields of a community. Only the
// creator may edit it.
func (db *DB) UpdateCommunity(ctx context.Context, userID int64, c *models.Community) (*models.Community, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, invalidInput("Community name is required")
	}
	if c.Level == "" {
		c.Level = models.LevelBeginner
	}
	if !models.IsValidCommunityLevel(c.Level) {
		return nil, invalidInput("Invalid community level")
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return nil, invalidInput("Start and end dates are required")
	}
	if !c.EndDate.After(c.StartDate) {
		return nil, invalidInput("End date must be after start date")
	}

	err := db.InTx(ctx, func(tx *sql.Tx) error {
		creator, err := communityCreator(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		if creator != userID {
			return forbidden("Only the creator can edit this community")
		}

		var taken int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM communities WHERE name = ? AND id <> ?`, name, c.ID).Scan(&taken); err != nil {
			return fmt.Errorf("check community name: %w", err)
		}
		if taken > 0 {
			return conflict("A community with this name already exists")
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE communities
			SET name = ?, description = ?, level = ?, start_date = ?, end_date = ?
			WHERE id = ?`,
			name, nullString(c.Description), c.Level, dateArg(c.StartDate), dateArg(c.EndDate), c.ID); err != nil {
			return fmt.Errorf("update community: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetCommunity(ctx, c.ID)
}
