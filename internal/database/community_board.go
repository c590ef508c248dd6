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
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/skillswap/internal/models"
)

// ListComments returns a community's comments, newest first.
func (db *DB) ListComments(ctx context.Context, communityID int64) ([]models.CommunityComment, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT cc.id, cc.community_id, cc.user_id, COALESCE(u.name, ''), cc.content, cc.created_at, cc.updated_at
		FROM community_comments cc
		LEFT JOIN users u ON u.id = cc.user_id
		WHERE cc.community_id = ?
		ORDER BY cc.created_at DESC, cc.id DESC`, communityID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]models.CommunityComment, 0)
	for rows.Next() {
		var c models.CommunityComment
		if err := rows.Scan(&c.ID, &c.CommunityID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PostComment adds a comment to a community board.
func (db *DB) PostComment(ctx context.Context, communityID, userID int64, content string) (*models.CommunityComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidInput("Comment content is required")
	}
	if _, err := communityCreator(ctx, db.conn, communityID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &models.CommunityComment{CommunityID: communityID, UserID: userID, Content: content, CreatedAt: now, UpdatedAt: now}
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO community_comments (community_id, user_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`, communityID, userID, content, now, now).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// commentOwner returns the author and community of a comment.
func commentOwner(ctx context.Context, q rowQueryer, commentID int64) (author, communityID int64, err error) {
	err = q.QueryRowContext(ctx,
		`SELECT user_id, community_id FROM community_comments WHERE id = ?`, commentID).Scan(&author, &communityID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, notFound("Comment not found")
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get comment: %w", err)
	}
	return author, communityID, nil
}

// EditComment changes the content of a comment. Only the author may edit.
func (db *DB) EditComment(ctx context.Context, userID, commentID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return invalidInput("Comment content is required")
	}
	return db.InTx(ctx, func(tx *sql.Tx) error {
		author, _, err := commentOwner(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if author != userID {
			return forbidden("You can only edit your own comments")
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE community_comments SET content = ?, updated_at = ? WHERE id = ?`,
			content, time.Now().UTC(), commentID); err != nil {
			return fmt.Errorf("update comment: %w", err)
		}
		return nil
	})
}

// DeleteComment removes a comment. The author or the community creator may
// delete it.
func (db *DB) DeleteComment(ctx context.Context, userID, commentID int64) error {
	return db.InTx(ctx, func(tx *sql.Tx) error {
		author, communityID, err := commentOwner(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if author != userID {
			creator, err := communityCreator(ctx, tx, communityID)
			if err != nil {
				return err
			}
			if creator != userID {
				return forbidden("You can only delete your own comments")
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM community_comments WHERE id = ?`, commentID); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}

// ListResources returns the links shared with a community, newest first.
func (db *DB) ListResources(ctx context.Context, communityID int64) ([]models.CommunityResource, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT r.id, r.community_id, r.user_id, COALESCE(u.name, ''), r.title, r.url,
		       COALESCE(r.description, ''), r.created_at
		FROM community_resources r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.community_id = ?
		ORDER BY r.created_at DESC, r.id DESC`, communityID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	out := make([]models.CommunityResource, 0)
	for rows.Next() {
		var r models.CommunityResource
		if err := rows.Scan(&r.ID, &r.CommunityID, &r.UserID, &r.UserName, &r.Title, &r.URL, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// validLink accepts absolute http and https URLs.
func validLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ShareResource adds a link to a community. Only members may share.
func (db *DB) ShareResource(ctx context.Context, r *models.CommunityResource) (*models.CommunityResource, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
	if r.Title == "" || r.URL == "" {
		return nil, invalidInput("Title and URL are required")
	}
	if !validLink(r.URL) {
		return nil, invalidInput("Invalid URL")
	}
	if _, err := communityCreator(ctx, db.conn, r.CommunityID); err != nil {
		return nil, err
	}
	member, err := db.IsCommunityMember(ctx, r.CommunityID, r.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, forbidden("Only members can share resources")
	}

	r.CreatedAt = time.Now().UTC()
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO community_resources (community_id, user_id, title, url, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		r.CommunityID, r.UserID, r.Title, r.URL, nullString(r.Description), r.CreatedAt).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("insert resource: %w", err)
	}
	return r, nil
}

// DeleteResource removes a shared link. The sharer or the community creator
// may delete it.
func (db *DB) DeleteResource(ctx context.Context, userID, resourceID int64) error {
	return db.InTx(ctx, func(tx *sql.Tx) error {
		var sharer, communityID int64
		err := tx.QueryRowContext(ctx,
			`SELECT user_id, community_id FROM community_resources WHERE id = ?`, resourceID).Scan(&sharer, &communityID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Resource not found")
		}
		if err != nil {
			return fmt.Errorf("get resource: %w", err)
		}
		if sharer != userID {
			creator, err := communityCreator(ctx, tx, communityID)
			if err != nil {
				return err
			}
			if creator != userID {
				return forbidden("You can only delete your own resources")
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM community_resources WHERE id = ?`, resourceID); err != nil {
			return fmt.Errorf("delete resource: %w", err)
		}
		return nil
	})
}
