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

const userColumns = `id, name, username, email, password_hash, phone, COALESCE(bio, ''), coins, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Phone,
		&u.Bio, &u.Coins, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers an account and mints the signup bonus through the
// ledger in the same transaction.
func (db *DB) CreateUser(ctx context.Context, nu models.NewUser, signupBonus int64) (*models.User, error) {
	email := NormalizeEmail(nu.Email)
	username := strings.TrimSpace(nu.Username)
	now := time.Now().UTC()

	var id int64
	err := db.ledger.Run(ctx, func(tx *ledger.Tx) error {
		var taken int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&taken); err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken > 0 {
			return conflict("Email already registered")
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&taken); err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken > 0 {
			return conflict("Username already taken")
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (name, username, email, password_hash, phone, coins, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 0, ?, ?)
			RETURNING id`,
			strings.TrimSpace(nu.Name), username, email, nu.PasswordHash, nu.Phone, now, now).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return conflict("Email or username already registered")
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if signupBonus > 0 {
			_, err := db.ledger.Post(ctx, tx, ledger.Entry{
				IdempotencyKey: "signup:" + strconv.FormatInt(id, 10),
				Reason:         models.ReasonSignupBonus,
				To:             id,
				Amount:         signupBonus,
				Memo:           "Welcome bonus",
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetUserByID(ctx, id)
}

// GetUserByID returns a user or ErrNotFound.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user or ErrNotFound. The lookup is case-insensitive.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, NormalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns public profiles, optionally filtered by a name or
// username substring.
func (db *DB) ListUsers(ctx context.Context, search string, limit int) ([]models.PublicProfile, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, username, COALESCE(bio, ''), created_at
		FROM users
		WHERE lower(name) LIKE ? OR lower(username) LIKE ?
		ORDER BY name, id
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.PublicProfile, 0)
	for rows.Next() {
		var p models.PublicProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Username, &p.Bio, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, p)
	}
	return users, rows.Err()
}

// UpdateProfile applies the non-nil fields of upd.
func (db *DB) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*upd.Name))
	}
	if upd.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *upd.Phone)
	}
	if upd.Bio != nil {
		sets = append(sets, "bio = ?")
		args = append(args, *upd.Bio)
	}
	if len(sets) == 0 {
		return nil, invalidInput("No fields to update")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	err := db.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return notFound("User not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetUserByID(ctx, id)
}

// SetPasswordHash replaces a user's password hash.
func (db *DB) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return db.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
			hash, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return notFound("User not found")
		}
		return nil
	})
}

// ownedRowDeletes removes everything an account owns. Ledger rows are kept.
// $1 is the user ID.
var ownedRowDeletes = []string{
	`DELETE FROM favorites WHERE user_id = $1 OR skill_id IN (SELECT id FROM skills WHERE user_id = $1)`,
	`DELETE FROM skill_requests WHERE requester_id = $1 OR owner_id = $1`,
	`DELETE FROM user_learnings WHERE user_id = $1 OR skill_id IN (SELECT id FROM skills WHERE user_id = $1)`,
	`DELETE FROM skills WHERE user_id = $1`,
	`DELETE FROM community_members WHERE user_id = $1 OR community_id IN (SELECT id FROM communities WHERE creator_id = $1)`,
	`DELETE FROM community_comments WHERE user_id = $1 OR community_id IN (SELECT id FROM communities WHERE creator_id = $1)`,
	`DELETE FROM community_resources WHERE user_id = $1 OR community_id IN (SELECT id FROM communities WHERE creator_id = $1)`,
	`DELETE FROM communities WHERE creator_id = $1`,
	`DELETE FROM messages WHERE sender_id = $1 OR receiver_id = $1`,
	`DELETE FROM internship_applications WHERE applicant_id = $1 OR internship_id IN (SELECT id FROM internships WHERE poster_id = $1)`,
	`DELETE FROM internships WHERE poster_id = $1`,
	`DELETE FROM ratings WHERE user_id = $1`,
	`DELETE FROM calendar_events WHERE user_id = $1`,
	`DELETE FROM user_roadmaps WHERE user_id = $1`,
}

// DeleteUser closes an account: the remaining balance is burned through the
// ledger, owned rows are removed and the user row is deleted. Certificates,
// purchases and ledger rows stay for audit. Returns the burned amount.
func (db *DB) DeleteUser(ctx context.Context, id int64) (int64, error) {
	var burned int64
	err := db.ledger.Run(ctx, func(tx *ledger.Tx) error {
		burned = 0
		balance, err := db.ledger.BalanceTx(ctx, tx, id)
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return notFound("User not found")
		}
		if err != nil {
			return err
		}

		if balance > 0 {
			if _, err := db.ledger.Post(ctx, tx, ledger.Entry{
				IdempotencyKey: "account_closed:" + strconv.FormatInt(id, 10),
				Reason:         models.ReasonAccountClosed,
				From:           id,
				Amount:         balance,
				Memo:           "Account closed",
			}); err != nil {
				return err
			}
			burned = balance
		}

		for _, q := range ownedRowDeletes {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("delete owned rows: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	return burned, err
}
