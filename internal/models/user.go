// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// Role names. These align with the Casbin policy in internal/authz.
const (
	// RoleUser is granted to every registered account.
	RoleUser = "user"

	// RoleAdmin can grant and deduct coins and verify the ledger.
	RoleAdmin = "admin"
)

// IsValidRole checks if a role name is known.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is an account row. Coins is the current balance and is only ever
// changed by the ledger.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"` // normalised, without the 961 prefix
	Bio          string    `json:"bio,omitempty"`
	Coins        int64     `json:"coins"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public strips private fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

// PublicProfile is what other members see of a user.
type PublicProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser holds the validated registration input.
type NewUser struct {
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Phone        string
}

// ProfileUpdate holds optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	Name  *string
	Phone *string
	Bio   *string
}
