// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package models

import "time"

// CoinPackage is a purchasable bundle of coins.
type CoinPackage struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Coins      int64  `json:"coins"`
	PriceCents int64  `json:"price_cents"`
}

// CoinPackages lists the packages offered at checkout.
var CoinPackages = []CoinPackage{
	{ID: "small", Name: "20 Coins", Coins: 20, PriceCents: 1000},
	{ID: "medium", Name: "50 Coins", Coins: 50, PriceCents: 2000},
	{ID: "large", Name: "300 Coins", Coins: 300, PriceCents: 10000},
}

// FindCoinPackage looks a package up by ID.
func FindCoinPackage(id string) (CoinPackage, bool) {
	for _, p := range CoinPackages {
		if p.ID == id {
			return p, true
		}
	}
	return CoinPackage{}, false
}

// Purchase is a completed Stripe checkout that credited coins.
type Purchase struct {
	SessionID   string    `json:"session_id"`
	UserID      int64     `json:"user_id"`
	PackageID   string    `json:"package_id"`
	Coins       int64     `json:"coins"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	EntryID     string    `json:"entry_id"`
	CreatedAt   time.Time `json:"created_at"`
}
