// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

// Command skillswapctl is the operator CLI. It opens the server's DuckDB
// file directly, so stop the server first or point --db at a copy.
//
//	skillswapctl ledger verify
//	skillswapctl coins grant --user 42 --amount 100 --memo "contest prize"
//	skillswapctl coins deduct --user 42 --amount 10 --key refund-17
//	skillswapctl balance --user 42
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
