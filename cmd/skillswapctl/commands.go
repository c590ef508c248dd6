// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/skillswap/internal/config"
	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
)

// errLedgerInconsistent makes `ledger verify` exit non-zero.
var errLedgerInconsistent = errors.New("ledger is inconsistent")

type cliOptions struct {
	dbPath  string
	timeout time.Duration
	jsonOut bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "skillswapctl",
		Short: "Operate a Skillswap coin ledger",
		Long: `skillswapctl inspects and adjusts the Skillswap coin ledger.

Available commands:
  ledger verify  - Check balances against ledger legs
  coins grant    - Mint coins to a user
  coins deduct   - Burn coins from a user
  balance        - Show a user's balance`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
		},
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "DuckDB file (default: database.path from config)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "Operation timeout")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newLedgerCmd(opts), newCoinsCmd(opts), newBalanceCmd(opts))
	return root
}

// openDB opens the database named by --db, falling back to the server
// configuration.
func openDB(opts *cliOptions) (*database.DB, error) {
	dbCfg := config.DatabaseConfig{Path: opts.dbPath, MaxMemory: "512MB", Threads: 2}
	if opts.dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		dbCfg = cfg.Database
	}
	dbCfg.SeedCatalog = false
	db, err := database.New(&dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbCfg.Path, err)
	}
	return db, nil
}

// withDB runs fn against an open database and closes it afterwards.
func withDB(cmd *cobra.Command, opts *cliOptions, fn func(ctx context.Context, db *database.DB) error) (err error) {
	db, err := openDB(opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	return fn(ctx, db)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLedgerCmd(opts *cliOptions) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the coin ledger",
	}
	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Verify balances, entry sums and total supply",
		Long: `Recomputes every balance from the ledger legs and compares it with the
stored balance. Also checks that every entry nets to zero and that total
supply equals minted minus burned. Exits 1 when anything is off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, opts, func(ctx context.Context, db *database.DB) error {
				report, err := db.Ledger().Verify(ctx)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					if err := printJSON(cmd.OutOrStdout(), report); err != nil {
						return err
					}
				} else {
					printReport(cmd.OutOrStdout(), report)
				}
				if !report.OK() {
					return errLedgerInconsistent
				}
				return nil
			})
		},
	})
	return ledgerCmd
}

func printReport(w io.Writer, r *models.LedgerReport) {
	fmt.Fprintf(w, "users:         %d\n", r.Users)
	fmt.Fprintf(w, "entries:       %d\n", r.Entries)
	fmt.Fprintf(w, "minted:        %d\n", r.Minted)
	fmt.Fprintf(w, "burned:        %d\n", r.Burned)
	fmt.Fprintf(w, "total supply:  %d\n", r.TotalSupply)
	for _, m := range r.Mismatches {
		fmt.Fprintf(w, "MISMATCH user %d: stored %d, expected %d\n", m.UserID, m.Stored, m.Expected)
	}
	for _, id := range r.Negative {
		fmt.Fprintf(w, "NEGATIVE balance: user %d\n", id)
	}
	for _, id := range r.UnbalancedIDs {
		fmt.Fprintf(w, "UNBALANCED entry: %s\n", id)
	}
	if r.OK() {
		fmt.Fprintln(w, "ledger OK")
	}
}

type adjustFlags struct {
	userID int64
	amount int64
	memo   string
	key    string
}

func newCoinsCmd(opts *cliOptions) *cobra.Command {
	coinsCmd := &cobra.Command{
		Use:   "coins",
		Short: "Grant or deduct coins",
	}
	coinsCmd.AddCommand(
		newAdjustCmd(opts, "grant", "Mint coins to a user", models.ReasonAdminGrant),
		newAdjustCmd(opts, "deduct", "Burn coins from a user", models.ReasonAdminDeduct),
	)
	return coinsCmd
}

func newAdjustCmd(opts *cliOptions, use, short, reason string) *cobra.Command {
	f := &adjustFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.userID <= 0 {
				return errors.New("--user is required")
			}
			if f.amount <= 0 {
				return errors.New("--amount must be positive")
			}
			key := ""
			if f.key != "" {
				key = fmt.Sprintf("cli:%s:%d:%s", use, f.userID, f.key)
			}
			memo := f.memo
			if memo == "" {
				memo = "skillswapctl " + use
			}

			return withDB(cmd, opts, func(ctx context.Context, db *database.DB) error {
				l := db.Ledger()
				var (
					posted ledger.Posted
					err    error
				)
				if reason == models.ReasonAdminGrant {
					posted, err = l.Mint(ctx, f.userID, f.amount, reason, memo, key)
				} else {
					posted, err = l.Burn(ctx, f.userID, f.amount, reason, memo, key)
				}
				if errors.Is(err, ledger.ErrDuplicateEntry) {
					fmt.Fprintf(cmd.OutOrStdout(), "already applied (key %q)\n", f.key)
					return nil
				}
				if err != nil {
					return err
				}
				balance, err := l.Balance(ctx, f.userID)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(cmd.OutOrStdout(), map[string]interface{}{
						"entry_id": posted.EntryID,
						"user_id":  f.userID,
						"amount":   posted.Amount,
						"balance":  balance,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d coins for user %d (entry %s), balance %d\n",
					use, posted.Amount, f.userID, posted.EntryID, balance)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&f.userID, "user", 0, "User ID")
	cmd.Flags().Int64Var(&f.amount, "amount", 0, "Number of coins")
	cmd.Flags().StringVar(&f.memo, "memo", "", "Ledger memo")
	cmd.Flags().StringVar(&f.key, "key", "", "Idempotency key; a repeated key is applied once")
	return cmd
}

func newBalanceCmd(opts *cliOptions) *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a user's coin balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID <= 0 {
				return errors.New("--user is required")
			}
			return withDB(cmd, opts, func(ctx context.Context, db *database.DB) error {
				balance, err := db.Ledger().Balance(ctx, userID)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"user_id": userID, "coins": balance})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %d: %d coins\n", userID, balance)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	return cmd
}
