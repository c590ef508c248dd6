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

	"github.com/tomtom215/skillswap/internal/ledger"
	"github.com/tomtom215/skillswap/internal/models"
)

// TransferRequest is a peer transfer addressed by the receiver's email.
type TransferRequest struct {
	SenderID        int64
	ReceiverEmail   string
	Amount          int64
	SkillID         int64
	// TransactionType is a client label such as "tip" or "skill_payment".
	TransactionType string
	Memo            string
	IdempotencyKey  string
}

// TransferCoins resolves the receiver and moves coins from the sender in
// one ledger transaction.
func (db *DB) TransferCoins(ctx context.Context, req TransferRequest) (ledger.Posted, *models.User, error) {
	if req.Amount <= 0 {
		return ledger.Posted{}, nil, invalidInput("Amount must be positive")
	}
	email := NormalizeEmail(req.ReceiverEmail)

	var (
		posted     ledger.Posted
		receiverID int64
	)
	err := db.ledger.Run(ctx, func(tx *ledger.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&receiverID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Receiver not found")
		}
		if err != nil {
			return fmt.Errorf("find receiver: %w", err)
		}
		if receiverID == req.SenderID {
			return invalidInput("You cannot transfer coins to yourself")
		}

		entry := ledger.Entry{
			IdempotencyKey: req.IdempotencyKey,
			Reason:         models.ReasonTransfer,
			From:           req.SenderID,
			To:             receiverID,
			Amount:         req.Amount,
			Memo:           req.Memo,
			Reference:      transferReference(req.SkillID, req.TransactionType),
		}
		posted, err = db.ledger.Post(ctx, tx, entry)
		return err
	})
	if err != nil {
		return ledger.Posted{}, nil, err
	}

	receiver, err := db.GetUserByID(ctx, receiverID)
	if err != nil {
		return posted, nil, err
	}
	return posted, receiver, nil
}

// transferReference joins the optional skill and transaction type into the
// entry reference, e.g. "skill:7 type:tip".
func transferReference(skillID int64, transactionType string) string {
	parts := make([]string, 0, 2)
	if skillID != 0 {
		parts = append(parts, "skill:"+strconv.FormatInt(skillID, 10))
	}
	if transactionType != "" {
		parts = append(parts, "type:"+transactionType)
	}
	return strings.Join(parts, " ")
}
