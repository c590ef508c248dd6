// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"testing"
)

func TestMessaging(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := db.SendMessage(ctx, alice.ID, 9999, "hi", "")
	assertKind(t, err, ErrNotFound)
	_, err = db.SendMessage(ctx, alice.ID, bob.ID, "   ", "")
	assertKind(t, err, ErrInvalidInput)

	first, err := db.SendMessage(ctx, alice.ID, bob.ID, "Hi Bob", "")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if first.Type != "text" || first.IsRead {
		t.Errorf("message = %+v", first)
	}
	if _, err := db.SendMessage(ctx, alice.ID, bob.ID, "Are you free tomorrow?", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := db.SendMessage(ctx, carol.ID, bob.ID, "Hello from Carol", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	unread, err := db.UnreadCount(ctx, bob.ID)
	if err != nil || unread != 3 {
		t.Fatalf("UnreadCount = %d, %v", unread, err)
	}

	convs, err := db.ListConversations(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("conversations = %d, want 2", len(convs))
	}
	byContact := map[int64]int{}
	for _, c := range convs {
		byContact[c.ContactID] = c.UnreadCount
		if c.ContactID == alice.ID && c.LastMessage != "Are you free tomorrow?" {
			t.Errorf("last message with alice = %q", c.LastMessage)
		}
	}
	if byContact[alice.ID] != 2 || byContact[carol.ID] != 1 {
		t.Errorf("unread per contact = %v", byContact)
	}

	thread, err := db.GetThread(ctx, bob.ID, alice.ID, 0)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if len(thread) != 2 || thread[0].ID != first.ID {
		t.Fatalf("thread = %+v", thread)
	}
	unread, err = db.UnreadCount(ctx, bob.ID)
	if err != nil || unread != 1 {
		t.Errorf("UnreadCount after reading alice = %d, %v", unread, err)
	}

	after, err := db.GetThread(ctx, bob.ID, alice.ID, thread[1].ID)
	if err != nil || len(after) != 0 {
		t.Errorf("thread after last id = %d, %v", len(after), err)
	}

	// A reply stays unread until the receiver marks it.
	if _, err := db.SendMessage(ctx, bob.ID, alice.ID, "Yes", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	n, err := db.MarkRead(ctx, alice.ID, bob.ID)
	if err != nil || n != 1 {
		t.Errorf("MarkRead = %d, %v", n, err)
	}
	n, err = db.MarkRead(ctx, bob.ID, carol.ID)
	if err != nil || n != 1 {
		t.Errorf("MarkRead carol = %d, %v", n, err)
	}
	unread, err = db.UnreadCount(ctx, bob.ID)
	if err != nil || unread != 0 {
		t.Errorf("UnreadCount = %d, %v", unread, err)
	}
}
