// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"testing"

	"github.com/tomtom215/skillswap/internal/models"
)

func TestSkillsCRUD(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	_, err := db.CreateSkill(ctx, &models.Skill{UserID: owner.ID, Name: "x", CourseCode: "NOPE999"})
	assertKind(t, err, ErrInvalidInput)

	s := createTestSkill(t, db, owner.ID, 15)
	if s.OwnerName != owner.Name || s.CourseName != "Introduction to Programming" {
		t.Errorf("joined names = %q / %q", s.OwnerName, s.CourseName)
	}

	s.Name = "Advanced Go"
	_, err = db.UpdateSkill(ctx, other.ID, s)
	assertKind(t, err, ErrForbidden)
	updated, err := db.UpdateSkill(ctx, owner.ID, s)
	if err != nil {
		t.Fatalf("UpdateSkill: %v", err)
	}
	if updated.Name != "Advanced Go" {
		t.Errorf("name = %s", updated.Name)
	}

	byCourse, err := db.ListSkillsByCourse(ctx, "CSC201")
	if err != nil || len(byCourse) != 1 {
		t.Errorf("ListSkillsByCourse = %d, %v", len(byCourse), err)
	}

	err = db.DeleteSkill(ctx, other.ID, s.ID)
	assertKind(t, err, ErrForbidden)
	if err := db.DeleteSkill(ctx, owner.ID, s.ID); err != nil {
		t.Fatalf("DeleteSkill: %v", err)
	}
	_, err = db.GetSkill(ctx, s.ID)
	assertKind(t, err, ErrNotFound)
}

func TestRatings(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	a := createTestUser(t, db, "a")
	b := createTestUser(t, db, "b")
	skill := createTestSkill(t, db, owner.ID, 0)

	_, err := db.SubmitRating(ctx, &models.Rating{UserID: a.ID, ItemType: models.ItemSkill, ItemID: skill.ID, Rating: 6})
	assertKind(t, err, ErrInvalidInput)
	_, err = db.SubmitRating(ctx, &models.Rating{UserID: a.ID, ItemType: "course", ItemID: skill.ID, Rating: 3})
	assertKind(t, err, ErrInvalidInput)
	_, err = db.SubmitRating(ctx, &models.Rating{UserID: a.ID, ItemType: models.ItemCommunity, ItemID: 9999, Rating: 3})
	assertKind(t, err, ErrNotFound)

	if _, err := db.SubmitRating(ctx, &models.Rating{UserID: a.ID, ItemType: models.ItemSkill, ItemID: skill.ID, Rating: 2}); err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}
	// Rating again replaces the earlier score.
	r, err := db.SubmitRating(ctx, &models.Rating{UserID: a.ID, ItemType: models.ItemSkill, ItemID: skill.ID, Rating: 4, Review: "Clear"})
	if err != nil {
		t.Fatalf("SubmitRating update: %v", err)
	}
	if r.Rating != 4 || r.Review != "Clear" {
		t.Errorf("rating = %+v", r)
	}
	if _, err := db.SubmitRating(ctx, &models.Rating{UserID: b.ID, ItemType: models.ItemSkill, ItemID: skill.ID, Rating: 5}); err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}

	summary, err := db.GetItemRatings(ctx, models.ItemSkill, skill.ID)
	if err != nil {
		t.Fatalf("GetItemRatings: %v", err)
	}
	if summary.Count != 2 || summary.Average != 4.5 {
		t.Errorf("summary = %d ratings, avg %.2f", summary.Count, summary.Average)
	}

	none, err := db.GetUserRating(ctx, owner.ID, models.ItemSkill, skill.ID)
	if err != nil || none != nil {
		t.Errorf("GetUserRating for unrated = %+v, %v", none, err)
	}

	top, err := db.TopRated(ctx, "all", 0)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(top) != 1 || top[0].ItemID != skill.ID || top[0].Count != 2 {
		t.Errorf("TopRated = %+v", top)
	}
	_, err = db.TopRated(ctx, "course", 5)
	assertKind(t, err, ErrInvalidInput)
}

func TestFavorites(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	fan := createTestUser(t, db, "fan")
	skill := createTestSkill(t, db, owner.ID, 3)

	for i := 0; i < 2; i++ {
		if err := db.AddFavorite(ctx, fan.ID, skill.ID); err != nil {
			t.Fatalf("AddFavorite #%d: %v", i, err)
		}
	}
	err := db.AddFavorite(ctx, fan.ID, 9999)
	assertKind(t, err, ErrNotFound)

	favs, err := db.ListFavorites(ctx, fan.ID)
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favs) != 1 || favs[0].Skill == nil || favs[0].Skill.Coins != 3 {
		t.Fatalf("favorites = %+v", favs)
	}

	ok, err := db.IsFavorite(ctx, fan.ID, skill.ID)
	if err != nil || !ok {
		t.Errorf("IsFavorite = %v, %v", ok, err)
	}
	if err := db.RemoveFavorite(ctx, fan.ID, skill.ID); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	ok, err = db.IsFavorite(ctx, fan.ID, skill.ID)
	if err != nil || ok {
		t.Errorf("IsFavorite after remove = %v, %v", ok, err)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	createTestSkill(t, db, owner.ID, 0)

	results, err := db.Search(ctx, "programming")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var courses, skills int
	for i, r := range results {
		switch r.Type {
		case "course":
			courses++
			if skills > 0 {
				t.Errorf("course result %d after skill results", i)
			}
		case "skill":
			skills++
			if r.ProviderName != owner.Name {
				t.Errorf("provider = %q", r.ProviderName)
			}
		}
	}
	if courses != 1 || skills != 1 {
		t.Errorf("courses=%d skills=%d, results=%+v", courses, skills, results)
	}

	byCode, err := db.Search(ctx, "csc2")
	if err != nil {
		t.Fatalf("Search by code: %v", err)
	}
	if len(byCode) < 2 {
		t.Errorf("code search = %+v", byCode)
	}

	empty, err := db.Search(ctx, "   ")
	if err != nil || len(empty) != 0 {
		t.Errorf("empty search = %+v, %v", empty, err)
	}
}
