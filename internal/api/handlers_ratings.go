// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/models"
)

// RatingBody is the body of POST /ratings.
type RatingBody struct {
	ItemType string `json:"item_type" validate:"required,oneof=skill community"`
	ItemID   int64  `json:"item_id" validate:"required,gt=0"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review   string `json:"review" validate:"omitempty,max=5000"`
}

// FavoriteStatus is returned by GET /favorites/{skillID}.
type FavoriteStatus struct {
	SkillID    int64 `json:"skill_id"`
	IsFavorite bool  `json:"is_favorite"`
}

// itemParams reads the {itemType}/{itemID} path parameters.
func itemParams(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	itemType := chi.URLParam(r, "itemType")
	if !models.IsValidItemType(itemType) {
		respondError(w, http.StatusBadRequest, CodeValidation, "Item type must be skill or community", nil)
		return "", 0, false
	}
	id, ok := pathID(w, r, "itemID")
	return itemType, id, ok
}

// SubmitRating creates or replaces the caller's rating of an item.
//
// @Summary Rate a skill or community
// @Tags Ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RatingBody true "Rating"
// @Success 200 {object} models.APIResponse{data=models.Rating}
// @Failure 404 {object} models.APIResponse "Item not found"
// @Router /ratings [post]
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body RatingBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	rating, err := h.db.SubmitRating(r.Context(), &models.Rating{
		UserID:   hctx.UserID,
		ItemType: body.ItemType,
		ItemID:   body.ItemID,
		Rating:   body.Rating,
		Review:   body.Review,
	})
	if err != nil {
		respondServiceError(w, r, "submit rating", err)
		return
	}
	respondData(w, r, http.StatusOK, rating)
}

// MyRating returns the caller's rating of an item. Data is null when the
// caller has not rated it.
//
// @Summary Get my rating of an item
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Param itemType path string true "skill or community"
// @Param itemID path int true "Item ID"
// @Success 200 {object} models.APIResponse{data=models.Rating}
// @Router /ratings/{itemType}/{itemID}/mine [get]
func (h *Handler) MyRating(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemType, itemID, ok := itemParams(w, r)
	if !ok {
		return
	}
	rating, err := h.db.GetUserRating(r.Context(), hctx.UserID, itemType, itemID)
	if err != nil {
		respondServiceError(w, r, "get my rating", err)
		return
	}
	respondData(w, r, http.StatusOK, rating)
}

// ItemRatings returns the ratings of an item with their average.
//
// @Summary Get the ratings of an item
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Param itemType path string true "skill or community"
// @Param itemID path int true "Item ID"
// @Success 200 {object} models.APIResponse{data=models.RatingSummary}
// @Router /ratings/{itemType}/{itemID} [get]
func (h *Handler) ItemRatings(w http.ResponseWriter, r *http.Request) {
	itemType, itemID, ok := itemParams(w, r)
	if !ok {
		return
	}
	summary, err := h.db.GetItemRatings(r.Context(), itemType, itemID)
	if err != nil {
		respondServiceError(w, r, "get item ratings", err)
		return
	}
	respondData(w, r, http.StatusOK, summary)
}

// TopRated lists the best rated items.
//
// @Summary List top rated items
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Param type query string false "skill, community or all"
// @Param limit query int false "Maximum rows (default 10, max 100)"
// @Success 200 {object} models.APIResponse{data=[]models.TopRatedItem}
// @Router /ratings/top [get]
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("type")
	if itemType != "" && itemType != "all" && !models.IsValidItemType(itemType) {
		respondError(w, http.StatusBadRequest, CodeValidation, "type must be skill, community or all", nil)
		return
	}
	limit := clamp(getIntParam(r, "limit", database.DefaultTopRatedLimit), database.DefaultTopRatedLimit, 100)
	items, err := h.db.TopRated(r.Context(), itemType, limit)
	if err != nil {
		respondServiceError(w, r, "top rated", err)
		return
	}
	respondList(w, r, items)
}

// ListFavorites returns the caller's bookmarked skills.
//
// @Summary List my favorites
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Favorite}
// @Router /favorites [get]
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	favs, err := h.db.ListFavorites(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list favorites", err)
		return
	}
	respondList(w, r, favs)
}

// CheckFavorite reports whether the caller bookmarked a skill.
//
// @Summary Check a favorite
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param skillID path int true "Skill ID"
// @Success 200 {object} models.APIResponse{data=FavoriteStatus}
// @Router /favorites/{skillID} [get]
func (h *Handler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skillID, ok := pathID(w, r, "skillID")
	if !ok {
		return
	}
	fav, err := h.db.IsFavorite(r.Context(), hctx.UserID, skillID)
	if err != nil {
		respondServiceError(w, r, "check favorite", err)
		return
	}
	respondData(w, r, http.StatusOK, FavoriteStatus{SkillID: skillID, IsFavorite: fav})
}

// AddFavorite bookmarks a skill. Adding an existing favorite is a no-op.
//
// @Summary Add a favorite
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param skillID path int true "Skill ID"
// @Success 200 {object} models.APIResponse{data=FavoriteStatus}
// @Failure 404 {object} models.APIResponse "Skill not found"
// @Router /favorites/{skillID} [post]
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skillID, ok := pathID(w, r, "skillID")
	if !ok {
		return
	}
	if err := h.db.AddFavorite(r.Context(), hctx.UserID, skillID); err != nil {
		respondServiceError(w, r, "add favorite", err)
		return
	}
	respondData(w, r, http.StatusOK, FavoriteStatus{SkillID: skillID, IsFavorite: true})
}

// RemoveFavorite drops a bookmark.
//
// @Summary Remove a favorite
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param skillID path int true "Skill ID"
// @Success 200 {object} models.APIResponse{data=FavoriteStatus}
// @Router /favorites/{skillID} [delete]
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skillID, ok := pathID(w, r, "skillID")
	if !ok {
		return
	}
	if err := h.db.RemoveFavorite(r.Context(), hctx.UserID, skillID); err != nil {
		respondServiceError(w, r, "remove favorite", err)
		return
	}
	respondData(w, r, http.StatusOK, FavoriteStatus{SkillID: skillID, IsFavorite: false})
}
