// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/skillswap/internal/models"
)

// ListUsers searches members by name, username or email. With ?email= it
// looks up the one member registered with that address instead.
//
// @Summary List members
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of name, username or email"
// @Param email query string false "Exact email address (case-insensitive)"
// @Param limit query int false "Maximum rows (default 50, max 200)"
// @Success 200 {object} models.APIResponse{data=[]models.PublicProfile}
// @Failure 404 {object} models.APIResponse "No member with that email"
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		user, err := h.db.GetUserByEmail(r.Context(), email)
		if err != nil {
			respondServiceError(w, r, "get user by email", err)
			return
		}
		respondList(w, r, []models.PublicProfile{user.Public()})
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	limit := clamp(getIntParam(r, "limit", 50), 50, 200)

	users, err := h.db.ListUsers(r.Context(), search, limit)
	if err != nil {
		respondServiceError(w, r, "list users", err)
		return
	}
	respondList(w, r, users)
}

// GetUser returns a member's public profile.
//
// @Summary Get a member
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse{data=models.PublicProfile}
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.db.GetUserByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get user", err)
		return
	}
	respondData(w, r, http.StatusOK, user.Public())
}

// GetUserSkills lists the skills a member offers.
//
// @Summary List a member's skills
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse{data=[]models.Skill}
// @Router /users/{id}/skills [get]
func (h *Handler) GetUserSkills(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	skills, err := h.db.ListUserSkills(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "list user skills", err)
		return
	}
	respondList(w, r, skills)
}
