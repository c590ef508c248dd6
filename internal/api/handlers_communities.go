// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
)

// CommunityBody is the body of POST /communities and PUT /communities/{id}.
type CommunityBody struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Level       string `json:"level" validate:"omitempty,oneof=Beginner Intermediate Advanced 'All Levels'"`
	StartDate   string `json:"start_date" validate:"required,isodate"`
	EndDate     string `json:"end_date" validate:"required,isodate"`
}

// CommentBody is the body of the community comment endpoints.
type CommentBody struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// ResourceBody is the body of POST /communities/{id}/resources.
type ResourceBody struct {
	Title       string `json:"title" validate:"required,max=300"`
	URL         string `json:"url" validate:"required,url,max=2048"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// toCommunity parses the dates of the body. It writes a 400 and returns
// nil when a date is malformed.
func (b *CommunityBody) toCommunity(w http.ResponseWriter, creatorID int64) *models.Community {
	start, err := models.ParseDate(b.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid start_date", nil)
		return nil
	}
	end, err := models.ParseDate(b.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid end_date", nil)
		return nil
	}
	return &models.Community{
		Name:        strings.TrimSpace(b.Name),
		Description: b.Description,
		Level:       b.Level,
		CreatorID:   creatorID,
		StartDate:   start,
		EndDate:     end,
	}
}

// ListCommunities returns communities. The scope query narrows the list to
// the communities the caller joined or created.
//
// @Summary List communities
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param scope query string false "joined or created"
// @Success 200 {object} models.APIResponse{data=[]models.Community}
// @Router /communities [get]
func (h *Handler) ListCommunities(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		list []models.Community
		err  error
	)
	switch scope := r.URL.Query().Get("scope"); scope {
	case "":
		list, err = h.db.ListCommunities(r.Context())
	case "joined":
		list, err = h.db.ListJoinedCommunities(r.Context(), hctx.UserID)
	case "created":
		list, err = h.db.ListCreatedCommunities(r.Context(), hctx.UserID)
	default:
		respondError(w, http.StatusBadRequest, CodeValidation, "scope must be joined or created", nil)
		return
	}
	if err != nil {
		respondServiceError(w, r, "list communities", err)
		return
	}
	respondList(w, r, list)
}

// CreateCommunity creates a community with the caller as creator and first
// member.
//
// @Summary Create a community
// @Tags Communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CommunityBody true "Community"
// @Success 201 {object} models.APIResponse{data=models.Community}
// @Failure 400 {object} models.APIResponse "Validation error"
// @Router /communities [post]
func (h *Handler) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body CommunityBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	c := body.toCommunity(w, hctx.UserID)
	if c == nil {
		return
	}
	created, err := h.db.CreateCommunity(r.Context(), c)
	if err != nil {
		respondServiceError(w, r, "create community", err)
		return
	}
	respondData(w, r, http.StatusCreated, created)
}

// GetCommunity returns one community.
//
// @Summary Get a community
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.APIResponse{data=models.Community}
// @Failure 404 {object} models.APIResponse "Community not found"
// @Router /communities/{id} [get]
func (h *Handler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.db.GetCommunity(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get community", err)
		return
	}
	respondData(w, r, http.StatusOK, c)
}

// UpdateCommunity edits a community the caller created.
//
// @Summary Update a community
// @Tags Communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body CommunityBody true "Community"
// @Success 200 {object} models.APIResponse{data=models.Community}
// @Failure 403 {object} models.APIResponse "Not the creator"
// @Router /communities/{id} [put]
func (h *Handler) UpdateCommunity(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body CommunityBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	c := body.toCommunity(w, hctx.UserID)
	if c == nil {
		return
	}
	c.ID = id
	updated, err := h.db.UpdateCommunity(r.Context(), hctx.UserID, c)
	if err != nil {
		respondServiceError(w, r, "update community", err)
		return
	}
	respondData(w, r, http.StatusOK, updated)
}

// JoinCommunity adds the caller as a member. The creator is rewarded with
// coins unless the caller is the creator.
//
// @Summary Join a community
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.APIResponse{data=models.JoinResult}
// @Failure 409 {object} models.APIResponse "Already a member"
// @Router /communities/{id}/join [post]
func (h *Handler) JoinCommunity(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.db.JoinCommunity(r.Context(), id, hctx.UserID, h.config.Economy.CommunityJoinReward)
	if err != nil {
		respondServiceError(w, r, "join community", err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Int64("community_id", id).
		Int64("creator_id", result.CreatorID).
		Int64("reward", result.CreatorReward).
		Msg("community joined")

	h.publish(r.Context(), events.CommunityJoined{
		CommunityID: id,
		UserID:      hctx.UserID,
		CreatorID:   result.CreatorID,
		Reward:      result.CreatorReward,
	})
	respondData(w, r, http.StatusOK, result)
}

// LeaveCommunity removes the caller's membership. Creators cannot leave.
//
// @Summary Leave a community
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.APIResponse
// @Router /communities/{id}/leave [post]
func (h *Handler) LeaveCommunity(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.LeaveCommunity(r.Context(), id, hctx.UserID); err != nil {
		respondServiceError(w, r, "leave community", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Left community"})
}

// ListComments returns a community's board.
//
// @Summary List community comments
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.APIResponse{data=[]models.CommunityComment}
// @Router /communities/{id}/comments [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	comments, err := h.db.ListComments(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "list comments", err)
		return
	}
	respondList(w, r, comments)
}

// PostComment adds a comment to a community the caller belongs to.
//
// @Summary Post a comment
// @Tags Communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body CommentBody true "Comment"
// @Success 201 {object} models.APIResponse{data=models.CommunityComment}
// @Failure 403 {object} models.APIResponse "Not a member"
// @Router /communities/{id}/comments [post]
func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body CommentBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	comment, err := h.db.PostComment(r.Context(), id, hctx.UserID, body.Content)
	if err != nil {
		respondServiceError(w, r, "post comment", err)
		return
	}
	respondData(w, r, http.StatusCreated, comment)
}

// EditComment replaces the text of the caller's comment.
//
// @Summary Edit a comment
// @Tags Communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentID path int true "Comment ID"
// @Param request body CommentBody true "Comment"
// @Success 200 {object} models.APIResponse
// @Router /communities/comments/{commentID} [put]
func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "commentID")
	if !ok {
		return
	}
	var body CommentBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	if err := h.db.EditComment(r.Context(), hctx.UserID, id, body.Content); err != nil {
		respondServiceError(w, r, "edit comment", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Comment updated"})
}

// DeleteComment removes the caller's comment.
//
// @Summary Delete a comment
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param commentID path int true "Comment ID"
// @Success 200 {object} models.APIResponse
// @Router /communities/comments/{commentID} [delete]
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "commentID")
	if !ok {
		return
	}
	if err := h.db.DeleteComment(r.Context(), hctx.UserID, id); err != nil {
		respondServiceError(w, r, "delete comment", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

// ListResources returns the links shared in a community.
//
// @Summary List community resources
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.APIResponse{data=[]models.CommunityResource}
// @Router /communities/{id}/resources [get]
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resources, err := h.db.ListResources(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "list resources", err)
		return
	}
	respondList(w, r, resources)
}

// ShareResource adds a link to a community the caller belongs to.
//
// @Summary Share a resource
// @Tags Communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body ResourceBody true "Resource"
// @Success 201 {object} models.APIResponse{data=models.CommunityResource}
// @Router /communities/{id}/resources [post]
func (h *Handler) ShareResource(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body ResourceBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	res, err := h.db.ShareResource(r.Context(), &models.CommunityResource{
		CommunityID: id,
		UserID:      hctx.UserID,
		Title:       body.Title,
		URL:         body.URL,
		Description: body.Description,
	})
	if err != nil {
		respondServiceError(w, r, "share resource", err)
		return
	}
	respondData(w, r, http.StatusCreated, res)
}

// DeleteResource removes a resource the caller shared.
//
// @Summary Delete a resource
// @Tags Communities
// @Produce json
// @Security BearerAuth
// @Param resourceID path int true "Resource ID"
// @Success 200 {object} models.APIResponse
// @Router /communities/resources/{resourceID} [delete]
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "resourceID")
	if !ok {
		return
	}
	if err := h.db.DeleteResource(r.Context(), hctx.UserID, id); err != nil {
		respondServiceError(w, r, "delete resource", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Resource deleted"})
}
