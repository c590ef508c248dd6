// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/skillswap/internal/database"
	"github.com/tomtom215/skillswap/internal/models"
)

const roadmapPathsCacheKey = "roadmap-paths"

// SelectPathBody is the body of PUT /roadmaps/me.
type SelectPathBody struct {
	PathID int64 `json:"path_id" validate:"required,gt=0"`
}

// RoadmapProgressBody is the body of PUT /roadmaps/me/progress.
type RoadmapProgressBody struct {
	CurrentLevel       string `json:"current_level" validate:"required,oneof=Beginner Intermediate Advanced"`
	ProgressPercentage int    `json:"progress_percentage" validate:"gte=0,lte=100"`
}

// roadmapLevelParam reads an optional ?level= filter.
func roadmapLevelParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	level := r.URL.Query().Get("level")
	if level != "" && !models.ValidRoadmapLevel(level) {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid level", nil)
		return "", false
	}
	return level, true
}

// ListPaths returns every development path.
//
// @Summary List development paths
// @Tags Roadmaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.DevelopmentPath}
// @Router /roadmaps/paths [get]
func (h *Handler) ListPaths(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.catalog.Get(roadmapPathsCacheKey); ok {
		respondList(w, r, cached.([]models.DevelopmentPath))
		return
	}
	paths, err := h.db.ListPaths(r.Context())
	if err != nil {
		respondServiceError(w, r, "list paths", err)
		return
	}
	h.catalog.Set(roadmapPathsCacheKey, paths)
	respondList(w, r, paths)
}

// GetPath returns one development path.
//
// @Summary Get a development path
// @Tags Roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Path ID"
// @Success 200 {object} models.APIResponse{data=models.DevelopmentPath}
// @Router /roadmaps/paths/{id} [get]
func (h *Handler) GetPath(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.db.GetPath(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get path", err)
		return
	}
	respondData(w, r, http.StatusOK, p)
}

// PathLevels returns a path's levels in order.
//
// @Summary List the levels of a path
// @Tags Roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Path ID"
// @Success 200 {object} models.APIResponse{data=[]models.RoadmapLevel}
// @Router /roadmaps/paths/{id}/levels [get]
func (h *Handler) PathLevels(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	levels, err := h.db.ListPathLevels(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "list path levels", err)
		return
	}
	respondList(w, r, levels)
}

// PathResources returns a path's learning resources.
//
// @Summary List the resources of a path
// @Tags Roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Path ID"
// @Param type query string false "Resource type (course, book, video, doc)"
// @Param level query string false "Beginner, Intermediate or Advanced"
// @Success 200 {object} models.APIResponse{data=[]models.RoadmapResource}
// @Router /roadmaps/paths/{id}/resources [get]
func (h *Handler) PathResources(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	level, ok := roadmapLevelParam(w, r)
	if !ok {
		return
	}
	resources, err := h.db.ListPathResources(r.Context(), id, r.URL.Query().Get("type"), level)
	if err != nil {
		respondServiceError(w, r, "list path resources", err)
		return
	}
	respondList(w, r, resources)
}

// PathProjects returns a path's practice projects from Beginner to Advanced.
//
// @Summary List the projects of a path
// @Tags Roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Path ID"
// @Param level query string false "Beginner, Intermediate or Advanced"
// @Success 200 {object} models.APIResponse{data=[]models.RoadmapProject}
// @Router /roadmaps/paths/{id}/projects [get]
func (h *Handler) PathProjects(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	level, ok := roadmapLevelParam(w, r)
	if !ok {
		return
	}
	projects, err := h.db.ListPathProjects(r.Context(), id, level)
	if err != nil {
		respondServiceError(w, r, "list path projects", err)
		return
	}
	respondList(w, r, projects)
}

// PathRecommendations suggests the caller's next level and project on a path.
//
// @Summary Recommendations for a path
// @Tags Roadmaps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Path ID"
// @Success 200 {object} models.APIResponse{data=models.RoadmapRecommendation}
// @Router /roadmaps/paths/{id}/recommendations [get]
func (h *Handler) PathRecommendations(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := h.db.PathRecommendations(r.Context(), hctx.UserID, id)
	if err != nil {
		respondServiceError(w, r, "path recommendations", err)
		return
	}
	respondData(w, r, http.StatusOK, rec)
}

// MyRoadmap returns the caller's roadmap. The envelope carries no data
// until a path is selected.
//
// @Summary Get my roadmap
// @Tags Roadmaps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.UserRoadmap}
// @Router /roadmaps/me [get]
func (h *Handler) MyRoadmap(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	rm, err := h.db.GetUserRoadmap(r.Context(), hctx.UserID)
	if errors.Is(err, database.ErrNotFound) {
		respondData(w, r, http.StatusOK, nil)
		return
	}
	if err != nil {
		respondServiceError(w, r, "get roadmap", err)
		return
	}
	respondData(w, r, http.StatusOK, rm)
}

// SelectPath sets the caller's roadmap. Choosing a new path resets progress.
//
// @Summary Select a development path
// @Tags Roadmaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SelectPathBody true "Path"
// @Success 200 {object} models.APIResponse{data=models.UserRoadmap}
// @Failure 400 {object} models.APIResponse "Unknown path"
// @Router /roadmaps/me [put]
func (h *Handler) SelectPath(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body SelectPathBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	rm, err := h.db.SelectPath(r.Context(), hctx.UserID, body.PathID)
	if err != nil {
		respondServiceError(w, r, "select path", err)
		return
	}
	respondData(w, r, http.StatusOK, rm)
}

// UpdateRoadmapProgress records the caller's level and percentage.
//
// @Summary Update roadmap progress
// @Tags Roadmaps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RoadmapProgressBody true "Progress"
// @Success 200 {object} models.APIResponse{data=models.UserRoadmap}
// @Failure 404 {object} models.APIResponse "No roadmap selected"
// @Router /roadmaps/me/progress [put]
func (h *Handler) UpdateRoadmapProgress(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body RoadmapProgressBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	rm, err := h.db.UpdateRoadmapProgress(r.Context(), hctx.UserID, body.CurrentLevel, body.ProgressPercentage)
	if err != nil {
		respondServiceError(w, r, "update roadmap progress", err)
		return
	}
	respondData(w, r, http.StatusOK, rm)
}
