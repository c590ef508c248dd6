// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/skillswap/internal/cache"
	"github.com/tomtom215/skillswap/internal/models"
)

// SkillBody is the body of POST /skills and PUT /skills/{id}.
type SkillBody struct {
	Name          string `json:"name" validate:"required,max=200"`
	Description   string `json:"description" validate:"omitempty,max=5000"`
	Level         string `json:"level" validate:"omitempty,max=50"`
	CategoryID    int64  `json:"category_id" validate:"omitempty,gt=0"`
	CourseCode    string `json:"course_code" validate:"omitempty,max=20"`
	Coins         int64  `json:"coins" validate:"gte=0,lte=100000"`
	DurationHours int    `json:"duration_hours" validate:"gte=0,lte=10000"`
	DurationDays  int    `json:"duration_days" validate:"gte=0,lte=3650"`
}

func (b *SkillBody) toSkill(ownerID int64) *models.Skill {
	return &models.Skill{
		UserID:        ownerID,
		Name:          strings.TrimSpace(b.Name),
		Description:   b.Description,
		Level:         b.Level,
		CategoryID:    b.CategoryID,
		CourseCode:    strings.ToUpper(strings.TrimSpace(b.CourseCode)),
		Coins:         b.Coins,
		DurationHours: b.DurationHours,
		DurationDays:  b.DurationDays,
	}
}

// ListCategories returns the skill categories.
//
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Category}
// @Router /categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.catalog.Get("categories"); ok {
		respondList(w, r, cached.([]models.Category))
		return
	}
	categories, err := h.db.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, r, "list categories", err)
		return
	}
	h.catalog.Set("categories", categories)
	respondList(w, r, categories)
}

// CategoriesWithCourses returns every category with its courses.
//
// @Summary List categories with their courses
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.CategoryWithCourses}
// @Router /categories/with-courses [get]
func (h *Handler) CategoriesWithCourses(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.catalog.Get("categories-with-courses"); ok {
		respondList(w, r, cached.([]models.CategoryWithCourses))
		return
	}
	catalog, err := h.db.CategoriesWithCourses(r.Context())
	if err != nil {
		respondServiceError(w, r, "categories with courses", err)
		return
	}
	h.catalog.Set("categories-with-courses", catalog)
	respondList(w, r, catalog)
}

// ListCourses returns courses, optionally of one category.
//
// @Summary List courses
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Category filter"
// @Success 200 {object} models.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	categoryID, _, ok := getInt64Param(r, "category_id")
	if !ok {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid category_id", nil)
		return
	}
	key := cache.GenerateKey("courses", categoryID)
	if cached, ok := h.catalog.Get(key); ok {
		respondList(w, r, cached.([]models.Course))
		return
	}
	courses, err := h.db.ListCourses(r.Context(), categoryID)
	if err != nil {
		respondServiceError(w, r, "list courses", err)
		return
	}
	h.catalog.Set(key, courses)
	respondList(w, r, courses)
}

// ListCourseSkills returns the skills attached to a course.
//
// @Summary List skills of a course
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param code path string true "Course code"
// @Success 200 {object} models.APIResponse{data=[]models.Skill}
// @Router /courses/{code}/skills [get]
func (h *Handler) ListCourseSkills(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if code == "" {
		respondError(w, http.StatusBadRequest, CodeValidation, "Course code is required", nil)
		return
	}
	skills, err := h.db.ListSkillsByCourse(r.Context(), code)
	if err != nil {
		respondServiceError(w, r, "list course skills", err)
		return
	}
	respondList(w, r, skills)
}

// ListSkills returns every offered skill, newest first.
//
// @Summary List skills
// @Tags Skills
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Skill}
// @Router /skills [get]
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.db.ListSkills(r.Context())
	if err != nil {
		respondServiceError(w, r, "list skills", err)
		return
	}
	respondList(w, r, skills)
}

// MySkills returns the skills the caller offers.
//
// @Summary List my skills
// @Tags Skills
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Skill}
// @Router /me/skills [get]
func (h *Handler) MySkills(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skills, err := h.db.ListUserSkills(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list my skills", err)
		return
	}
	respondList(w, r, skills)
}

// CreateSkill offers a new skill.
//
// @Summary Offer a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SkillBody true "Skill"
// @Success 201 {object} models.APIResponse{data=models.Skill}
// @Failure 400 {object} models.APIResponse "Validation error or unknown category/course"
// @Router /skills [post]
func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body SkillBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	skill, err := h.db.CreateSkill(r.Context(), body.toSkill(hctx.UserID))
	if err != nil {
		respondServiceError(w, r, "create skill", err)
		return
	}
	respondData(w, r, http.StatusCreated, skill)
}

// GetSkill returns one skill.
//
// @Summary Get a skill
// @Tags Skills
// @Produce json
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Success 200 {object} models.APIResponse{data=models.Skill}
// @Failure 404 {object} models.APIResponse "Skill not found"
// @Router /skills/{id} [get]
func (h *Handler) GetSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	skill, err := h.db.GetSkill(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get skill", err)
		return
	}
	respondData(w, r, http.StatusOK, skill)
}

// UpdateSkill replaces the editable fields of the caller's skill.
//
// @Summary Update a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Param request body SkillBody true "Skill"
// @Success 200 {object} models.APIResponse{data=models.Skill}
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Router /skills/{id} [put]
func (h *Handler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body SkillBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	s := body.toSkill(hctx.UserID)
	s.ID = id
	skill, err := h.db.UpdateSkill(r.Context(), hctx.UserID, s)
	if err != nil {
		respondServiceError(w, r, "update skill", err)
		return
	}
	respondData(w, r, http.StatusOK, skill)
}

// DeleteSkill removes the caller's skill.
//
// @Summary Delete a skill
// @Tags Skills
// @Produce json
// @Security BearerAuth
// @Param id path int true "Skill ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse "Not the owner"
// @Router /skills/{id} [delete]
func (h *Handler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteSkill(r.Context(), hctx.UserID, id); err != nil {
		respondServiceError(w, r, "delete skill", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Skill deleted"})
}
