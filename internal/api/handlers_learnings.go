// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ProgressBody is the body of PUT /learnings/{skillID}/progress.
type ProgressBody struct {
	Progress *int `json:"progress" validate:"required,gte=0,lte=100"`
}

// LearningStatusBody is the body of PUT /learnings/{skillID}/status.
type LearningStatusBody struct {
	Status string `json:"status" validate:"required,oneof=enrolled in_progress completed"`
}

// ListLearnings returns the caller's learnings after applying date-driven
// status changes.
//
// @Summary List my learnings
// @Tags Learnings
// @Produce json
// @Security BearerAuth
// @Param status query string false "enrolled, in_progress or completed"
// @Success 200 {object} models.APIResponse{data=[]models.Learning}
// @Router /learnings [get]
func (h *Handler) ListLearnings(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "all" {
		status = ""
	}
	learnings, err := h.db.ListLearnings(r.Context(), hctx.UserID, status)
	if err != nil {
		respondServiceError(w, r, "list learnings", err)
		return
	}
	respondList(w, r, learnings)
}

// GetLearning returns the caller's learning for one skill.
//
// @Summary Get a learning
// @Tags Learnings
// @Produce json
// @Security BearerAuth
// @Param skillID path int true "Skill ID"
// @Success 200 {object} models.APIResponse{data=models.Learning}
// @Failure 404 {object} models.APIResponse "Not enrolled"
// @Router /learnings/{skillID} [get]
func (h *Handler) GetLearning(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skillID, ok := pathID(w, r, "skillID")
	if !ok {
		return
	}
	learning, err := h.db.GetLearning(r.Context(), hctx.UserID, skillID)
	if err != nil {
		respondServiceError(w, r, "get learning", err)
		return
	}
	respondData(w, r, http.StatusOK, learning)
}

// UpdateLearningProgress sets progress (0..100) and derives the status.
// Completing a learning issues its certificate.
//
// @Summary Update learning progress
// @Tags Learnings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param skillID path int true "Skill ID"
// @Param request body ProgressBody true "Progress"
// @Success 200 {object} models.APIResponse{data=models.Learning}
// @Router /learnings/{skillID}/progress [put]
func (h *Handler) UpdateLearningProgress(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skillID, ok := pathID(w, r, "skillID")
	if !ok {
		return
	}
	var body ProgressBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	learning, err := h.db.UpdateLearningProgress(r.Context(), hctx.UserID, skillID, *body.Progress)
	if err != nil {
		respondServiceError(w, r, "update learning progress", err)
		return
	}
	respondData(w, r, http.StatusOK, learning)
}

// SetLearningStatus sets the status of a learning directly.
//
// @Summary Update learning status
// @Tags Learnings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param skillID path int true "Skill ID"
// @Param request body LearningStatusBody true "Status"
// @Success 200 {object} models.APIResponse{data=models.Learning}
// @Router /learnings/{skillID}/status [put]
func (h *Handler) SetLearningStatus(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skillID, ok := pathID(w, r, "skillID")
	if !ok {
		return
	}
	var body LearningStatusBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	learning, err := h.db.SetLearningStatus(r.Context(), hctx.UserID, skillID, body.Status)
	if err != nil {
		respondServiceError(w, r, "set learning status", err)
		return
	}
	respondData(w, r, http.StatusOK, learning)
}

// ListCertificates returns the caller's certificates.
//
// @Summary List my certificates
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Certificate}
// @Router /certificates [get]
func (h *Handler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	certs, err := h.db.ListCertificates(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list certificates", err)
		return
	}
	respondList(w, r, certs)
}

// GetCertificate returns one of the caller's certificates.
//
// @Summary Get a certificate
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate ID"
// @Success 200 {object} models.APIResponse{data=models.Certificate}
// @Router /certificates/{id} [get]
func (h *Handler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	cert, err := h.db.GetCertificate(r.Context(), hctx.UserID, id)
	if err != nil {
		respondServiceError(w, r, "get certificate", err)
		return
	}
	respondData(w, r, http.StatusOK, cert)
}

// VerifyCertificate looks up a certificate by its public code. No
// authentication is required.
//
// @Summary Verify a certificate
// @Tags Certificates
// @Produce json
// @Param code path string true "Verification code"
// @Success 200 {object} models.APIResponse{data=models.Certificate}
// @Failure 404 {object} models.APIResponse "Certificate not found"
// @Router /certificates/verify/{code} [get]
func (h *Handler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if len(code) == 0 || len(code) > 64 {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid certificate code", nil)
		return
	}
	cert, err := h.db.VerifyCertificate(r.Context(), code)
	if err != nil {
		respondServiceError(w, r, "verify certificate", err)
		return
	}
	respondData(w, r, http.StatusOK, cert)
}
