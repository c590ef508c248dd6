// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"

	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/models"
)

// InternshipBody is the body of POST /internships.
type InternshipBody struct {
	Title        string `json:"title" validate:"required,max=200"`
	Company      string `json:"company" validate:"required,max=200"`
	Description  string `json:"description" validate:"required,max=10000"`
	Location     string `json:"location" validate:"required,max=200"`
	Duration     string `json:"duration" validate:"required,max=100"`
	Requirements string `json:"requirements" validate:"required,max=5000"`
}

// ApplyBody is the body of POST /internships/{id}/apply.
type ApplyBody struct {
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=10000"`
	ResumeURL   string `json:"resume_url" validate:"omitempty,url,max=2048"`
}

// ListInternships returns every internship offer, newest first.
//
// @Summary List internships
// @Tags Internships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Internship}
// @Router /internships [get]
func (h *Handler) ListInternships(w http.ResponseWriter, r *http.Request) {
	list, err := h.db.ListInternships(r.Context())
	if err != nil {
		respondServiceError(w, r, "list internships", err)
		return
	}
	respondList(w, r, list)
}

// MyInternships returns the internships the caller posted.
//
// @Summary List my posted internships
// @Tags Internships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Internship}
// @Router /me/internships [get]
func (h *Handler) MyInternships(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := h.db.ListPostedInternships(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list posted internships", err)
		return
	}
	respondList(w, r, list)
}

// CreateInternship posts an internship offer.
//
// @Summary Post an internship
// @Tags Internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InternshipBody true "Internship"
// @Success 201 {object} models.APIResponse{data=models.Internship}
// @Router /internships [post]
func (h *Handler) CreateInternship(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body InternshipBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	in, err := h.db.CreateInternship(r.Context(), &models.Internship{
		PosterID:     hctx.UserID,
		Title:        body.Title,
		Company:      body.Company,
		Description:  body.Description,
		Location:     body.Location,
		Duration:     body.Duration,
		Requirements: body.Requirements,
	})
	if err != nil {
		respondServiceError(w, r, "create internship", err)
		return
	}
	respondData(w, r, http.StatusCreated, in)
}

// GetInternship returns one internship.
//
// @Summary Get an internship
// @Tags Internships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID"
// @Success 200 {object} models.APIResponse{data=models.Internship}
// @Failure 404 {object} models.APIResponse "Internship not found"
// @Router /internships/{id} [get]
func (h *Handler) GetInternship(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	in, err := h.db.GetInternship(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get internship", err)
		return
	}
	respondData(w, r, http.StatusOK, in)
}

// ApplyToInternship records the caller's application.
//
// @Summary Apply to an internship
// @Tags Internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID"
// @Param request body ApplyBody true "Application"
// @Success 201 {object} models.APIResponse{data=models.InternshipApplication}
// @Failure 403 {object} models.APIResponse "Own internship"
// @Failure 409 {object} models.APIResponse "Already applied"
// @Router /internships/{id}/apply [post]
func (h *Handler) ApplyToInternship(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body ApplyBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	app, err := h.db.ApplyToInternship(r.Context(), &models.InternshipApplication{
		InternshipID: id,
		ApplicantID:  hctx.UserID,
		CoverLetter:  body.CoverLetter,
		ResumeURL:    body.ResumeURL,
	})
	if err != nil {
		respondServiceError(w, r, "apply to internship", err)
		return
	}

	if in, err := h.db.GetInternship(r.Context(), id); err == nil {
		h.publish(r.Context(), events.ApplicationUpdated{
			ApplicationID: app.ID,
			InternshipID:  id,
			ApplicantID:   app.ApplicantID,
			PosterID:      in.PosterID,
			Status:        app.Status,
		})
	}
	respondData(w, r, http.StatusCreated, app)
}

// ListApplicants returns the applications to an internship the caller
// posted.
//
// @Summary List applicants
// @Tags Internships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Internship ID"
// @Success 200 {object} models.APIResponse{data=[]models.InternshipApplication}
// @Failure 403 {object} models.APIResponse "Not the poster"
// @Router /internships/{id}/applicants [get]
func (h *Handler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	apps, err := h.db.ListApplicants(r.Context(), hctx.UserID, id)
	if err != nil {
		respondServiceError(w, r, "list applicants", err)
		return
	}
	respondList(w, r, apps)
}

// ListMyApplications returns the caller's own applications.
//
// @Summary List my applications
// @Tags Internships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.InternshipApplication}
// @Router /applications [get]
func (h *Handler) ListMyApplications(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	apps, err := h.db.ListAppliedInternships(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list applications", err)
		return
	}
	respondList(w, r, apps)
}

// DecideApplication lets the poster accept or reject a pending application.
//
// @Summary Accept or reject an application
// @Tags Internships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body DecisionBody true "Decision"
// @Success 200 {object} models.APIResponse{data=models.InternshipApplication}
// @Failure 403 {object} models.APIResponse "Not the poster"
// @Failure 409 {object} models.APIResponse "Already decided"
// @Router /applications/{id}/status [put]
func (h *Handler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body DecisionBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	app, err := h.db.UpdateApplicationStatus(r.Context(), hctx.UserID, id, body.Status)
	if err != nil {
		respondServiceError(w, r, "decide application", err)
		return
	}

	h.publish(r.Context(), events.ApplicationUpdated{
		ApplicationID: app.ID,
		InternshipID:  app.InternshipID,
		ApplicantID:   app.ApplicantID,
		PosterID:      hctx.UserID,
		Status:        app.Status,
	})
	respondData(w, r, http.StatusOK, app)
}
