// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"

	"github.com/tomtom215/skillswap/internal/events"
	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
)

// CreateSkillRequestBody is the body of POST /skill-requests.
type CreateSkillRequestBody struct {
	SkillID      int64  `json:"skill_id" validate:"required,gt=0"`
	LearningMode string `json:"learning_mode" validate:"omitempty,oneof=online in_person hybrid"`
	StartDate    string `json:"start_date" validate:"required,isodate"`
	EndDate      string `json:"end_date" validate:"required,isodate"`
	Message      string `json:"message" validate:"omitempty,max=2000"`
}

// DecisionBody is the body of the status endpoints of skill requests and
// internship applications.
type DecisionBody struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// CheckRequestResponse tells whether the caller already requested a skill.
type CheckRequestResponse struct {
	Requested bool                 `json:"requested"`
	Status    string               `json:"status,omitempty"`
	Request   *models.SkillRequest `json:"request,omitempty"`
}

// CreateSkillRequest asks a skill's owner to teach the caller.
//
// @Summary Request a skill
// @Description Creates a pending request. One request per skill and requester; the owner cannot request their own skill. The end date must be after the start date.
// @Tags Skill Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSkillRequestBody true "Request"
// @Success 201 {object} models.APIResponse{data=models.SkillRequest}
// @Failure 400 {object} models.APIResponse "Validation error"
// @Failure 404 {object} models.APIResponse "Skill not found"
// @Failure 409 {object} models.APIResponse "Already requested"
// @Router /skill-requests [post]
func (h *Handler) CreateSkillRequest(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body CreateSkillRequestBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	start, err := models.ParseDate(body.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid start_date", nil)
		return
	}
	end, err := models.ParseDate(body.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid end_date", nil)
		return
	}

	req, err := h.db.CreateSkillRequest(r.Context(), &models.SkillRequest{
		SkillID:      body.SkillID,
		RequesterID:  hctx.UserID,
		LearningMode: body.LearningMode,
		StartDate:    start,
		EndDate:      end,
		Message:      body.Message,
	})
	if err != nil {
		respondServiceError(w, r, "create skill request", err)
		return
	}

	h.publish(r.Context(), events.SkillRequestUpdated{
		RequestID:   req.ID,
		SkillID:     req.SkillID,
		SkillName:   req.SkillName,
		RequesterID: req.RequesterID,
		OwnerID:     req.OwnerID,
		Status:      req.Status,
	})
	respondData(w, r, http.StatusCreated, req)
}

// CheckSkillRequest reports whether the caller already requested a skill.
//
// @Summary Check my request for a skill
// @Tags Skill Requests
// @Produce json
// @Security BearerAuth
// @Param skill_id query int true "Skill ID"
// @Success 200 {object} models.APIResponse{data=CheckRequestResponse}
// @Router /skill-requests/check [get]
func (h *Handler) CheckSkillRequest(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	skillID, present, valid := getInt64Param(r, "skill_id")
	if !present || !valid || skillID <= 0 {
		respondError(w, http.StatusBadRequest, CodeValidation, "skill_id is required", nil)
		return
	}

	req, err := h.db.FindSkillRequest(r.Context(), skillID, hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "check skill request", err)
		return
	}
	resp := CheckRequestResponse{}
	if req != nil {
		resp = CheckRequestResponse{Requested: true, Status: req.Status, Request: req}
	}
	respondData(w, r, http.StatusOK, resp)
}

// IncomingSkillRequests lists requests for the caller's skills.
//
// @Summary List requests for my skills
// @Tags Skill Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.SkillRequest}
// @Router /skill-requests/incoming [get]
func (h *Handler) IncomingSkillRequests(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	reqs, err := h.db.ListIncomingRequests(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list incoming requests", err)
		return
	}
	respondList(w, r, reqs)
}

// OutgoingSkillRequests lists the caller's own requests.
//
// @Summary List my requests
// @Tags Skill Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.SkillRequest}
// @Router /skill-requests/outgoing [get]
func (h *Handler) OutgoingSkillRequests(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	reqs, err := h.db.ListOutgoingRequests(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list outgoing requests", err)
		return
	}
	respondList(w, r, reqs)
}

// DecideSkillRequest accepts or rejects a pending request for the caller's
// skill. Accepting moves the skill's price from the requester to the owner
// and enrolls the requester.
//
// @Summary Accept or reject a request
// @Tags Skill Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body DecisionBody true "Decision"
// @Success 200 {object} models.APIResponse{data=models.RequestDecision}
// @Failure 400 {object} models.APIResponse "Insufficient coins. Required: X, Available: Y"
// @Failure 403 {object} models.APIResponse "Not the skill owner"
// @Failure 409 {object} models.APIResponse "Request is not pending"
// @Router /skill-requests/{id}/status [put]
func (h *Handler) DecideSkillRequest(w http.ResponseWriter, r *http.Request) {
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

	decision, err := h.db.DecideSkillRequest(r.Context(), hctx.UserID, id, body.Status)
	if err != nil {
		respondServiceError(w, r, "decide skill request", err)
		return
	}

	req := decision.Request
	logging.Ctx(r.Context()).Info().
		Int64("request_id", req.ID).
		Str("status", req.Status).
		Int64("coins_transferred", decision.CoinsTransferred).
		Msg("skill request decided")

	h.publish(r.Context(), events.SkillRequestUpdated{
		RequestID:        req.ID,
		SkillID:          req.SkillID,
		SkillName:        req.SkillName,
		RequesterID:      req.RequesterID,
		OwnerID:          req.OwnerID,
		Status:           req.Status,
		CoinsTransferred: decision.CoinsTransferred,
	})
	respondData(w, r, http.StatusOK, decision)
}

// DeleteSkillRequest withdraws one of the caller's requests.
//
// @Summary Withdraw a request
// @Tags Skill Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse "Not the requester"
// @Router /skill-requests/{id} [delete]
func (h *Handler) DeleteSkillRequest(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteSkillRequest(r.Context(), hctx.UserID, id); err != nil {
		respondServiceError(w, r, "delete skill request", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Request deleted"})
}
