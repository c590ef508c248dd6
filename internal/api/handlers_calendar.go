// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"

	"github.com/tomtom215/skillswap/internal/models"
)

// EventBody is the body of POST /calendar/events.
type EventBody struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	EventDate   string `json:"event_date" validate:"required,isodate"`
	StartTime   string `json:"start_time" validate:"omitempty,len=5"`
	EndTime     string `json:"end_time" validate:"omitempty,len=5"`
	Color       string `json:"color" validate:"omitempty,max=20"`
}

// EventUpdateBody is the body of PUT /calendar/events/{id}. Omitted fields
// are left unchanged.
type EventUpdateBody struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	EventDate   *string `json:"event_date" validate:"omitempty,isodate"`
	StartTime   *string `json:"start_time" validate:"omitempty,max=5"`
	EndTime     *string `json:"end_time" validate:"omitempty,max=5"`
	Color       *string `json:"color" validate:"omitempty,max=20"`
}

// ListEvents returns the caller's calendar. With year and month only that
// month is returned.
//
// @Summary List calendar events
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {object} models.APIResponse{data=[]models.CalendarEvent}
// @Router /calendar/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	year, hasYear, yearOK := getInt64Param(r, "year")
	month, hasMonth, monthOK := getInt64Param(r, "month")
	if !yearOK || !monthOK || hasYear != hasMonth {
		respondError(w, http.StatusBadRequest, CodeValidation, "year and month must be given together", nil)
		return
	}

	var (
		list []models.CalendarEvent
		err  error
	)
	if hasYear {
		list, err = h.db.ListEventsForMonth(r.Context(), hctx.UserID, int(year), int(month))
	} else {
		list, err = h.db.ListEvents(r.Context(), hctx.UserID)
	}
	if err != nil {
		respondServiceError(w, r, "list events", err)
		return
	}
	respondList(w, r, list)
}

// CreateEvent adds an event to the caller's calendar.
//
// @Summary Create a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventBody true "Event"
// @Success 201 {object} models.APIResponse{data=models.CalendarEvent}
// @Router /calendar/events [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body EventBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	date, err := models.ParseDate(body.EventDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid event_date", nil)
		return
	}
	ev, err := h.db.CreateEvent(r.Context(), &models.CalendarEvent{
		UserID:      hctx.UserID,
		Title:       body.Title,
		Description: body.Description,
		EventDate:   date,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Color:       body.Color,
	})
	if err != nil {
		respondServiceError(w, r, "create event", err)
		return
	}
	respondData(w, r, http.StatusCreated, ev)
}

// GetEvent returns one of the caller's events.
//
// @Summary Get a calendar event
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.APIResponse{data=models.CalendarEvent}
// @Router /calendar/events/{id} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ev, err := h.db.GetEvent(r.Context(), hctx.UserID, id)
	if err != nil {
		respondServiceError(w, r, "get event", err)
		return
	}
	respondData(w, r, http.StatusOK, ev)
}

// UpdateEvent applies a partial update to one of the caller's events.
//
// @Summary Update a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body EventUpdateBody true "Changes"
// @Success 200 {object} models.APIResponse{data=models.CalendarEvent}
// @Router /calendar/events/{id} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body EventUpdateBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	upd := models.CalendarEventUpdate{
		Title:       body.Title,
		Description: body.Description,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Color:       body.Color,
	}
	if body.EventDate != nil {
		date, err := models.ParseDate(*body.EventDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, CodeValidation, "Invalid event_date", nil)
			return
		}
		upd.EventDate = &date
	}
	ev, err := h.db.UpdateEvent(r.Context(), hctx.UserID, id, upd)
	if err != nil {
		respondServiceError(w, r, "update event", err)
		return
	}
	respondData(w, r, http.StatusOK, ev)
}

// DeleteEvent removes one of the caller's events.
//
// @Summary Delete a calendar event
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.APIResponse
// @Router /calendar/events/{id} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteEvent(r.Context(), hctx.UserID, id); err != nil {
		respondServiceError(w, r, "delete event", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]string{"message": "Event deleted"})
}

// Search looks up courses and skills.
//
// @Summary Search courses and skills
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search text"
// @Success 200 {object} models.APIResponse{data=[]models.SearchResult}
// @Router /search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if len(q) > 200 {
		respondError(w, http.StatusBadRequest, CodeValidation, "Query too long", nil)
		return
	}
	results, err := h.db.Search(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, "search", err)
		return
	}
	respondList(w, r, results)
}
