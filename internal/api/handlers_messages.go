// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"net/http"

	"github.com/tomtom215/skillswap/internal/events"
)

// SendMessageBody is the body of POST /messages.
type SendMessageBody struct {
	ReceiverID  int64  `json:"receiver_id" validate:"required,gt=0"`
	Message     string `json:"message" validate:"required,max=5000"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=text image file"`
}

// UnreadResponse is returned by GET /messages/unread.
type UnreadResponse struct {
	Unread int `json:"unread"`
}

// SendMessage stores a direct message and pushes it to the receiver.
//
// @Summary Send a message
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageBody true "Message"
// @Success 201 {object} models.APIResponse{data=models.Message}
// @Failure 404 {object} models.APIResponse "Receiver not found"
// @Router /messages [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body SendMessageBody
	if !decodeAndValidate(w, r, &body) {
		return
	}
	msg, err := h.db.SendMessage(r.Context(), hctx.UserID, body.ReceiverID, body.Message, body.MessageType)
	if err != nil {
		respondServiceError(w, r, "send message", err)
		return
	}

	h.publish(r.Context(), events.MessageSent{
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Text:       msg.Text,
		Type:       msg.Type,
		CreatedAt:  msg.CreatedAt,
	})
	respondData(w, r, http.StatusCreated, msg)
}

// GetThread returns the conversation with a contact, oldest first. With
// ?after= only newer messages are returned, which lets clients poll.
//
// @Summary Get a conversation thread
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param contactID path int true "Contact user ID"
// @Param after query int false "Return messages with a greater ID"
// @Success 200 {object} models.APIResponse{data=[]models.Message}
// @Router /messages/{contactID} [get]
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	contactID, ok := pathID(w, r, "contactID")
	if !ok {
		return
	}
	after, _, valid := getInt64Param(r, "after")
	if !valid || after < 0 {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid after", nil)
		return
	}
	msgs, err := h.db.GetThread(r.Context(), hctx.UserID, contactID, after)
	if err != nil {
		respondServiceError(w, r, "get thread", err)
		return
	}
	respondList(w, r, msgs)
}

// MarkThreadRead marks every message from a contact as read.
//
// @Summary Mark a thread read
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param contactID path int true "Contact user ID"
// @Success 200 {object} models.APIResponse
// @Router /messages/{contactID}/read [put]
func (h *Handler) MarkThreadRead(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	contactID, ok := pathID(w, r, "contactID")
	if !ok {
		return
	}
	n, err := h.db.MarkRead(r.Context(), hctx.UserID, contactID)
	if err != nil {
		respondServiceError(w, r, "mark read", err)
		return
	}
	respondData(w, r, http.StatusOK, map[string]int64{"marked": n})
}

// UnreadMessages counts the caller's unread messages.
//
// @Summary Count unread messages
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=UnreadResponse}
// @Router /messages/unread [get]
func (h *Handler) UnreadMessages(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	n, err := h.db.UnreadCount(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "unread count", err)
		return
	}
	respondData(w, r, http.StatusOK, UnreadResponse{Unread: n})
}

// ListConversations returns one summary per contact, most recent first.
//
// @Summary List conversations
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Conversation}
// @Router /conversations [get]
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	hctx, ok := requireUser(w, r)
	if !ok {
		return
	}
	convs, err := h.db.ListConversations(r.Context(), hctx.UserID)
	if err != nil {
		respondServiceError(w, r, "list conversations", err)
		return
	}
	respondList(w, r, convs)
}
