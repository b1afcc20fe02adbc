package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/service"
)

type JoinPayload struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Weapon        string `json:"weapon"`
	Strategy      string `json:"strategy"`
}

type LeavePayload struct {
	ParticipantID string `json:"participant_id"`
}

// JoinQueue enters the caller into the pool of the location in the path.
func (h *QueueHandler) JoinQueue(c *gin.Context) {
	var req JoinPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	id := strings.TrimSpace(req.ParticipantID)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingParticipant})
		return
	}
	res, err := h.queues.Join(c.Request.Context(), service.JoinRequest{
		Location:      c.Param(constants.ParamLocation),
		ParticipantID: id,
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Weapon:        strings.TrimSpace(req.Weapon),
		Strategy:      game.Strategy(strings.ToLower(strings.TrimSpace(req.Strategy))),
	})
	if err != nil {
		status, msg := errorResponse(err, constants.ErrFailedJoin)
		if status == http.StatusInternalServerError {
			logging.Error("join failed", err, logging.Fields{constants.LogFieldParticipant: id})
		}
		c.JSON(status, gin.H{constants.JSONKeyError: msg})
		return
	}
	c.JSON(http.StatusOK, res)
}

// LeaveQueue withdraws the caller from a pool that has not started yet.
func (h *QueueHandler) LeaveQueue(c *gin.Context) {
	var req LeavePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	id := strings.TrimSpace(req.ParticipantID)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingParticipant})
		return
	}
	res, err := h.queues.Leave(c.Request.Context(), c.Param(constants.ParamLocation), id)
	if err != nil {
		status, msg := errorResponse(err, constants.ErrFailedLeave)
		if status == http.StatusInternalServerError {
			logging.Error("leave failed", err, logging.Fields{constants.LogFieldParticipant: id})
		}
		c.JSON(status, gin.H{constants.JSONKeyError: msg})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListQueues returns every open or running pool.
func (h *QueueHandler) ListQueues(c *gin.Context) {
	c.JSON(http.StatusOK, h.queues.ListQueues())
}
