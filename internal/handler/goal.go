package handler

import (
	"net/http"

	"github.com/kalevra/GiftRally_Go/internal/goal"
	"github.com/kalevra/GiftRally_Go/internal/logger"
)

type GoalHandler struct {
	service goal.Service
}

func NewGoalHandler(service goal.Service) *GoalHandler {
	return &GoalHandler{service: service}
}

// ExtendCooldownRequest represents a request to push out goal cooldowns
type ExtendCooldownRequest struct {
	HostID  string `json:"host_id" validate:"required"`
	Minutes int    `json:"minutes" validate:"required,min=1,max=1440"`
}

// HandleList returns the community goals for a host
func (h *GoalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	hostID, ok := GetQueryParam(r, w, "host_id")
	if !ok {
		return
	}

	goals, err := h.service.ListByHost(r.Context(), hostID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list goals", "hostID", hostID, "error", err)
		status, message := mapServiceErrorToUserMessage(err)
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: goals})
}

// HandleExtendCooldown lets a host delay their community goals, for example
// while running a different event on stream.
func (h *GoalHandler) HandleExtendCooldown(w http.ResponseWriter, r *http.Request) {
	var req ExtendCooldownRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Extend cooldown"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())

	if err := h.service.ExtendCooldown(r.Context(), req.HostID, req.Minutes); err != nil {
		log.Error("Failed to extend cooldown", "hostID", req.HostID, "error", err)
		status, message := mapServiceErrorToUserMessage(err)
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Cooldown extended"})
}
