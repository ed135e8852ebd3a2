package handler

import (
	"net/http"

	"github.com/kalevra/GiftRally_Go/internal/logger"
	"github.com/kalevra/GiftRally_Go/internal/monitor"
)

type MonitorHandler struct {
	service monitor.Service
}

func NewMonitorHandler(service monitor.Service) *MonitorHandler {
	return &MonitorHandler{service: service}
}

// StartMonitorRequest represents a request to start watching a handle
type StartMonitorRequest struct {
	Handle     string `json:"handle" validate:"required,max=64,excludesall= "`
	Persistent bool   `json:"persistent"`
}

// StopMonitorRequest represents a request to stop watching a handle
type StopMonitorRequest struct {
	Handle string `json:"handle" validate:"required,max=64"`
}

// HandleStart connects to a handle's live stream and begins ingesting events.
// The call blocks until the first connection attempt resolves, so callers get
// an immediate answer when the handle is offline or does not exist.
func (h *MonitorHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartMonitorRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start monitor"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())

	if err := h.service.Start(r.Context(), req.Handle, req.Persistent); err != nil {
		log.Error("Failed to start monitoring", "handle", req.Handle, "error", err)
		status, message := mapServiceErrorToUserMessage(err)
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Monitoring started"})
}

// HandleStop disconnects from a handle's live stream
func (h *MonitorHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	var req StopMonitorRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Stop monitor"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())

	if err := h.service.Stop(r.Context(), req.Handle); err != nil {
		log.Error("Failed to stop monitoring", "handle", req.Handle, "error", err)
		status, message := mapServiceErrorToUserMessage(err)
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Monitoring stopped"})
}

// HandleStatus lists every monitored handle and its connection state
func (h *MonitorHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	statuses := h.service.Status(r.Context())
	respondJSON(w, http.StatusOK, DataResponse{Data: statuses})
}
