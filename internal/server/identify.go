package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

const maxBodyBytes = 1 << 20

// IdentifyHandler serves POST /identify.
type IdentifyHandler struct {
	svc    Service
	logger *log.Logger
}

// NewIdentifyHandler creates an [IdentifyHandler] backed by svc.
func NewIdentifyHandler(svc Service, logger *log.Logger) *IdentifyHandler {
	return &IdentifyHandler{svc: svc, logger: logger}
}

// ServeHTTP decodes the body, rejects requests without an email or phone number, and returns the
// reconciled cluster.
//
// An empty body counts as a request with neither identifier.
func (h *IdentifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req IdentifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	view, err := h.svc.Reconcile(r.Context(), req.Identity())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, models.IdentifyResponse{Contact: *view})
}

// ClusterHandler serves GET /clusters/{id}.
type ClusterHandler struct {
	svc    Service
	logger *log.Logger
}

// NewClusterHandler creates a [ClusterHandler] backed by svc.
func NewClusterHandler(svc Service, logger *log.Logger) *ClusterHandler {
	return &ClusterHandler{svc: svc, logger: logger}
}

func (h *ClusterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid contact id"})
		return
	}

	cluster, err := h.svc.Cluster(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, cluster)
}

// StatusHandler serves the banner at / and the health check at /healthz.
type StatusHandler struct {
	svc Service
}

// NewStatusHandler creates a [StatusHandler] that checks svc for health.
func NewStatusHandler(svc Service) *StatusHandler {
	return &StatusHandler{svc: svc}
}

func (h *StatusHandler) Routes() []string {
	return []string{"/", "/healthz"}
}

type banner struct {
	Message  string `json:"message"`
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
}

type health struct {
	Status string `json:"status"`
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Message: "Method not allowed"})
		return
	}

	switch r.URL.Path {
	case "/":
		writeJSON(w, http.StatusOK, banner{
			Message:  "Identity reconciliation API is running",
			Endpoint: "/identify",
			Method:   http.MethodPost,
		})
	case "/healthz":
		if err := h.svc.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, health{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, health{Status: "ok"})
	default:
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Not found"})
	}
}
