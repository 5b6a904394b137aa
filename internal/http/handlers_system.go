package httpx

import (
	"net/http"

	"github.com/seclens/dashgate/internal/service"
)

// StatusResponse is the health payload for /api/status.
type StatusResponse struct {
	Status string `json:"status"`
}

// HandleStatus serves the unauthenticated liveness probe.
func HandleStatus(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// SystemInfoResponse tells the frontend which authentication surface to
// render. It reflects the resolved strategy, never the raw configuration.
type SystemInfoResponse struct {
	AuthType             string `json:"auth_type"`
	AnonymousAuthEnabled bool   `json:"anonymous_auth_enabled"`
	MultitenancyEnabled  bool   `json:"multitenancy_enabled"`
}

// SystemInfoHandler serves GET /api/v1/systeminfo.
type SystemInfoHandler struct {
	resolved     service.StrategyConfig
	multitenancy bool
}

// NewSystemInfoHandler constructs the systeminfo handler from the resolved
// strategy snapshot.
func NewSystemInfoHandler(resolved service.StrategyConfig, multitenancy bool) *SystemInfoHandler {
	return &SystemInfoHandler{resolved: resolved, multitenancy: multitenancy}
}

func (h *SystemInfoHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, SystemInfoResponse{
		AuthType:             string(h.resolved.Type),
		AnonymousAuthEnabled: h.resolved.AnonymousAuthEnabled,
		MultitenancyEnabled:  h.multitenancy,
	})
}
