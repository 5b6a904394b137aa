package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/seclens/dashgate/internal/errors"
	"github.com/seclens/dashgate/internal/ports"
)

// AuthInfoHandler serves the caller's authoritative identity straight from
// the authorization backend. The response mirrors the backend's own authinfo
// document, so the frontend and the gate agree on the same source of truth.
type AuthInfoHandler struct {
	backend ports.AuthInfoClient
	logger  *slog.Logger
}

// NewAuthInfoHandler constructs the authinfo handler.
func NewAuthInfoHandler(backend ports.AuthInfoClient, logger *slog.Logger) *AuthInfoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthInfoHandler{backend: backend, logger: logger}
}

// ServeHTTP handles GET /api/v1/auth/authinfo.
func (h *AuthInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.backend.AuthInfo(r.Context(), r.Header)
	if err != nil {
		switch {
		case apperrors.IsBackendAuth(err):
			status := apperrors.GetStatus(err)
			if status == 0 {
				status = http.StatusUnauthorized
			}
			WriteError(w, ErrorParams{
				Code:    status,
				ErrCode: "unauthenticated",
				Err:     errors.New("authentication required"),
			})
		case apperrors.IsBackendUnavailable(err) || apperrors.IsTimeout(err):
			h.logger.ErrorContext(r.Context(), "authinfo backend call failed", "error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusBadGateway,
				ErrCode: "backend_unavailable",
				Err:     errors.New("authorization backend unavailable"),
			})
		default:
			h.logger.ErrorContext(r.Context(), "authinfo failed", "error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "internal",
				Err:     errors.New("internal server error"),
			})
		}
		return
	}
	WriteJSON(w, http.StatusOK, identity)
}
