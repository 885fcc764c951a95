package handler

import (
	"log/slog"
	"net/http"

	"pinpoint/internal/delivery/http/response"
	"pinpoint/internal/domain/service"
	"pinpoint/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
	TokenSvc  service.TokenService
	Logger    *slog.Logger
}

// SessionHandler backs the client-side activity guard: liveness pings,
// logout and session inspection.
type SessionHandler struct {
	sessionUC usecase.SessionUsecase
	tokenSvc  service.TokenService
	logger    *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler.
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{
		sessionUC: params.SessionUC,
		tokenSvc:  params.TokenSvc,
		logger:    params.Logger,
	}
}

// SessionTokenRequest carries the refresh token identifying a session.
// Only its hash ever reaches the use case layer.
type SessionTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Ping confirms the caller's session is still alive. The activity guard calls
// this periodically; a 401 tells the client to log out locally.
func (h *SessionHandler) Ping(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req SessionTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid ping input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokenHash := h.tokenSvc.HashToken(req.RefreshToken)
	if err := h.sessionUC.Ping(c.Request().Context(), userID, tokenHash); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "alive"}, "Session is alive")
}

// Logout ends the session behind the supplied refresh token. Logging out a
// session that is already gone still succeeds.
func (h *SessionHandler) Logout(c echo.Context) error {
	var req SessionTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tokenHash := h.tokenSvc.HashToken(req.RefreshToken)
	if err := h.sessionUC.Logout(c.Request().Context(), tokenHash); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// LogoutAll ends every session of the authenticated user.
func (h *SessionHandler) LogoutAll(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.sessionUC.LogoutAll(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "All sessions logged out"}, "Logout successful")
}

// ListSessions lists the authenticated user's live sessions across devices.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	sessions, err := h.sessionUC.GetActiveSessions(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "Sessions retrieved successfully")
}
