package handler

import (
	"log/slog"
	"net/http"

	"pinpoint/internal/delivery/http/response"
	"pinpoint/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// LookupHandlerParams holds dependencies for LookupHandler, injected by Fx.
type LookupHandlerParams struct {
	fx.In

	LookupUC usecase.LookupUsecase
	Logger   *slog.Logger
}

// LookupHandler holds dependencies for courier-side address lookup.
type LookupHandler struct {
	lookupUC usecase.LookupUsecase
	logger   *slog.Logger
}

// NewLookupHandler is the constructor for LookupHandler.
func NewLookupHandler(params LookupHandlerParams) *LookupHandler {
	return &LookupHandler{
		lookupUC: params.LookupUC,
		logger:   params.Logger,
	}
}

// LookupByDigitalID resolves an address by its public digital ID for a
// courier. Internal keys never leave the server.
func (h *LookupHandler) LookupByDigitalID(c echo.Context) error {
	courierID, err := currentUserID(c)
	if err != nil {
		return err
	}

	digitalID := c.Param("digital_id")
	if digitalID == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Digital ID is required")
	}

	output, err := h.lookupUC.LookupByDigitalID(c.Request().Context(), courierID, digitalID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Address resolved successfully")
}
