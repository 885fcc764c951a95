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

// FallbackHandlerParams holds dependencies for FallbackHandler, injected by Fx.
type FallbackHandlerParams struct {
	fx.In

	FallbackUC usecase.FallbackUsecase
	Logger     *slog.Logger
}

// FallbackHandler holds dependencies for fallback-contact handlers.
type FallbackHandler struct {
	fallbackUC usecase.FallbackUsecase
	logger     *slog.Logger
}

// NewFallbackHandler is the constructor for FallbackHandler.
func NewFallbackHandler(params FallbackHandlerParams) *FallbackHandler {
	return &FallbackHandler{
		fallbackUC: params.FallbackUC,
		logger:     params.Logger,
	}
}

// AddContact handles attaching a fallback contact to an address. Distance and
// fee classification come back computed by the server; client-supplied values
// for those fields are ignored.
func (h *FallbackHandler) AddContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	var input usecase.AddFallbackContactInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid fallback contact input")
	}

	contact, err := h.fallbackUC.AddContact(c.Request().Context(), userID, addressID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, contact, "Fallback contact added successfully")
}

// ListContacts handles retrieving the fallback contacts of an address.
func (h *FallbackHandler) ListContacts(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	contacts, err := h.fallbackUC.ListContacts(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, contacts, "Fallback contacts retrieved successfully")
}

// UpdateContact handles updating a fallback contact. The extended-distance
// gate applies to the updated state.
func (h *FallbackHandler) UpdateContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	contactID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid contact ID")
	}

	var input usecase.UpdateFallbackContactInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid fallback contact input")
	}

	contact, err := h.fallbackUC.UpdateContact(c.Request().Context(), userID, contactID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, contact, "Fallback contact updated successfully")
}

// DeleteContact handles removing a fallback contact.
func (h *FallbackHandler) DeleteContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	contactID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid contact ID")
	}

	if err := h.fallbackUC.DeleteContact(c.Request().Context(), userID, contactID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Fallback contact deleted"}, "Fallback contact deleted successfully")
}
