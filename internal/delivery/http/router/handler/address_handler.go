package handler

import (
	"log/slog"
	"net/http"

	"pinpoint/internal/delivery/http/response"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AddressHandlerParams holds dependencies for AddressHandler, injected by Fx.
type AddressHandlerParams struct {
	fx.In

	AddressUC usecase.AddressUsecase
	Logger    *slog.Logger
}

// AddressHandler holds dependencies for address-related handlers.
type AddressHandler struct {
	addressUC usecase.AddressUsecase
	logger    *slog.Logger
}

// NewAddressHandler is the constructor for AddressHandler.
func NewAddressHandler(params AddressHandlerParams) *AddressHandler {
	return &AddressHandler{
		addressUC: params.AddressUC,
		logger:    params.Logger,
	}
}

// CreateAddress handles registering a new address for the resident.
func (h *AddressHandler) CreateAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input usecase.CreateAddressInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	address, err := h.addressUC.CreateAddress(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, address, "Address created successfully")
}

// ListAddresses handles retrieving all of the resident's addresses.
func (h *AddressHandler) ListAddresses(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addresses, err := h.addressUC.ListAddresses(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, addresses, "Addresses retrieved successfully")
}

// GetAddress handles retrieving a single address.
func (h *AddressHandler) GetAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	address, err := h.addressUC.GetAddress(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, address, "Address retrieved successfully")
}

// UpdateAddress handles updating descriptive fields of an address.
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	var input usecase.UpdateAddressInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	address, err := h.addressUC.UpdateAddress(c.Request().Context(), userID, addressID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, address, "Address updated successfully")
}

// UpdatePreferences handles updating delivery preferences of an address.
func (h *AddressHandler) UpdatePreferences(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	var input usecase.UpdatePreferencesInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid preferences input")
	}

	address, err := h.addressUC.UpdatePreferences(c.Request().Context(), userID, addressID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, address, "Preferences updated successfully")
}

// PinCoordinatesRequest represents the request body for pinning an address.
type PinCoordinatesRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// PinCoordinates handles setting the address's GPS pin. Every fallback
// contact of the address is reclassified against the new pin.
func (h *AddressHandler) PinCoordinates(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	var req PinCoordinatesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid coordinates input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	address, err := h.addressUC.PinCoordinates(c.Request().Context(), userID, addressID, &usecase.PinCoordinatesInput{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, address, "Coordinates pinned successfully")
}

// DeleteAddress handles removing an address and its fallback contacts.
func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	if err := h.addressUC.DeleteAddress(c.Request().Context(), userID, addressID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Address deleted"}, "Address deleted successfully")
}

// GetAddressQR renders the address's digital ID as a QR code PNG.
func (h *AddressHandler) GetAddressQR(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	png, err := h.addressUC.GetAddressQR(c.Request().Context(), userID, addressID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}
