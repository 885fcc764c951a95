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

// SubscriptionHandlerParams holds dependencies for SubscriptionHandler, injected by Fx.
type SubscriptionHandlerParams struct {
	fx.In

	SubscriptionUC usecase.SubscriptionUsecase
	UserUC         usecase.UserUsecase
	Logger         *slog.Logger
}

// SubscriptionHandler holds dependencies for courier-company subscription
// handlers. The acting company is always the caller's own.
type SubscriptionHandler struct {
	subscriptionUC usecase.SubscriptionUsecase
	userUC         usecase.UserUsecase
	logger         *slog.Logger
}

// NewSubscriptionHandler is the constructor for SubscriptionHandler.
func NewSubscriptionHandler(params SubscriptionHandlerParams) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUC: params.SubscriptionUC,
		userUC:         params.UserUC,
		logger:         params.Logger,
	}
}

// ActivateRequest represents the request body for activating a subscription.
type ActivateRequest struct {
	Plan string `json:"plan" validate:"required"`
}

// Activate handles starting or re-activating the caller's company subscription.
func (h *SubscriptionHandler) Activate(c echo.Context) error {
	companyID, err := h.currentCompanyID(c)
	if err != nil {
		return err
	}

	var req ActivateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid subscription input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	subscription, err := h.subscriptionUC.Activate(c.Request().Context(), companyID, &usecase.ActivateSubscriptionInput{
		Plan: req.Plan,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, subscription, "Subscription activated successfully")
}

// Cancel handles cancelling the caller's company subscription.
func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	companyID, err := h.currentCompanyID(c)
	if err != nil {
		return err
	}

	subscription, err := h.subscriptionUC.Cancel(c.Request().Context(), companyID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, subscription, "Subscription cancelled successfully")
}

// Renew handles extending the current billing period.
func (h *SubscriptionHandler) Renew(c echo.Context) error {
	companyID, err := h.currentCompanyID(c)
	if err != nil {
		return err
	}

	subscription, err := h.subscriptionUC.Renew(c.Request().Context(), companyID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, subscription, "Subscription renewed successfully")
}

// GetStatus handles retrieving the caller's company subscription.
func (h *SubscriptionHandler) GetStatus(c echo.Context) error {
	companyID, err := h.currentCompanyID(c)
	if err != nil {
		return err
	}

	subscription, err := h.subscriptionUC.GetStatus(c.Request().Context(), companyID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, subscription, "Subscription retrieved successfully")
}

// currentCompanyID resolves the caller's company through their courier profile.
func (h *SubscriptionHandler) currentCompanyID(c echo.Context) (uuid.UUID, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return uuid.Nil, err
	}

	user, err := h.userUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return uuid.Nil, errors.WithStack(err)
	}
	if user.CourierProfile == nil {
		return uuid.Nil, response.Forbidden(c, "ROLE_REQUIRED", "Account has no courier profile")
	}

	return user.CourierProfile.CompanyID, nil
}
