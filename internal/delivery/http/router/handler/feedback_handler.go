package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"pinpoint/internal/delivery/http/response"
	"pinpoint/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// FeedbackHandlerParams holds dependencies for FeedbackHandler, injected by Fx.
type FeedbackHandlerParams struct {
	fx.In

	FeedbackUC usecase.FeedbackUsecase
	Logger     *slog.Logger
}

// FeedbackHandler holds dependencies for delivery-feedback handlers.
type FeedbackHandler struct {
	feedbackUC usecase.FeedbackUsecase
	logger     *slog.Logger
}

// NewFeedbackHandler is the constructor for FeedbackHandler.
func NewFeedbackHandler(params FeedbackHandlerParams) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackUC: params.FeedbackUC,
		logger:     params.Logger,
	}
}

// RecordFeedback handles a courier recording feedback for a delivery attempt.
func (h *FeedbackHandler) RecordFeedback(c echo.Context) error {
	courierID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input usecase.RecordFeedbackInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid feedback input")
	}

	feedback, err := h.feedbackUC.RecordFeedback(c.Request().Context(), courierID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, feedback, "Feedback recorded successfully")
}

// ListFeedbackForAddress handles a resident listing feedback left on one of
// their addresses. Pagination via limit/offset query parameters.
func (h *FeedbackHandler) ListFeedbackForAddress(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	addressID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	feedback, err := h.feedbackUC.ListFeedbackForAddress(c.Request().Context(), ownerID, addressID, limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, feedback, "Feedback retrieved successfully")
}
