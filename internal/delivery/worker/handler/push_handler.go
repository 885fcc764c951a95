// Package handler processes Pub/Sub push deliveries for the worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"pinpoint/config"
	deliverycontext "pinpoint/internal/delivery/context"
	"pinpoint/internal/domain/constants"
	"pinpoint/internal/domain/entity"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler turns feedback events into push notifications for the
// address owner's devices.
type PushHandler struct {
	verifyPushAuth  bool
	logger          *slog.Logger
	notificationSvc service.NotificationService
	deviceRepo      repository.DeviceRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
	DeviceRepo      repository.DeviceRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google signs push requests outside local development; verify them there.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth:  verifyPushAuth,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
		deviceRepo:      params.DeviceRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.FeedbackEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse feedback event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Carry the originating request_id across the async hop.
	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing feedback event",
		slog.String("feedback_id", event.FeedbackID),
		slog.String("owner_id", event.OwnerID),
		slog.String("outcome", event.Outcome),
	)

	if err := h.processFeedbackEvent(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process feedback event",
			slog.String("feedback_id", event.FeedbackID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 asks Pub/Sub to retry; anything else is acknowledged so a
		// poison message cannot loop forever.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Feedback event processed",
		slog.String("feedback_id", event.FeedbackID),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.FeedbackEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processFeedbackEvent notifies the address owner's active devices.
func (h *PushHandler) processFeedbackEvent(ctx context.Context, event *service.FeedbackEvent) error {
	if h.notificationSvc == nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("[Worker] Notification service not configured, dropping event",
			slog.String("feedback_id", event.FeedbackID),
		)

		return nil
	}

	ownerID, err := uuid.Parse(event.OwnerID)
	if err != nil {
		return errors.Wrap(err, "invalid owner id in event")
	}

	devices, err := h.deviceRepo.FindActiveDevicesByUser(ctx, ownerID)
	if err != nil {
		return newRetryableError(errors.WithStack(err))
	}
	if len(devices) == 0 {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("[Worker] No active devices for owner",
			slog.String("owner_id", event.OwnerID),
		)

		return nil
	}

	title, body, data := h.prepareNotificationContent(event)

	deviceByToken := make(map[string]*entity.DeviceToken, len(devices))
	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		deviceByToken[device.Token] = device
		tokens = append(tokens, device.Token)
	}

	_, _, invalidTokens, err := h.notificationSvc.SendBatchNotification(ctx, tokens, title, body, data)
	if err != nil {
		return newRetryableError(errors.WithStack(err))
	}

	h.deactivateInvalidTokens(ctx, invalidTokens, deviceByToken)

	return nil
}

// prepareNotificationContent creates the notification title, body, and data
func (h *PushHandler) prepareNotificationContent(event *service.FeedbackEvent) (title, body string, data map[string]string) {
	title = "Delivery feedback received"
	switch event.Outcome {
	case "delivered":
		body = "A courier marked a delivery to your address as completed"
	case "failed":
		body = "A courier could not complete a delivery to your address"
	case "returned":
		body = "A delivery to your address was returned to the sender"
	default:
		body = "A courier left feedback on your address"
	}
	if event.Comment != "" {
		body = fmt.Sprintf("%s: %s", body, event.Comment)
	}

	data = map[string]string{
		"feedback_id": event.FeedbackID,
		"address_id":  event.AddressID,
		"outcome":     event.Outcome,
	}

	return title, body, data
}

// deactivateInvalidTokens stops delivery to tokens Firebase rejected.
func (h *PushHandler) deactivateInvalidTokens(ctx context.Context, invalidTokens []string, deviceByToken map[string]*entity.DeviceToken) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
	for _, token := range invalidTokens {
		device, ok := deviceByToken[token]
		if !ok {
			continue
		}

		if err := h.deviceRepo.DeactivateDevice(ctx, device.ID); err != nil {
			logger.Warn("[Worker] Failed to deactivate invalid device",
				slog.String("device_id", device.ID.String()),
				slog.Any("error", err),
			)
		}
	}
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this push endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
