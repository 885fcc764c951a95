package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "pinpoint/internal/delivery/context"
	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface. It is the
// server-side authority the client activity guard pings against.
type sessionService struct {
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	RefreshTokenRepo repository.RefreshTokenRepository
	Logger           *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		refreshTokenRepo: params.RefreshTokenRepo,
		logger:           params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Ping confirms that the refresh session behind a token hash still exists and
// has not expired. A missing or expired session is reported as expired so the
// client guard converges on logout.
func (srv *sessionService) Ping(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	record, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return domainerrors.ErrSessionExpired.WrapMessage("ping rejected")
		}

		return errors.Wrap(err, "failed to find refresh token")
	}

	if record.UserID != userID {
		srv.log(ctx).Warn("Ping with mismatched session owner", slog.Any("userID", userID))

		return domainerrors.ErrSessionExpired.WrapMessage("ping rejected")
	}
	if time.Now().After(record.ExpiresAt) {
		return domainerrors.ErrSessionExpired.WrapMessage("ping rejected")
	}

	return nil
}

// Logout ends the session behind a token hash. A hash with no session is a
// success: logging out twice must not surface an error to the client.
func (srv *sessionService) Logout(ctx context.Context, tokenHash string) error {
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			srv.log(ctx).Debug("Logout for already-removed session")

			return nil
		}

		return errors.Wrap(err, "failed to delete refresh token")
	}

	srv.log(ctx).Info("Session logged out")

	return nil
}

// LogoutAll ends every session of a user.
func (srv *sessionService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to delete user sessions")
	}

	srv.log(ctx).Info("All sessions logged out", slog.Any("userID", userID))

	return nil
}

// GetActiveSessions lists a user's live sessions across devices.
func (srv *sessionService) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error) {
	tokens, err := srv.refreshTokenRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find refresh tokens")
	}

	now := time.Now()
	sessions := make([]*entity.SessionInfo, 0, len(tokens))
	for _, token := range tokens {
		sessions = append(sessions, &entity.SessionInfo{
			ID:        token.ID,
			UserID:    token.UserID,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt,
			IsActive:  now.Before(token.ExpiresAt),
		})
	}

	return sessions, nil
}

// CleanupExpiredSessions removes expired refresh sessions.
func (srv *sessionService) CleanupExpiredSessions(ctx context.Context) error {
	if err := srv.refreshTokenRepo.DeleteExpiredRefreshTokens(ctx); err != nil {
		return errors.Wrap(err, "failed to delete expired refresh tokens")
	}

	return nil
}
