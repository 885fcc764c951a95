package impl

import (
	"context"
	"testing"
	"time"

	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionHarness() (*mockRefreshTokenRepository, usecase.SessionUsecase) {
	refreshTokenRepo := &mockRefreshTokenRepository{}
	svc := NewSessionService(SessionServiceParams{
		RefreshTokenRepo: refreshTokenRepo,
		Logger:           discardLogger(),
	})

	return refreshTokenRepo, svc
}

func TestSessionService_Ping_LiveSession(t *testing.T) {
	refreshTokenRepo, svc := newSessionHarness()

	ctx := context.Background()
	userID := uuid.New()
	record := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "hash-1").Return(record, nil)

	assert.NoError(t, svc.Ping(ctx, userID, "hash-1"))
}

func TestSessionService_Ping_MissingSessionReportsExpired(t *testing.T) {
	refreshTokenRepo, svc := newSessionHarness()

	ctx := context.Background()
	refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "hash-gone").Return(nil, repository.ErrRefreshTokenNotFound)

	err := svc.Ping(ctx, uuid.New(), "hash-gone")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionExpired))
}

func TestSessionService_Ping_ExpiredSessionRejected(t *testing.T) {
	refreshTokenRepo, svc := newSessionHarness()

	ctx := context.Background()
	userID := uuid.New()
	record := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: "hash-old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "hash-old").Return(record, nil)

	err := svc.Ping(ctx, userID, "hash-old")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionExpired))
}

func TestSessionService_Ping_WrongOwnerRejected(t *testing.T) {
	refreshTokenRepo, svc := newSessionHarness()

	ctx := context.Background()
	record := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: "hash-2",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "hash-2").Return(record, nil)

	err := svc.Ping(ctx, uuid.New(), "hash-2")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionExpired))
}

func TestSessionService_Logout_SecondCallSucceeds(t *testing.T) {
	refreshTokenRepo, svc := newSessionHarness()

	ctx := context.Background()
	refreshTokenRepo.On("DeleteRefreshTokenByHash", ctx, "hash-1").Return(nil).Once()
	refreshTokenRepo.On("DeleteRefreshTokenByHash", ctx, "hash-1").Return(repository.ErrRefreshTokenNotFound).Once()

	require.NoError(t, svc.Logout(ctx, "hash-1"))
	require.NoError(t, svc.Logout(ctx, "hash-1"), "repeated logout must not surface an error")
}

func TestSessionService_GetActiveSessions(t *testing.T) {
	refreshTokenRepo, svc := newSessionHarness()

	ctx := context.Background()
	userID := uuid.New()
	tokens := []*entity.RefreshToken{
		{ID: uuid.New(), UserID: userID, ExpiresAt: time.Now().Add(time.Hour)},
		{ID: uuid.New(), UserID: userID, ExpiresAt: time.Now().Add(-time.Hour)},
	}

	refreshTokenRepo.On("FindRefreshTokensByUserID", ctx, userID).Return(tokens, nil)

	sessions, err := svc.GetActiveSessions(ctx, userID)

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].IsActive)
	assert.False(t, sessions[1].IsActive)
}

func TestSessionService_CleanupExpiredSessions(t *testing.T) {
	refreshTokenRepo, svc := newSessionHarness()

	ctx := context.Background()
	refreshTokenRepo.On("DeleteExpiredRefreshTokens", ctx).Return(nil)

	require.NoError(t, svc.CleanupExpiredSessions(ctx))
	refreshTokenRepo.AssertCalled(t, "DeleteExpiredRefreshTokens", ctx)
}
