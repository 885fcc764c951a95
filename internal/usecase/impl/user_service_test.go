package impl

import (
	"context"
	"testing"
	"time"

	"pinpoint/config"
	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserHarness(cfg *config.Config) (*mockUserRepository, *mockAuthRepository, *mockRefreshTokenRepository, usecase.UserUsecase) {
	userRepo := &mockUserRepository{}
	authRepo := &mockAuthRepository{}
	refreshTokenRepo := &mockRefreshTokenRepository{}
	svc := NewUserService(UserServiceParams{
		TxManager: &fakeTxManager{factory: &fakeRepoFactory{
			userRepo:         userRepo,
			authRepo:         authRepo,
			refreshTokenRepo: refreshTokenRepo,
		}},
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		Hasher:           fakeHasher{},
		TokenService:     fakeTokenService{},
		Config:           cfg,
		Logger:           discardLogger(),
	})

	return userRepo, authRepo, refreshTokenRepo, svc
}

func TestUserService_RegisterResident_NewAccount(t *testing.T) {
	userRepo, authRepo, _, svc := newUserHarness(nil)

	ctx := context.Background()
	authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "sara@example.com").
		Return(nil, repository.ErrAuthNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	authRepo.On("CreateAuthentication", ctx, mock.AnythingOfType("*entity.Authentication")).Return(nil)

	output, err := svc.RegisterResident(ctx, usecase.RegisterResidentInput{
		Name:              "Sara",
		Email:             "sara@example.com",
		Password:          "s3cret-password",
		PreferredLanguage: "ar",
	})

	require.NoError(t, err)
	require.NotNil(t, output.User.ResidentProfile)
	assert.Equal(t, "ar", output.User.ResidentProfile.PreferredLanguage)
	assert.Nil(t, output.User.CourierProfile)
}

func TestUserService_RegisterResident_ProfileAlreadyExists(t *testing.T) {
	userRepo, authRepo, _, svc := newUserHarness(nil)

	ctx := context.Background()
	existingID := uuid.New()
	auth := &entity.Authentication{
		UserID:       existingID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed:s3cret-password",
	}
	existing := &entity.User{ID: existingID, ResidentProfile: &entity.ResidentProfile{UserID: existingID}}

	authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "sara@example.com").Return(auth, nil)
	userRepo.On("FindByID", ctx, existingID).Return(existing, nil)

	_, err := svc.RegisterResident(ctx, usecase.RegisterResidentInput{
		Name:     "Sara",
		Email:    "sara@example.com",
		Password: "s3cret-password",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_RegisterCourier_AttachesProfileToExistingAccount(t *testing.T) {
	userRepo, authRepo, _, svc := newUserHarness(nil)

	ctx := context.Background()
	existingID := uuid.New()
	companyID := uuid.New()
	auth := &entity.Authentication{
		UserID:       existingID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed:s3cret-password",
	}
	existing := &entity.User{ID: existingID, ResidentProfile: &entity.ResidentProfile{UserID: existingID}}

	authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "sara@example.com").Return(auth, nil)
	userRepo.On("FindByID", ctx, existingID).Return(existing, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	output, err := svc.RegisterCourier(ctx, usecase.RegisterCourierInput{
		Name:        "Sara",
		Email:       "sara@example.com",
		Password:    "s3cret-password",
		CompanyID:   companyID,
		CompanyName: "Swift Logistics",
		DriverCode:  "SW-0042",
	})

	require.NoError(t, err)
	require.NotNil(t, output.User.CourierProfile)
	assert.Equal(t, companyID, output.User.CourierProfile.CompanyID)
	require.NotNil(t, output.User.ResidentProfile, "existing resident profile must survive")
}

func TestUserService_Login_Success(t *testing.T) {
	userRepo, authRepo, refreshTokenRepo, svc := newUserHarness(nil)

	ctx := context.Background()
	userID := uuid.New()
	auth := &entity.Authentication{
		UserID:       userID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed:s3cret-password",
	}
	user := &entity.User{ID: userID, ResidentProfile: &entity.ResidentProfile{UserID: userID}}

	authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "sara@example.com").Return(auth, nil)
	userRepo.On("FindByID", ctx, userID).Return(user, nil)
	refreshTokenRepo.On("CreateRefreshToken", ctx, mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	output, err := svc.Login(ctx, usecase.LoginInput{Email: "sara@example.com", Password: "s3cret-password"})

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	assert.Equal(t, []string{"resident"}, output.Roles)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	_, authRepo, refreshTokenRepo, svc := newUserHarness(nil)

	ctx := context.Background()
	auth := &entity.Authentication{
		UserID:       uuid.New(),
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed:the-real-password",
	}

	authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "sara@example.com").Return(auth, nil)

	_, err := svc.Login(ctx, usecase.LoginInput{Email: "sara@example.com", Password: "a-wrong-guess"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	refreshTokenRepo.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	_, authRepo, _, svc := newUserHarness(nil)

	ctx := context.Background()
	authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "ghost@example.com").
		Return(nil, repository.ErrAuthNotFound)

	_, err := svc.Login(ctx, usecase.LoginInput{Email: "ghost@example.com", Password: "whatever"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_EvictsOldestSessionAtLimit(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{MaxActiveSessions: 2}}
	userRepo, authRepo, refreshTokenRepo, svc := newUserHarness(cfg)

	ctx := context.Background()
	userID := uuid.New()
	auth := &entity.Authentication{
		UserID:       userID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed:s3cret-password",
	}
	user := &entity.User{ID: userID, ResidentProfile: &entity.ResidentProfile{UserID: userID}}

	oldest := &entity.RefreshToken{ID: uuid.New(), UserID: userID, TokenHash: "old-hash", CreatedAt: time.Now().Add(-48 * time.Hour)}
	newer := &entity.RefreshToken{ID: uuid.New(), UserID: userID, TokenHash: "new-hash", CreatedAt: time.Now().Add(-time.Hour)}

	authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, "sara@example.com").Return(auth, nil)
	userRepo.On("FindByID", ctx, userID).Return(user, nil)
	refreshTokenRepo.On("FindRefreshTokensByUserID", ctx, userID).Return([]*entity.RefreshToken{newer, oldest}, nil)
	refreshTokenRepo.On("DeleteRefreshTokenByHash", ctx, "old-hash").Return(nil)
	refreshTokenRepo.On("CreateRefreshToken", ctx, mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	_, err := svc.Login(ctx, usecase.LoginInput{Email: "sara@example.com", Password: "s3cret-password"})

	require.NoError(t, err)
	refreshTokenRepo.AssertCalled(t, "DeleteRefreshTokenByHash", ctx, "old-hash")
}

func TestUserService_Refresh_Success(t *testing.T) {
	userRepo, _, refreshTokenRepo, svc := newUserHarness(nil)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, ResidentProfile: &entity.ResidentProfile{UserID: userID}}
	refreshToken := "refresh-" + userID.String()
	tokenHash := fakeTokenService{}.HashToken(refreshToken)
	record := &entity.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: time.Now().Add(time.Hour)}

	refreshTokenRepo.On("FindRefreshTokenByHash", ctx, tokenHash).Return(record, nil)
	userRepo.On("FindByID", ctx, userID).Return(user, nil)

	output, err := svc.Refresh(ctx, refreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.Equal(t, refreshToken, output.RefreshToken, "refresh token is not rotated")
}

func TestUserService_Refresh_MissingSession(t *testing.T) {
	_, _, refreshTokenRepo, svc := newUserHarness(nil)

	ctx := context.Background()
	userID := uuid.New()
	refreshToken := "refresh-" + userID.String()
	tokenHash := fakeTokenService{}.HashToken(refreshToken)

	refreshTokenRepo.On("FindRefreshTokenByHash", ctx, tokenHash).Return(nil, repository.ErrRefreshTokenNotFound)

	_, err := svc.Refresh(ctx, refreshToken)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}
