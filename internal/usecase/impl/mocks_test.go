package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"time"

	"pinpoint/internal/domain/entity"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// discardLogger silences service logging in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs the transactional closure against the same mocks the
// test configured, with no real transaction underneath.
type fakeTxManager struct {
	factory repository.RepositoryFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// fakeRepoFactory hands out the test's mock repositories.
type fakeRepoFactory struct {
	userRepo         repository.UserRepository
	authRepo         repository.AuthRepository
	refreshTokenRepo repository.RefreshTokenRepository
	addressRepo      repository.AddressRepository
	contactRepo      repository.FallbackContactRepository
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository {
	return f.userRepo
}

func (f *fakeRepoFactory) NewAuthRepository() repository.AuthRepository {
	return f.authRepo
}

func (f *fakeRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.refreshTokenRepo
}

func (f *fakeRepoFactory) NewAddressRepository() repository.AddressRepository {
	return f.addressRepo
}

func (f *fakeRepoFactory) NewFallbackContactRepository() repository.FallbackContactRepository {
	return f.contactRepo
}

// --- repository mocks ---

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) CreateResidentProfile(ctx context.Context, profile *entity.ResidentProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockUserRepository) CreateCourierProfile(ctx context.Context, profile *entity.CourierProfile) error {
	return m.Called(ctx, profile).Error(0)
}

type mockAuthRepository struct{ mock.Mock }

func (m *mockAuthRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

func (m *mockAuthRepository) FindAuthentication(ctx context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	args := m.Called(ctx, provider, providerUserID)
	auth, _ := args.Get(0).(*entity.Authentication)

	return auth, args.Error(1)
}

func (m *mockAuthRepository) FindAuthenticationsByUserID(ctx context.Context, userID string) ([]*entity.Authentication, error) {
	args := m.Called(ctx, userID)
	auths, _ := args.Get(0).([]*entity.Authentication)

	return auths, args.Error(1)
}

type mockRefreshTokenRepository struct{ mock.Mock }

func (m *mockRefreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockRefreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*entity.RefreshToken)

	return token, args.Error(1)
}

func (m *mockRefreshTokenRepository) FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]*entity.RefreshToken)

	return tokens, args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockRefreshTokenRepository) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockRefreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockAddressRepository struct{ mock.Mock }

func (m *mockAddressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *mockAddressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	args := m.Called(ctx, id)
	address, _ := args.Get(0).(*entity.Address)

	return address, args.Error(1)
}

func (m *mockAddressRepository) FindAddressByDigitalID(ctx context.Context, digitalID string) (*entity.Address, error) {
	args := m.Called(ctx, digitalID)
	address, _ := args.Get(0).(*entity.Address)

	return address, args.Error(1)
}

func (m *mockAddressRepository) FindAddressesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Address, error) {
	args := m.Called(ctx, ownerID)
	addresses, _ := args.Get(0).([]*entity.Address)

	return addresses, args.Error(1)
}

func (m *mockAddressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	return m.Called(ctx, address).Error(0)
}

func (m *mockAddressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAddressRepository) CountAddressesByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)

	return args.Get(0).(int64), args.Error(1)
}

type mockFallbackContactRepository struct{ mock.Mock }

func (m *mockFallbackContactRepository) CreateContact(ctx context.Context, contact *entity.FallbackContact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockFallbackContactRepository) FindContactByID(ctx context.Context, id uuid.UUID) (*entity.FallbackContact, error) {
	args := m.Called(ctx, id)
	contact, _ := args.Get(0).(*entity.FallbackContact)

	return contact, args.Error(1)
}

func (m *mockFallbackContactRepository) FindContactsByAddress(ctx context.Context, addressID uuid.UUID) ([]*entity.FallbackContact, error) {
	args := m.Called(ctx, addressID)
	contacts, _ := args.Get(0).([]*entity.FallbackContact)

	return contacts, args.Error(1)
}

func (m *mockFallbackContactRepository) UpdateContact(ctx context.Context, contact *entity.FallbackContact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *mockFallbackContactRepository) UpdateContacts(ctx context.Context, contacts []*entity.FallbackContact) error {
	return m.Called(ctx, contacts).Error(0)
}

func (m *mockFallbackContactRepository) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockFallbackContactRepository) CountContactsByAddress(ctx context.Context, addressID uuid.UUID) (int64, error) {
	args := m.Called(ctx, addressID)

	return args.Get(0).(int64), args.Error(1)
}

type mockSubscriptionRepository struct{ mock.Mock }

func (m *mockSubscriptionRepository) CreateSubscription(ctx context.Context, subscription *entity.CourierSubscription) error {
	return m.Called(ctx, subscription).Error(0)
}

func (m *mockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*entity.CourierSubscription, error) {
	args := m.Called(ctx, id)
	sub, _ := args.Get(0).(*entity.CourierSubscription)

	return sub, args.Error(1)
}

func (m *mockSubscriptionRepository) FindSubscriptionByCompany(ctx context.Context, companyID uuid.UUID) (*entity.CourierSubscription, error) {
	args := m.Called(ctx, companyID)
	sub, _ := args.Get(0).(*entity.CourierSubscription)

	return sub, args.Error(1)
}

func (m *mockSubscriptionRepository) UpdateSubscription(ctx context.Context, subscription *entity.CourierSubscription) error {
	return m.Called(ctx, subscription).Error(0)
}

func (m *mockSubscriptionRepository) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockFeedbackRepository struct{ mock.Mock }

func (m *mockFeedbackRepository) CreateFeedback(ctx context.Context, feedback *entity.DeliveryFeedback) error {
	return m.Called(ctx, feedback).Error(0)
}

func (m *mockFeedbackRepository) FindFeedbackByID(ctx context.Context, id uuid.UUID) (*entity.DeliveryFeedback, error) {
	args := m.Called(ctx, id)
	feedback, _ := args.Get(0).(*entity.DeliveryFeedback)

	return feedback, args.Error(1)
}

func (m *mockFeedbackRepository) FindFeedbackByAddress(ctx context.Context, addressID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error) {
	args := m.Called(ctx, addressID, limit, offset)
	feedback, _ := args.Get(0).([]*entity.DeliveryFeedback)

	return feedback, args.Error(1)
}

func (m *mockFeedbackRepository) FindFeedbackByCourier(ctx context.Context, courierID uuid.UUID, limit, offset int) ([]*entity.DeliveryFeedback, error) {
	args := m.Called(ctx, courierID, limit, offset)
	feedback, _ := args.Get(0).([]*entity.DeliveryFeedback)

	return feedback, args.Error(1)
}

type mockDeviceRepository struct{ mock.Mock }

func (m *mockDeviceRepository) CreateDevice(ctx context.Context, device *entity.DeviceToken) error {
	return m.Called(ctx, device).Error(0)
}

func (m *mockDeviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.DeviceToken, error) {
	args := m.Called(ctx, id)
	device, _ := args.Get(0).(*entity.DeviceToken)

	return device, args.Error(1)
}

func (m *mockDeviceRepository) FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.DeviceToken, error) {
	args := m.Called(ctx, userID)
	devices, _ := args.Get(0).([]*entity.DeviceToken)

	return devices, args.Error(1)
}

func (m *mockDeviceRepository) FindActiveDevicesByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*entity.DeviceToken, error) {
	args := m.Called(ctx, userIDs)
	devices, _ := args.Get(0).([]*entity.DeviceToken)

	return devices, args.Error(1)
}

func (m *mockDeviceRepository) UpdateDeviceToken(ctx context.Context, deviceID uuid.UUID, token string) error {
	return m.Called(ctx, deviceID, token).Error(0)
}

func (m *mockDeviceRepository) DeactivateDevice(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// --- service mocks ---

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishFeedbackEvent(ctx context.Context, event *service.FeedbackEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type mockQRCodeService struct{ mock.Mock }

func (m *mockQRCodeService) GenerateAddressQR(digitalID string) ([]byte, error) {
	args := m.Called(digitalID)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

func (m *mockQRCodeService) ParseAddressQR(qrData string) (string, error) {
	args := m.Called(qrData)

	return args.String(0), args.Error(1)
}

// fakeHasher is a deterministic stand-in for the bcrypt hasher.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService issues predictable tokens for assertions.
type fakeTokenService struct{}

func (fakeTokenService) GenerateTokens(userID uuid.UUID, _ []string) (string, string, error) {
	return "access-" + userID.String(), "refresh-" + userID.String(), nil
}

func (fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	id, err := uuid.Parse(tokenString[len("refresh-"):])
	if err != nil {
		return nil, err
	}

	return &service.Claims{UserID: id, Type: "refresh"}, nil
}

func (fakeTokenService) HashToken(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))

	return hex.EncodeToString(sum[:])
}

func (fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return 30 * 24 * time.Hour
}
