package impl

import (
	"context"
	"testing"

	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/policy"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

// Riyadh city centre and two candidate contact positions: one inside the
// extended-distance threshold, one far outside it.
var (
	baseLat = 24.7136
	baseLng = 46.6753
	nearLat = 24.7200
	nearLng = 46.6900
	farLat  = 24.8500
	farLng  = 46.9000
)

func newFallbackHarness() (*mockAddressRepository, *mockFallbackContactRepository, usecase.FallbackUsecase) {
	addressRepo := &mockAddressRepository{}
	contactRepo := &mockFallbackContactRepository{}
	svc := NewFallbackService(FallbackServiceParams{
		TxManager:   &fakeTxManager{factory: &fakeRepoFactory{addressRepo: addressRepo, contactRepo: contactRepo}},
		AddressRepo: addressRepo,
		ContactRepo: contactRepo,
		Logger:      discardLogger(),
	})

	return addressRepo, contactRepo, svc
}

func pinnedAddress(ownerID uuid.UUID) *entity.Address {
	return &entity.Address{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		DigitalID: "AB3D-EF4H-JK5M",
		Latitude:  floatPtr(baseLat),
		Longitude: floatPtr(baseLng),
	}
}

func TestFallbackService_AddContact_NearbySkipsGate(t *testing.T) {
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("CountContactsByAddress", ctx, address.ID).Return(int64(0), nil)
	contactRepo.On("CreateContact", ctx, mock.AnythingOfType("*entity.FallbackContact")).Return(nil)

	contact, err := svc.AddContact(ctx, ownerID, address.ID, &usecase.AddFallbackContactInput{
		Name:      "Sara",
		Phone:     "+966500000001",
		Latitude:  floatPtr(nearLat),
		Longitude: floatPtr(nearLng),
	})

	require.NoError(t, err)
	require.NotNil(t, contact.DistanceKm)
	assert.InDelta(t, 1.66, *contact.DistanceKm, 0.05)
	assert.False(t, contact.RequiresExtraFee)
}

func TestFallbackService_AddContact_ExtendedWithoutGateFails(t *testing.T) {
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("CountContactsByAddress", ctx, address.ID).Return(int64(0), nil)

	contact, err := svc.AddContact(ctx, ownerID, address.ID, &usecase.AddFallbackContactInput{
		Name:      "Omar",
		Phone:     "+966500000002",
		Latitude:  floatPtr(farLat),
		Longitude: floatPtr(farLng),
	})

	require.Error(t, err)
	assert.Nil(t, contact)

	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr))

	fields := make([]string, 0, 3)
	for _, fe := range validationErr.FieldErrors() {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"scheduled_date", "scheduled_time_slot", "extra_fee_acknowledged"}, fields)

	contactRepo.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
}

func TestFallbackService_AddContact_ExtendedWithGateSucceeds(t *testing.T) {
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("CountContactsByAddress", ctx, address.ID).Return(int64(0), nil)
	contactRepo.On("CreateContact", ctx, mock.AnythingOfType("*entity.FallbackContact")).Return(nil)

	contact, err := svc.AddContact(ctx, ownerID, address.ID, &usecase.AddFallbackContactInput{
		Name:                 "Omar",
		Phone:                "+966500000002",
		Latitude:             floatPtr(farLat),
		Longitude:            floatPtr(farLng),
		ExtraFeeAcknowledged: true,
		ScheduledDate:        "2026-09-01",
		ScheduledTimeSlot:    "morning",
	})

	require.NoError(t, err)
	require.NotNil(t, contact.DistanceKm)
	assert.Greater(t, *contact.DistanceKm, policy.ExtendedDistanceKm)
	assert.True(t, contact.RequiresExtraFee)
}

func TestFallbackService_AddContact_UnpinnedContactStoredAsStandard(t *testing.T) {
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("CountContactsByAddress", ctx, address.ID).Return(int64(0), nil)
	contactRepo.On("CreateContact", ctx, mock.AnythingOfType("*entity.FallbackContact")).Return(nil)

	contact, err := svc.AddContact(ctx, ownerID, address.ID, &usecase.AddFallbackContactInput{
		Name:  "Noura",
		Phone: "+966500000003",
	})

	require.NoError(t, err)
	assert.Nil(t, contact.DistanceKm)
	assert.False(t, contact.RequiresExtraFee)
}

func TestFallbackService_AddContact_IgnoresClientSuppliedClassification(t *testing.T) {
	// Even when the caller claims the fee is acknowledged on a nearby
	// contact, the stored classification comes from the server computation.
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("CountContactsByAddress", ctx, address.ID).Return(int64(0), nil)
	contactRepo.On("CreateContact", ctx, mock.AnythingOfType("*entity.FallbackContact")).Return(nil)

	contact, err := svc.AddContact(ctx, ownerID, address.ID, &usecase.AddFallbackContactInput{
		Name:                 "Sara",
		Phone:                "+966500000001",
		Latitude:             floatPtr(nearLat),
		Longitude:            floatPtr(nearLng),
		ExtraFeeAcknowledged: true,
	})

	require.NoError(t, err)
	assert.False(t, contact.RequiresExtraFee)
}

func TestFallbackService_AddContact_LimitReached(t *testing.T) {
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("CountContactsByAddress", ctx, address.ID).Return(int64(defaultMaxContactsPerAddress), nil)

	contact, err := svc.AddContact(ctx, ownerID, address.ID, &usecase.AddFallbackContactInput{
		Name:  "Sara",
		Phone: "+966500000001",
	})

	require.Error(t, err)
	assert.Nil(t, contact)
	assert.True(t, errors.Is(err, domainerrors.ErrFallbackContactLimitReached))
}

func TestFallbackService_AddContact_OwnershipViolation(t *testing.T) {
	addressRepo, _, svc := newFallbackHarness()

	ctx := context.Background()
	address := pinnedAddress(uuid.New())

	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)

	_, err := svc.AddContact(ctx, uuid.New(), address.ID, &usecase.AddFallbackContactInput{
		Name:  "Sara",
		Phone: "+966500000001",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressOwnershipViolation))
}

func TestFallbackService_UpdateContact_MoveAcrossThresholdRequiresGate(t *testing.T) {
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)
	existing := &entity.FallbackContact{
		ID:         uuid.New(),
		AddressID:  address.ID,
		Name:       "Sara",
		Phone:      "+966500000001",
		Latitude:   floatPtr(nearLat),
		Longitude:  floatPtr(nearLng),
		DistanceKm: floatPtr(1.66),
	}

	contactRepo.On("FindContactByID", ctx, existing.ID).Return(existing, nil)
	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)

	_, err := svc.UpdateContact(ctx, ownerID, existing.ID, &usecase.UpdateFallbackContactInput{
		Latitude:  floatPtr(farLat),
		Longitude: floatPtr(farLng),
	})

	require.Error(t, err)

	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.FieldErrors(), 3)

	contactRepo.AssertNotCalled(t, "UpdateContact", mock.Anything, mock.Anything)
}

func TestFallbackService_UpdateContact_RelaxedBelowThreshold(t *testing.T) {
	// A contact that moved back inside the threshold may be edited without
	// the scheduling fields.
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)
	existing := &entity.FallbackContact{
		ID:                   uuid.New(),
		AddressID:            address.ID,
		Name:                 "Omar",
		Phone:                "+966500000002",
		Latitude:             floatPtr(farLat),
		Longitude:            floatPtr(farLng),
		DistanceKm:           floatPtr(27.3),
		RequiresExtraFee:     true,
		ExtraFeeAcknowledged: true,
		ScheduledDate:        "2026-09-01",
		ScheduledTimeSlot:    "morning",
	}

	contactRepo.On("FindContactByID", ctx, existing.ID).Return(existing, nil)
	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("UpdateContact", ctx, mock.AnythingOfType("*entity.FallbackContact")).Return(nil)

	updated, err := svc.UpdateContact(ctx, ownerID, existing.ID, &usecase.UpdateFallbackContactInput{
		Latitude:  floatPtr(nearLat),
		Longitude: floatPtr(nearLng),
	})

	require.NoError(t, err)
	assert.False(t, updated.RequiresExtraFee)
	require.NotNil(t, updated.DistanceKm)
	assert.InDelta(t, 1.66, *updated.DistanceKm, 0.05)
	// Previously stored scheduling fields survive; they are just no longer mandatory.
	assert.Equal(t, "2026-09-01", updated.ScheduledDate)
}

func TestFallbackService_DeleteContact(t *testing.T) {
	addressRepo, contactRepo, svc := newFallbackHarness()

	ctx := context.Background()
	ownerID := uuid.New()
	address := pinnedAddress(ownerID)
	existing := &entity.FallbackContact{ID: uuid.New(), AddressID: address.ID}

	contactRepo.On("FindContactByID", ctx, existing.ID).Return(existing, nil)
	addressRepo.On("FindAddressByID", ctx, address.ID).Return(address, nil)
	contactRepo.On("DeleteContact", ctx, existing.ID).Return(nil)

	require.NoError(t, svc.DeleteContact(ctx, ownerID, existing.ID))
	contactRepo.AssertCalled(t, "DeleteContact", ctx, existing.ID)
}
