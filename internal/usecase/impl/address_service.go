package impl

import (
	"context"
	"log/slog"
	"time"

	"pinpoint/config"
	deliverycontext "pinpoint/internal/delivery/context"
	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/geo"
	"pinpoint/internal/domain/policy"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/domain/service"
	"pinpoint/internal/usecase"
	"pinpoint/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultMaxAddressesPerUser    = 5
	defaultDigitalIDIssueAttempts = 3
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager     repository.TransactionManager
	addressRepo   repository.AddressRepository
	qrcodeService service.QRCodeService
	maxAddresses  int
	issueAttempts int
	logger        *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	AddressRepo   repository.AddressRepository
	QRCodeService service.QRCodeService
	Config        *config.Config
	Logger        *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	maxAddresses := defaultMaxAddressesPerUser
	issueAttempts := defaultDigitalIDIssueAttempts
	if params.Config != nil && params.Config.DigitalAddress != nil {
		if params.Config.DigitalAddress.MaxAddressesPerUser > 0 {
			maxAddresses = params.Config.DigitalAddress.MaxAddressesPerUser
		}
		if params.Config.DigitalAddress.DigitalIDIssueAttempts > 0 {
			issueAttempts = params.Config.DigitalAddress.DigitalIDIssueAttempts
		}
	}

	return &addressService{
		txManager:     params.TxManager,
		addressRepo:   params.AddressRepo,
		qrcodeService: params.QRCodeService,
		maxAddresses:  maxAddresses,
		issueAttempts: issueAttempts,
		logger:        params.Logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateAddress registers a new address and issues its digital ID. The ID is
// immutable once issued; a storage-level collision is retried with a fresh ID.
func (srv *addressService) CreateAddress(ctx context.Context, ownerID uuid.UUID, input *usecase.CreateAddressInput) (*entity.Address, error) {
	if err := validateOptionalCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	count, err := srv.addressRepo.CountAddressesByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count addresses by owner")
	}
	if count >= int64(srv.maxAddresses) {
		return nil, domainerrors.ErrAddressLimitReached.WrapMessage("address creation rejected")
	}

	address := &entity.Address{
		ID:                   uuid.New(),
		OwnerID:              ownerID,
		Description:          input.Description,
		Latitude:             input.Latitude,
		Longitude:            input.Longitude,
		BuildingPhotoURL:     input.BuildingPhotoURL,
		GatePhotoURL:         input.GatePhotoURL,
		DoorPhotoURL:         input.DoorPhotoURL,
		DeliveryPeriod:       input.DeliveryPeriod,
		DeliverySlot:         input.DeliverySlot,
		SpecialNote:          input.SpecialNote,
		ShowFallbackContacts: input.ShowFallbackContacts,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	for attempt := 0; attempt < srv.issueAttempts; attempt++ {
		digitalID, genErr := util.GenerateDigitalID()
		if genErr != nil {
			return nil, errors.Wrap(genErr, "failed to generate digital ID")
		}
		address.DigitalID = digitalID

		createErr := srv.addressRepo.CreateAddress(ctx, address)
		if createErr == nil {
			srv.log(ctx).Info("Address created",
				slog.Any("addressID", address.ID),
				slog.String("digitalID", address.DigitalID),
			)

			return address, nil
		}
		if !errors.Is(createErr, repository.ErrDuplicateDigitalID) {
			return nil, errors.Wrap(createErr, "failed to create address")
		}

		srv.log(ctx).Warn("Digital ID collision, reissuing", slog.String("digitalID", digitalID))
	}

	return nil, domainerrors.ErrDigitalIDConflict.WrapMessage("digital ID issuance exhausted retries")
}

// GetAddress retrieves one of the owner's addresses.
func (srv *addressService) GetAddress(ctx context.Context, ownerID, addressID uuid.UUID) (*entity.Address, error) {
	return srv.loadOwnedAddress(ctx, ownerID, addressID)
}

// ListAddresses retrieves all addresses belonging to the owner.
func (srv *addressService) ListAddresses(ctx context.Context, ownerID uuid.UUID) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.FindAddressesByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find addresses by owner")
	}

	return addresses, nil
}

// UpdateAddress updates descriptive fields of an address.
func (srv *addressService) UpdateAddress(ctx context.Context, ownerID, addressID uuid.UUID, input *usecase.UpdateAddressInput) (*entity.Address, error) {
	address, err := srv.loadOwnedAddress(ctx, ownerID, addressID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		address.Description = *input.Description
	}
	if input.BuildingPhotoURL != nil {
		address.BuildingPhotoURL = *input.BuildingPhotoURL
	}
	if input.GatePhotoURL != nil {
		address.GatePhotoURL = *input.GatePhotoURL
	}
	if input.DoorPhotoURL != nil {
		address.DoorPhotoURL = *input.DoorPhotoURL
	}
	if input.SpecialNote != nil {
		address.SpecialNote = *input.SpecialNote
	}
	address.UpdatedAt = time.Now()

	if err := srv.addressRepo.UpdateAddress(ctx, address); err != nil {
		return nil, errors.Wrap(err, "failed to update address")
	}

	return address, nil
}

// UpdatePreferences updates delivery preferences of an address.
func (srv *addressService) UpdatePreferences(ctx context.Context, ownerID, addressID uuid.UUID, input *usecase.UpdatePreferencesInput) (*entity.Address, error) {
	address, err := srv.loadOwnedAddress(ctx, ownerID, addressID)
	if err != nil {
		return nil, err
	}

	if input.DeliveryPeriod != nil {
		address.DeliveryPeriod = *input.DeliveryPeriod
	}
	if input.DeliverySlot != nil {
		address.DeliverySlot = *input.DeliverySlot
	}
	if input.ShowFallbackContacts != nil {
		address.ShowFallbackContacts = *input.ShowFallbackContacts
	}
	address.UpdatedAt = time.Now()

	if err := srv.addressRepo.UpdateAddress(ctx, address); err != nil {
		return nil, errors.Wrap(err, "failed to update address preferences")
	}

	return address, nil
}

// PinCoordinates sets the address's GPS pin and recomputes the distance
// classification of every fallback contact attached to it, all in one
// transaction so readers never observe a moved address with stale distances.
func (srv *addressService) PinCoordinates(ctx context.Context, ownerID, addressID uuid.UUID, input *usecase.PinCoordinatesInput) (*entity.Address, error) {
	if !geo.IsValidCoordinate(input.Latitude, input.Longitude) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("coordinates out of range")
	}

	var pinned *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()
		contactRepo := repoFactory.NewFallbackContactRepository()

		address, err := addressRepo.FindAddressByID(ctx, addressID)
		if err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return domainerrors.ErrAddressNotFound.WrapMessage("pin rejected")
			}

			return errors.Wrap(err, "failed to find address by id")
		}
		if address.OwnerID != ownerID {
			return domainerrors.ErrAddressOwnershipViolation.WrapMessage("pin rejected")
		}

		lat, lng := input.Latitude, input.Longitude
		address.Latitude = &lat
		address.Longitude = &lng
		address.UpdatedAt = time.Now()

		if err := addressRepo.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to update address coordinates")
		}

		contacts, err := contactRepo.FindContactsByAddress(ctx, address.ID)
		if err != nil {
			return errors.Wrap(err, "failed to load fallback contacts for recompute")
		}
		for _, contact := range contacts {
			policy.Evaluate(address, contact)
			contact.UpdatedAt = time.Now()
		}
		if len(contacts) > 0 {
			if err := contactRepo.UpdateContacts(ctx, contacts); err != nil {
				return errors.Wrap(err, "failed to persist recomputed fallback contacts")
			}
		}

		pinned = address

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to pin address coordinates", slog.Any("addressID", addressID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Address pinned", slog.Any("addressID", addressID))

	return pinned, nil
}

// DeleteAddress removes an address. Fallback contacts go with it via the
// foreign-key cascade.
func (srv *addressService) DeleteAddress(ctx context.Context, ownerID, addressID uuid.UUID) error {
	if _, err := srv.loadOwnedAddress(ctx, ownerID, addressID); err != nil {
		return err
	}

	if err := srv.addressRepo.DeleteAddress(ctx, addressID); err != nil {
		return errors.Wrap(err, "failed to delete address")
	}

	srv.log(ctx).Info("Address deleted", slog.Any("addressID", addressID))

	return nil
}

// GetAddressQR renders the address's digital ID as a QR code image.
func (srv *addressService) GetAddressQR(ctx context.Context, ownerID, addressID uuid.UUID) ([]byte, error) {
	address, err := srv.loadOwnedAddress(ctx, ownerID, addressID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcodeService.GenerateAddressQR(address.DigitalID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate address QR code")
	}

	return png, nil
}

// loadOwnedAddress fetches an address and verifies ownership.
func (srv *addressService) loadOwnedAddress(ctx context.Context, ownerID, addressID uuid.UUID) (*entity.Address, error) {
	address, err := srv.addressRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, domainerrors.ErrAddressNotFound.WrapMessage("address lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}
	if address.OwnerID != ownerID {
		return nil, domainerrors.ErrAddressOwnershipViolation.WrapMessage("address access denied")
	}

	return address, nil
}

// validateOptionalCoordinates rejects half-supplied or out-of-range pins.
func validateOptionalCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return domainerrors.ErrValidationFailed.WrapMessage("latitude and longitude must be supplied together")
	}
	if lat != nil && !geo.IsValidCoordinate(*lat, *lng) {
		return domainerrors.ErrValidationFailed.WrapMessage("coordinates out of range")
	}

	return nil
}
