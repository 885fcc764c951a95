package impl

import (
	"context"
	"log/slog"
	"time"

	"pinpoint/config"
	deliverycontext "pinpoint/internal/delivery/context"
	"pinpoint/internal/domain/entity"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/policy"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMaxContactsPerAddress = 3

// fallbackService implements the FallbackUsecase interface. Every mutating
// operation recomputes the distance classification and applies the
// extended-distance gate before anything is persisted.
type fallbackService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	contactRepo repository.FallbackContactRepository
	maxContacts int
	logger      *slog.Logger
}

// FallbackServiceParams holds dependencies for FallbackService, injected by Fx.
type FallbackServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	ContactRepo repository.FallbackContactRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewFallbackService is the constructor for fallbackService.
func NewFallbackService(params FallbackServiceParams) usecase.FallbackUsecase {
	maxContacts := defaultMaxContactsPerAddress
	if params.Config != nil && params.Config.DigitalAddress != nil && params.Config.DigitalAddress.MaxContactsPerAddress > 0 {
		maxContacts = params.Config.DigitalAddress.MaxContactsPerAddress
	}

	return &fallbackService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		contactRepo: params.ContactRepo,
		maxContacts: maxContacts,
		logger:      params.Logger,
	}
}

func (srv *fallbackService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddContact attaches a new fallback contact to one of the owner's addresses.
// Distance and fee classification are computed here; client-supplied values
// never reach storage.
func (srv *fallbackService) AddContact(ctx context.Context, ownerID, addressID uuid.UUID, input *usecase.AddFallbackContactInput) (*entity.FallbackContact, error) {
	if err := validateOptionalCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	address, err := srv.loadOwnedAddress(ctx, ownerID, addressID)
	if err != nil {
		return nil, err
	}

	count, err := srv.contactRepo.CountContactsByAddress(ctx, addressID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count fallback contacts")
	}
	if count >= int64(srv.maxContacts) {
		return nil, domainerrors.ErrFallbackContactLimitReached.WrapMessage("contact creation rejected")
	}

	contact := &entity.FallbackContact{
		ID:                   uuid.New(),
		AddressID:            addressID,
		Name:                 input.Name,
		Phone:                input.Phone,
		Relationship:         input.Relationship,
		TextAddress:          input.TextAddress,
		Latitude:             input.Latitude,
		Longitude:            input.Longitude,
		ExtraFeeAcknowledged: input.ExtraFeeAcknowledged,
		ScheduledDate:        input.ScheduledDate,
		ScheduledTimeSlot:    input.ScheduledTimeSlot,
		BuildingPhotoURL:     input.BuildingPhotoURL,
		GatePhotoURL:         input.GatePhotoURL,
		SpecialNote:          input.SpecialNote,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	policy.Evaluate(address, contact)
	if fieldErrors := policy.ValidateGate(contact); len(fieldErrors) > 0 {
		srv.log(ctx).Info("Fallback contact rejected by distance gate",
			slog.Any("addressID", addressID),
			slog.Int("missing_fields", len(fieldErrors)),
		)

		return nil, domainerrors.NewValidationError(fieldErrors)
	}

	if err := srv.contactRepo.CreateContact(ctx, contact); err != nil {
		return nil, errors.Wrap(err, "failed to create fallback contact")
	}

	srv.log(ctx).Info("Fallback contact created",
		slog.Any("contactID", contact.ID),
		slog.Bool("requires_extra_fee", contact.RequiresExtraFee),
	)

	return contact, nil
}

// ListContacts retrieves all fallback contacts of one of the owner's addresses.
func (srv *fallbackService) ListContacts(ctx context.Context, ownerID, addressID uuid.UUID) ([]*entity.FallbackContact, error) {
	if _, err := srv.loadOwnedAddress(ctx, ownerID, addressID); err != nil {
		return nil, err
	}

	contacts, err := srv.contactRepo.FindContactsByAddress(ctx, addressID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find fallback contacts")
	}

	return contacts, nil
}

// UpdateContact updates a fallback contact. The classification is recomputed
// from the stored parent address and the gate re-applied: a contact that
// drifted past the threshold since creation must satisfy the gate on this
// edit, even when the edit itself touches unrelated fields.
func (srv *fallbackService) UpdateContact(ctx context.Context, ownerID, contactID uuid.UUID, input *usecase.UpdateFallbackContactInput) (*entity.FallbackContact, error) {
	contact, address, err := srv.loadOwnedContact(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	applyContactUpdates(contact, input)

	if err := validateOptionalCoordinates(contact.Latitude, contact.Longitude); err != nil {
		return nil, err
	}

	policy.Evaluate(address, contact)
	if fieldErrors := policy.ValidateGate(contact); len(fieldErrors) > 0 {
		return nil, domainerrors.NewValidationError(fieldErrors)
	}

	contact.UpdatedAt = time.Now()
	if err := srv.contactRepo.UpdateContact(ctx, contact); err != nil {
		return nil, errors.Wrap(err, "failed to update fallback contact")
	}

	return contact, nil
}

// DeleteContact removes a fallback contact.
func (srv *fallbackService) DeleteContact(ctx context.Context, ownerID, contactID uuid.UUID) error {
	if _, _, err := srv.loadOwnedContact(ctx, ownerID, contactID); err != nil {
		return err
	}

	if err := srv.contactRepo.DeleteContact(ctx, contactID); err != nil {
		return errors.Wrap(err, "failed to delete fallback contact")
	}

	srv.log(ctx).Info("Fallback contact deleted", slog.Any("contactID", contactID))

	return nil
}

// applyContactUpdates applies the update input to a contact. Distance and fee
// classification are not updatable fields; they are recomputed afterwards.
func applyContactUpdates(contact *entity.FallbackContact, input *usecase.UpdateFallbackContactInput) {
	if input.Name != nil {
		contact.Name = *input.Name
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.Relationship != nil {
		contact.Relationship = *input.Relationship
	}
	if input.TextAddress != nil {
		contact.TextAddress = *input.TextAddress
	}
	if input.Latitude != nil {
		contact.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		contact.Longitude = input.Longitude
	}
	if input.ExtraFeeAcknowledged != nil {
		contact.ExtraFeeAcknowledged = *input.ExtraFeeAcknowledged
	}
	if input.ScheduledDate != nil {
		contact.ScheduledDate = *input.ScheduledDate
	}
	if input.ScheduledTimeSlot != nil {
		contact.ScheduledTimeSlot = *input.ScheduledTimeSlot
	}
	if input.BuildingPhotoURL != nil {
		contact.BuildingPhotoURL = *input.BuildingPhotoURL
	}
	if input.GatePhotoURL != nil {
		contact.GatePhotoURL = *input.GatePhotoURL
	}
	if input.SpecialNote != nil {
		contact.SpecialNote = *input.SpecialNote
	}
}

// loadOwnedAddress fetches an address and verifies ownership.
func (srv *fallbackService) loadOwnedAddress(ctx context.Context, ownerID, addressID uuid.UUID) (*entity.Address, error) {
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

// loadOwnedContact fetches a contact together with its parent address and
// verifies the caller owns that address.
func (srv *fallbackService) loadOwnedContact(ctx context.Context, ownerID, contactID uuid.UUID) (*entity.FallbackContact, *entity.Address, error) {
	contact, err := srv.contactRepo.FindContactByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrFallbackContactNotFound) {
			return nil, nil, domainerrors.ErrFallbackContactNotFound.WrapMessage("contact lookup failed")
		}

		return nil, nil, errors.Wrap(err, "failed to find fallback contact by id")
	}

	address, err := srv.loadOwnedAddress(ctx, ownerID, contact.AddressID)
	if err != nil {
		return nil, nil, err
	}

	return contact, address, nil
}
