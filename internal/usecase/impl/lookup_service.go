package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "pinpoint/internal/delivery/context"
	domainerrors "pinpoint/internal/domain/errors"
	"pinpoint/internal/domain/repository"
	"pinpoint/internal/usecase"
	"pinpoint/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// lookupService implements the LookupUsecase interface. Lookups go through
// the digital ID only; internal address keys are never accepted or exposed.
type lookupService struct {
	userRepo         repository.UserRepository
	addressRepo      repository.AddressRepository
	contactRepo      repository.FallbackContactRepository
	subscriptionRepo repository.SubscriptionRepository
	logger           *slog.Logger
}

// LookupServiceParams holds dependencies for LookupService, injected by Fx.
type LookupServiceParams struct {
	fx.In

	UserRepo         repository.UserRepository
	AddressRepo      repository.AddressRepository
	ContactRepo      repository.FallbackContactRepository
	SubscriptionRepo repository.SubscriptionRepository
	Logger           *slog.Logger
}

// NewLookupService is the constructor for lookupService.
func NewLookupService(params LookupServiceParams) usecase.LookupUsecase {
	return &lookupService{
		userRepo:         params.UserRepo,
		addressRepo:      params.AddressRepo,
		contactRepo:      params.ContactRepo,
		subscriptionRepo: params.SubscriptionRepo,
		logger:           params.Logger,
	}
}

func (srv *lookupService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// LookupByDigitalID resolves an address for a courier.
func (srv *lookupService) LookupByDigitalID(ctx context.Context, courierID uuid.UUID, digitalID string) (*usecase.LookupOutput, error) {
	courier, err := srv.userRepo.FindByID(ctx, courierID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("courier lookup failed")
		}

		return nil, errors.Wrap(err, "failed to load courier")
	}
	if courier.CourierProfile == nil {
		return nil, domainerrors.ErrForbidden.WrapMessage("account has no courier profile")
	}

	subscription, err := srv.subscriptionRepo.FindSubscriptionByCompany(ctx, courier.CourierProfile.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, domainerrors.ErrSubscriptionInactive.WrapMessage("company has no subscription")
		}

		return nil, errors.Wrap(err, "failed to load company subscription")
	}
	if !subscription.AllowsLookup(time.Now()) {
		srv.log(ctx).Info("Lookup denied by subscription state",
			slog.Any("companyID", courier.CourierProfile.CompanyID),
			slog.String("status", string(subscription.Status)),
		)

		return nil, domainerrors.ErrSubscriptionInactive.WrapMessage("lookup denied")
	}

	normalized := util.NormalizeDigitalID(digitalID)
	if !util.IsValidDigitalID(normalized) {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("malformed digital ID")
	}

	address, err := srv.addressRepo.FindAddressByDigitalID(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, domainerrors.ErrAddressNotFound.WrapMessage("no address for digital ID")
		}

		return nil, errors.Wrap(err, "failed to find address by digital ID")
	}

	output := &usecase.LookupOutput{
		DigitalID:        address.DigitalID,
		Description:      address.Description,
		Latitude:         address.Latitude,
		Longitude:        address.Longitude,
		BuildingPhotoURL: address.BuildingPhotoURL,
		GatePhotoURL:     address.GatePhotoURL,
		DoorPhotoURL:     address.DoorPhotoURL,
		DeliveryPeriod:   address.DeliveryPeriod,
		DeliverySlot:     address.DeliverySlot,
		SpecialNote:      address.SpecialNote,
	}

	// Fallback contacts are shared with couriers only when the owner opted in.
	if address.ShowFallbackContacts {
		contacts, err := srv.contactRepo.FindContactsByAddress(ctx, address.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load fallback contacts for lookup")
		}
		output.FallbackContacts = contacts
	}

	srv.log(ctx).Info("Address lookup served",
		slog.String("digitalID", normalized),
		slog.Any("courierID", courierID),
	)

	return output, nil
}
