package main

import (
	"pinpoint/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.ResidentProfileModel{},
		model.CourierProfileModel{},
		model.AuthenticationModel{},
		model.RefreshTokenModel{},
		model.AddressModel{},
		model.FallbackContactModel{},
		model.DeliveryFeedbackModel{},
		model.CourierSubscriptionModel{},
		model.DeviceTokenModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
