// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterResidentInput defines the data required to register a new resident.
type RegisterResidentInput struct {
	Name              string
	Email             string
	Password          string
	Phone             string
	PreferredLanguage string
}

// RegisterCourierInput defines the data required to register a new courier.
type RegisterCourierInput struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	CompanyID   uuid.UUID
	CompanyName string
	DriverCode  string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
	Roles        []string
}

// RefreshOutput returns the new token pair after a successful refresh.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterResident(ctx context.Context, input RegisterResidentInput) (*RegisterOutput, error)
	RegisterCourier(ctx context.Context, input RegisterCourierInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshOutput, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
