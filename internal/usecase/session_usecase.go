// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"pinpoint/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionUsecase defines the interface for session management operations.
// Ping and Logout back the client-side activity guard.
type SessionUsecase interface {
	// Ping confirms that the refresh session behind a token hash still
	// exists and has not expired.
	Ping(ctx context.Context, userID uuid.UUID, tokenHash string) error

	// Logout ends the session behind a token hash. Repeated calls for the
	// same hash succeed; the session is simply gone.
	Logout(ctx context.Context, tokenHash string) error

	// LogoutAll ends every session of a user.
	LogoutAll(ctx context.Context, userID uuid.UUID) error

	// GetActiveSessions lists a user's live sessions across devices.
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.SessionInfo, error)

	// CleanupExpiredSessions removes expired refresh sessions. Called
	// periodically by the maintenance job.
	CleanupExpiredSessions(ctx context.Context) error
}
