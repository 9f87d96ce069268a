package usecase

import (
	"context"

	"github.com/giapdoan01/BEArtGallery/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the persistence layer for refresh-token sessions.
// Revocation state must survive process restarts, so implementations are
// backed by Redis or the relational store, never by in-process memory.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID (refresh token jti).
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke marks a session as revoked by setting RevokedAt.
	// Revocation is one-way; a revoked session can never be reused.
	Revoke(ctx context.Context, id string) error

	// RevokeAllByUserID revokes all sessions for a given user.
	RevokeAllByUserID(ctx context.Context, userID uint) error

	// DeleteExpired removes all expired sessions from storage.
	// Returns the number of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)
}
