package repository

import (
	"context"
	"time"

	"github.com/sangkips/counterpos/internal/domain/entity"
)

// IdempotencyRepository stores completed write responses for till retries.
type IdempotencyRepository interface {
	// Find returns the stored response for scope, or nil when there is none.
	Find(ctx context.Context, scope entity.IdempotencyScope) (*entity.IdempotencyKey, error)
	// Save stores a response, replacing an expired entry for the same scope.
	Save(ctx context.Context, ikey *entity.IdempotencyKey) error
	// PurgeExpired deletes entries that expired before the given time.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
