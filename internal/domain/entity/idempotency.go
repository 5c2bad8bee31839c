package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyScope identifies one retried write: the same till key means
// the same request only for the same staff member on the same endpoint.
type IdempotencyScope struct {
	StaffID  uuid.UUID
	Endpoint string // e.g. "POST /api/v1/orders"
	Key      string
}

// IdempotencyKey stores the response of a completed write so a till that
// lost the reply can retry without creating a second order.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StaffID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_scope"`
	Endpoint     string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_scope"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_scope"`
	RequestHash  string    `gorm:"size:64;not null"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// Scope returns the scope the key was stored under.
func (i *IdempotencyKey) Scope() IdempotencyScope {
	return IdempotencyScope{StaffID: i.StaffID, Endpoint: i.Endpoint, Key: i.Key}
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Matches reports whether a retry carries the same body as the stored request.
func (i *IdempotencyKey) Matches(requestHash string) bool {
	return i.RequestHash == requestHash
}
