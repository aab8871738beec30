package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailRecord is one stored customer email. Immutable once ingested; a
// re-ingest under the same EmailId replaces the stored record.
type EmailRecord struct {
	Id        uuid.UUID
	EmailId   string // external id from the mail backend, idempotency key
	Content   string
	Sender    string
	SentAt    time.Time
	Metadata  map[string]interface{}
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}
