package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the tracklog_settings row. A single named record carries the
// whole tracking policy as a JSON document.
type Record struct {
	bun.BaseModel `bun:"table:tracklog_settings"`

	ID        uuid.UUID      `bun:"id,pk,type:uuid"`
	Name      string         `bun:"name"`
	Value     map[string]any `bun:"value,type:jsonb"`
	CreatedAt time.Time      `bun:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at"`
}
