package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant row. The only legal transitions
// are active<->suspended and active/suspended->deleted (terminal); see
// newStatusMachine.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

// Tenant is a row in the durable tenant registry. SchemaName is assigned
// once at creation and never changes; EncryptedSecret is an envelope-sealed
// blob and is never decrypted by this package — callers unwrap it via
// pkg/envelope using the process master key.
type Tenant struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	SchemaName      string    `json:"schema_name"`
	EncryptedSecret string    `json:"-"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsActive reports whether t may be used for non-system access.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}
