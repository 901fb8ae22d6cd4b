package domain

import (
	"errors"
	"time"
)

// Tenant errors
var (
	ErrTenantNotFound = errors.New("tenant not found")
)

// Tenant is an organization whose compliance state the engine tracks. The
// directory of tenants is owned elsewhere; the engine reads it to drive
// scheduled batches.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
