package identity

import (
	"time"

	"evdash/backend/services/dashboard-service/internal/models"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`

	// Token metadata, used for logout.
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}
