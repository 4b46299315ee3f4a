// Package rbac decides whether a caller may run an operation. Policy is a flat
// role check: any recognised role may read, only ADMIN may mutate.
package rbac

import (
	"net/http"

	"evdash/backend/services/dashboard-service/internal/identity"
	"evdash/backend/services/dashboard-service/internal/models"
)

const (
	MessageUnauthorized = "Unauthorized - Please login"
	MessageForbidden    = "Forbidden - Insufficient permissions"
)

// Decision is the outcome of an authorization check. When Allowed is false,
// Status and Message form the ready-to-send failure response.
type Decision struct {
	Allowed  bool
	Identity identity.Identity
	Status   int
	Message  string
}

// Authorize checks caller against the required role. RoleUser admits every
// recognised role, RoleAdmin only administrators.
func Authorize(caller *identity.Identity, required models.Role) Decision {
	if caller == nil || !caller.Role.Valid() {
		return Decision{Status: http.StatusUnauthorized, Message: MessageUnauthorized}
	}
	if required == models.RoleAdmin && caller.Role != models.RoleAdmin {
		return Decision{Status: http.StatusForbidden, Message: MessageForbidden}
	}
	return Decision{Allowed: true, Identity: *caller, Status: http.StatusOK}
}

// RequireAuthenticated passes for any signed-in caller.
func RequireAuthenticated(caller *identity.Identity) Decision {
	return Authorize(caller, models.RoleUser)
}

// RequireAdmin passes only for administrators.
func RequireAdmin(caller *identity.Identity) Decision {
	return Authorize(caller, models.RoleAdmin)
}
