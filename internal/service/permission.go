package service

import (
	"fmt"

	"novblog/internal/models"
)

// Capability is a named permission a route can require.
type Capability string

const (
	CapViewProfile Capability = "view-profile"
	CapViewPublic  Capability = "view-public"
	CapManagePosts Capability = "manage-posts"
	CapAdmin       Capability = "admin"
)

// Decision is the typed outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision with a caller-visible reason.
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// roleCapabilities is the fixed three-tier table. Each tier repeats
// the lower tier's capabilities; routes declare what they need and
// never rely on the superset ordering.
var roleCapabilities = map[string]map[Capability]bool{
	models.RoleReader: {
		CapViewProfile: true,
		CapViewPublic:  true,
	},
	models.RoleEditor: {
		CapViewProfile: true,
		CapViewPublic:  true,
		CapManagePosts: true,
	},
	models.RoleAdmin: {
		CapViewProfile: true,
		CapViewPublic:  true,
		CapManagePosts: true,
		CapAdmin:       true,
	},
}

// PermissionService evaluates the role→capability table. It is
// stateless: the principal carries the user row loaded for this
// request, so every lookup sees the current role.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

var _ Permissions = (*PermissionService)(nil)

// Authorize gates a required capability for a principal. Anonymous
// principals are always denied.
func (s *PermissionService) Authorize(p models.Principal, c Capability) Decision {
	if !p.IsAuthenticated() {
		return Deny("authentication required")
	}
	if roleCapabilities[p.Role()][c] {
		return Allow
	}
	return Deny(fmt.Sprintf("role %q lacks capability %q", p.Role(), c))
}
