package access

import (
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
)

// Claims is the verified identity a request acts under. The role is the
// snapshot carried by the access token, not a fresh lookup.
type Claims struct {
	UserID uuid.UUID
	Role   model.Role
}

type Capability string

const (
	PostEdit        Capability = "post:edit"
	PostDelete      Capability = "post:delete"
	CommentEdit     Capability = "comment:edit"
	CommentDelete   Capability = "comment:delete"
	CommentModerate Capability = "comment:moderate"
	UserManage      Capability = "user:manage"
)

// capabilityRoles maps each capability to the roles that may exercise it on
// any resource, regardless of ownership.
var capabilityRoles = map[Capability][]model.Role{
	PostEdit:        {model.RoleAdmin, model.RoleModerator},
	PostDelete:      {model.RoleAdmin, model.RoleModerator},
	CommentEdit:     {},
	CommentDelete:   {model.RoleAdmin, model.RoleModerator},
	CommentModerate: {model.RoleAdmin, model.RoleModerator},
	UserManage:      {model.RoleAdmin},
}

// ownerCapable marks the capabilities a caller holds on their own resources.
var ownerCapable = map[Capability]bool{
	PostEdit:      true,
	PostDelete:    true,
	CommentEdit:   true,
	CommentDelete: true,
}

// RoleAllowed evaluates the role gate alone.
func RoleAllowed(role model.Role, capability Capability) bool {
	for _, allowed := range capabilityRoles[capability] {
		if role == allowed {
			return true
		}
	}
	return false
}

// Can decides whether claims may exercise capability on a resource owned by
// ownerID. The role gate and the ownership gate are independent; either one
// passing is sufficient.
func Can(claims Claims, capability Capability, ownerID uuid.UUID) bool {
	if RoleAllowed(claims.Role, capability) {
		return true
	}
	return ownerCapable[capability] && claims.UserID == ownerID
}
