// Package authz holds the two access policies handlers compose: a
// role-set check and a resource-ownership check.
package authz

import (
	"github.com/eventboard/eventboard/internal/errs"
	"github.com/eventboard/eventboard/internal/model"
	"github.com/eventboard/eventboard/internal/token"
)

// RequireRole allows the caller when its role is in the allowed set.
// An empty set means any authenticated identity.
func RequireRole(claims *token.Claims, roles ...model.Role) error {
	if claims == nil {
		return errs.ErrUnauthorized
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if claims.Role == r {
			return nil
		}
	}
	return errs.ErrForbidden
}

// CanModify allows administrators and the resource owner. Identifiers are
// compared in canonical string form.
func CanModify(claims *token.Claims, ownerID string) error {
	if claims == nil {
		return errs.ErrUnauthorized
	}
	if claims.Role == model.RoleAdmin || claims.Subject == ownerID {
		return nil
	}
	return errs.ErrForbidden
}
