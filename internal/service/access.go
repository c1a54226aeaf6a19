package service

import (
	"storefront-service/internal/model"
)

// IsAdminRole reports whether the role grants access to admin endpoints.
func IsAdminRole(role string) bool {
	return role == model.RoleSuperAdmin || role == model.RoleAdmin
}

// CanAccessProduct reports whether a caller with the given role and
// assignment set may act on the given product. Super admins bypass the
// assignment check entirely.
func CanAccessProduct(role string, assigned []uint, productID uint) bool {
	if role == model.RoleSuperAdmin {
		return true
	}
	for _, id := range assigned {
		if id == productID {
			return true
		}
	}
	return false
}

// CanManageUser implements the full-coverage rule: a scoped admin may
// manage another user only when the target's entire product set is a
// non-empty subset of the admin's own set. A target with zero products
// is inaccessible to non-super-admins, and super_admin targets are
// reserved to super admins regardless of coverage.
func CanManageUser(callerRole string, callerProducts []uint, targetRole string, targetProducts []uint) bool {
	if callerRole == model.RoleSuperAdmin {
		return true
	}
	if callerRole != model.RoleAdmin {
		return false
	}
	if targetRole == model.RoleSuperAdmin {
		return false
	}
	if len(targetProducts) == 0 {
		return false
	}
	owned := make(map[uint]struct{}, len(callerProducts))
	for _, id := range callerProducts {
		owned[id] = struct{}{}
	}
	for _, id := range targetProducts {
		if _, ok := owned[id]; !ok {
			return false
		}
	}
	return true
}

// CoversAll reports whether every requested product id is contained in
// the caller's assignment set. Used to vet assignment replacements made
// by scoped admins.
func CoversAll(callerProducts, requested []uint) bool {
	owned := make(map[uint]struct{}, len(callerProducts))
	for _, id := range callerProducts {
		owned[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := owned[id]; !ok {
			return false
		}
	}
	return true
}
