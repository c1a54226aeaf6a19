package service

import (
	"testing"

	"storefront-service/internal/model"
)

func TestIsAdminRole(t *testing.T) {
	if !IsAdminRole(model.RoleSuperAdmin) || !IsAdminRole(model.RoleAdmin) {
		t.Error("super_admin and admin must be admin roles")
	}
	if IsAdminRole(model.RoleUser) || IsAdminRole("") {
		t.Error("user and empty roles must not be admin roles")
	}
}

func TestCanAccessProduct(t *testing.T) {
	if !CanAccessProduct(model.RoleSuperAdmin, nil, 42) {
		t.Error("super admin must access any product without assignments")
	}
	if !CanAccessProduct(model.RoleAdmin, []uint{1, 2, 3}, 2) {
		t.Error("admin must access an assigned product")
	}
	if CanAccessProduct(model.RoleAdmin, []uint{1, 2, 3}, 4) {
		t.Error("admin must not access an unassigned product")
	}
	if CanAccessProduct(model.RoleUser, nil, 1) {
		t.Error("a user with no assignments must not access any product")
	}
}

func TestCanManageUserCoverage(t *testing.T) {
	// Full coverage: target's set is a subset of the caller's
	if !CanManageUser(model.RoleAdmin, []uint{1, 2, 3}, model.RoleUser, []uint{1, 2}) {
		t.Error("covered target must be manageable")
	}
	// Partial coverage is not enough
	if CanManageUser(model.RoleAdmin, []uint{1, 2}, model.RoleUser, []uint{1, 2, 3}) {
		t.Error("target with products outside the caller's scope must be denied")
	}
	// A target with zero products is invisible to scoped admins
	if CanManageUser(model.RoleAdmin, []uint{1, 2, 3}, model.RoleUser, nil) {
		t.Error("target with an empty product set must be denied")
	}
}

func TestCanManageUserRoles(t *testing.T) {
	if !CanManageUser(model.RoleSuperAdmin, nil, model.RoleSuperAdmin, nil) {
		t.Error("super admin must manage anyone, including other super admins")
	}
	if CanManageUser(model.RoleAdmin, []uint{1}, model.RoleSuperAdmin, []uint{1}) {
		t.Error("admin must never manage a super admin, even with coverage")
	}
	if CanManageUser(model.RoleUser, []uint{1}, model.RoleUser, []uint{1}) {
		t.Error("plain users must not manage anyone")
	}
}

func TestCoversAll(t *testing.T) {
	if !CoversAll([]uint{1, 2, 3}, []uint{2, 3}) {
		t.Error("subset must be covered")
	}
	if !CoversAll([]uint{1, 2, 3}, nil) {
		t.Error("empty request is trivially covered")
	}
	if CoversAll([]uint{1, 2}, []uint{2, 4}) {
		t.Error("request outside the caller's set must not be covered")
	}
}
