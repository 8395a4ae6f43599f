package domain

import (
	"testing"
	"time"
)

func TestUserRole_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		role  UserRole
		valid bool
	}{
		{"Valid user role", RoleUser, true},
		{"Valid moderator role", RoleModerator, true},
		{"Valid admin role", RoleAdmin, true},
		{"Invalid role", UserRole("invalid"), false},
		{"Empty role", UserRole(""), false},
		{"Uppercase role", UserRole("ADMIN"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v for role %q", got, tt.valid, tt.role)
			}
		})
	}
}

func TestParseUserRole(t *testing.T) {
	if got := ParseUserRole("admin"); got != RoleAdmin {
		t.Errorf("expected admin, got %q", got)
	}
	if got := ParseUserRole("root"); got != RoleUser {
		t.Errorf("expected unknown role to map to user, got %q", got)
	}
}

func TestCaller_Can(t *testing.T) {
	tests := []struct {
		name string
		role UserRole
		perm Permission
		want bool
	}{
		{"User cannot read any", RoleUser, PermissionOperationsReadAny, false},
		{"User cannot write any", RoleUser, PermissionOperationsWriteAny, false},
		{"Moderator reads any", RoleModerator, PermissionOperationsReadAny, true},
		{"Moderator cannot write any", RoleModerator, PermissionOperationsWriteAny, false},
		{"Moderator reads stats", RoleModerator, PermissionStatsRead, true},
		{"Admin writes any", RoleAdmin, PermissionOperationsWriteAny, true},
		{"Admin has unknown permission through wildcard", RoleAdmin, Permission("anything:else"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCaller("id", "a@b.c", tt.role)
			if got := c.Can(tt.perm); got != tt.want {
				t.Errorf("Can(%q) = %v, want %v", tt.perm, got, tt.want)
			}
		})
	}
}

func TestCaller_NilSafe(t *testing.T) {
	var c *Caller
	if c.Can(PermissionStatsRead) {
		t.Error("nil caller must not have permissions")
	}
	if c.IsAdmin() {
		t.Error("nil caller must not be admin")
	}
	if c.Capabilities() != nil {
		t.Error("nil caller must have no capabilities")
	}
}

func TestCanModifyOperation(t *testing.T) {
	op := &DelegationOperation{ID: "op1", UserID: "owner"}

	tests := []struct {
		name   string
		caller *Caller
		want   bool
	}{
		{"Owner", NewCaller("owner", "", RoleUser), true},
		{"Other user", NewCaller("other", "", RoleUser), false},
		{"Moderator non-owner", NewCaller("mod", "", RoleModerator), false},
		{"Admin non-owner", NewCaller("admin", "", RoleAdmin), true},
		{"No caller", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyOperation(tt.caller, op); got != tt.want {
				t.Errorf("CanModifyOperation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewOperation(t *testing.T) {
	op := &DelegationOperation{ID: "op1", UserID: "owner"}

	tests := []struct {
		name   string
		caller *Caller
		want   bool
	}{
		{"Owner", NewCaller("owner", "", RoleUser), true},
		{"Other user", NewCaller("other", "", RoleUser), false},
		{"Moderator non-owner", NewCaller("mod", "", RoleModerator), true},
		{"Admin non-owner", NewCaller("admin", "", RoleAdmin), true},
		{"No caller", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewOperation(tt.caller, op); got != tt.want {
				t.Errorf("CanViewOperation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaller_AsUser(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := NewCaller("u1", "u1@example.com", RoleModerator).AsUser(now)

	if u.ID != "u1" || u.Email != "u1@example.com" || u.Role != RoleModerator {
		t.Errorf("unexpected user %+v", u)
	}
	if !u.CreatedAt.Equal(now) || !u.UpdatedAt.Equal(now) {
		t.Error("expected timestamps set to now")
	}
}
