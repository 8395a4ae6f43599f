package domain

import "testing"

func TestCapabilitySet_Has(t *testing.T) {
	tests := []struct {
		name string
		set  CapabilitySet
		perm Permission
		want bool
	}{
		{"Exact match", NewCapabilitySet(PermissionStatsRead), PermissionStatsRead, true},
		{"No match", NewCapabilitySet(PermissionStatsRead), PermissionOperationsReadAny, false},
		{"Global wildcard", NewCapabilitySet(PermissionAll), PermissionOperationsWriteAny, true},
		{"Resource wildcard", NewCapabilitySet("operations:*"), PermissionOperationsReadAny, true},
		{"Resource wildcard other resource", NewCapabilitySet("operations:*"), PermissionStatsRead, false},
		{"Prefix without wildcard", NewCapabilitySet("operations:read"), PermissionOperationsReadAny, false},
		{"Empty set", NewCapabilitySet(), PermissionStatsRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Has(tt.perm); got != tt.want {
				t.Errorf("Has(%q) = %v, want %v", tt.perm, got, tt.want)
			}
		})
	}
}

func TestDefaultPermissionsForRole(t *testing.T) {
	if len(DefaultPermissionsForRole(RoleUser)) != 0 {
		t.Error("user role should have no special permissions")
	}
	if len(DefaultPermissionsForRole(UserRole("ghost"))) != 0 {
		t.Error("unknown role should have no permissions")
	}
	admin := DefaultPermissionsForRole(RoleAdmin)
	if len(admin) != 1 || admin[0] != PermissionAll {
		t.Errorf("admin should hold the global wildcard, got %v", admin)
	}
}
