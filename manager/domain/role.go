package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// Role is one of the fixed ERP job functions. RoleNone stands for "no role"
// (unauthenticated, or a user whose stored role is not recognised) and is
// granted nothing.
type Role uint8

const (
	RoleNone Role = iota
	RoleSuperAdmin
	RoleAdmin
	RoleManager
	RoleSales
	RoleInventory
	RoleViewer

	roleEnd
)

// RoleCount is the number of assignable roles.
const RoleCount = int(roleEnd) - 1

type roleInfo struct {
	key         string
	displayName string
	description string
}

var roleInfos = [roleEnd]roleInfo{
	RoleNone: {key: "", displayName: "None", description: "No role assigned"},
	RoleSuperAdmin: {
		key:         "super_admin",
		displayName: "Super Admin",
		description: "Full system access with all permissions including user management and system operations",
	},
	RoleAdmin: {
		key:         "admin",
		displayName: "Admin",
		description: "Administrative access with most permissions except system-level operations",
	},
	RoleManager: {
		key:         "manager",
		displayName: "Manager",
		description: "Management-level access with oversight capabilities for products, sales, and inventory",
	},
	RoleSales: {
		key:         "sales",
		displayName: "Sales",
		description: "Sales-focused access with customer and invoice management capabilities",
	},
	RoleInventory: {
		key:         "inventory",
		displayName: "Inventory",
		description: "Inventory-focused access with stock management and product catalog capabilities",
	},
	RoleViewer: {
		key:         "viewer",
		displayName: "Viewer",
		description: "Read-only access to view data without modification capabilities",
	},
}

var roleByKey = func() map[string]Role {
	m := make(map[string]Role, RoleCount)
	for r := RoleSuperAdmin; r < roleEnd; r++ {
		m[roleInfos[r].key] = r
	}
	return m
}()

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	return r >= RoleSuperAdmin && r < roleEnd
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	if !r.Valid() {
		return fmt.Sprintf("role(%d)", uint8(r))
	}
	return roleInfos[r].key
}

func (r Role) DisplayName() string {
	if r >= roleEnd {
		return roleInfos[RoleNone].displayName
	}
	return roleInfos[r].displayName
}

func (r Role) Description() string {
	if r >= roleEnd {
		return roleInfos[RoleNone].description
	}
	return roleInfos[r].description
}

// MarshalText encodes RoleNone as the empty string.
func (r Role) MarshalText() ([]byte, error) {
	if r == RoleNone {
		return []byte{}, nil
	}
	if !r.Valid() {
		return nil, errors.WithMessagef(ErrUnknownRole, "%d", uint8(r))
	}
	return []byte(roleInfos[r].key), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RoleNone
		return nil
	}
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole maps a role key such as "super_admin" to its Role.
func ParseRole(key string) (Role, error) {
	r, ok := roleByKey[key]
	if !ok {
		return RoleNone, errors.WithMessagef(ErrUnknownRole, "%q", key)
	}
	return r, nil
}

// AllRoles returns the assignable roles in declaration order.
func AllRoles() []Role {
	roles := make([]Role, 0, RoleCount)
	for r := RoleSuperAdmin; r < roleEnd; r++ {
		roles = append(roles, r)
	}
	return roles
}
