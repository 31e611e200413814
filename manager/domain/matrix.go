package domain

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// RoleDefinition is one row of the role-permission table.
type RoleDefinition struct {
	Role        Role
	Rank        int
	Permissions []Permission
}

// Matrix answers "what can each role do". It is immutable once built and safe
// for concurrent use.
//
// Rank orders roles for seniority comparisons only. Grant checks never look
// at it, so a senior role holds exactly the permissions enumerated for it and
// nothing inherited from junior roles.
type Matrix struct {
	grants [roleEnd]PermissionSet
	ranks  [roleEnd]int
}

// NewMatrix builds a matrix from defs. Every assignable role must be defined
// exactly once with a non-empty, duplicate-free grant list drawn from the
// catalog, and the ranks must be exactly 1..RoleCount.
func NewMatrix(defs []RoleDefinition) (*Matrix, error) {
	if err := checkCatalogPartition(); err != nil {
		return nil, err
	}

	m := &Matrix{}
	var defined [roleEnd]bool
	rankOwner := map[int]Role{}
	for _, def := range defs {
		if !def.Role.Valid() {
			return nil, errors.WithMessagef(ErrInvalidMatrix, "definition for %s", def.Role)
		}
		if defined[def.Role] {
			return nil, errors.WithMessagef(ErrInvalidMatrix, "role %s defined twice", def.Role)
		}
		defined[def.Role] = true

		if def.Rank < 1 || def.Rank > RoleCount {
			return nil, errors.WithMessagef(ErrInvalidMatrix, "role %s has rank %d outside 1..%d", def.Role, def.Rank, RoleCount)
		}
		if other, ok := rankOwner[def.Rank]; ok {
			return nil, errors.WithMessagef(ErrInvalidMatrix, "roles %s and %s share rank %d", other, def.Role, def.Rank)
		}
		rankOwner[def.Rank] = def.Role
		m.ranks[def.Role] = def.Rank

		if len(def.Permissions) == 0 {
			return nil, errors.WithMessagef(ErrInvalidMatrix, "role %s has no permissions", def.Role)
		}
		var set PermissionSet
		for _, p := range def.Permissions {
			if !p.Valid() {
				return nil, errors.WithMessagef(ErrInvalidMatrix, "role %s grants %s outside the catalog", def.Role, p)
			}
			if set.Has(p) {
				return nil, errors.WithMessagef(ErrInvalidMatrix, "role %s grants %s twice", def.Role, p)
			}
			set = set.With(p)
		}
		m.grants[def.Role] = set
	}

	for r := RoleSuperAdmin; r < roleEnd; r++ {
		if !defined[r] {
			return nil, errors.WithMessagef(ErrInvalidMatrix, "role %s is not defined", r)
		}
	}
	return m, nil
}

// MustNewMatrix is NewMatrix for compiled-in tables; it panics on error.
func MustNewMatrix(defs []RoleDefinition) *Matrix {
	m, err := NewMatrix(defs)
	if err != nil {
		panic(err)
	}
	return m
}

var (
	defaultMatrix     *Matrix
	defaultMatrixOnce sync.Once
)

// DefaultMatrix returns the process-wide matrix built from
// DefaultRoleDefinitions.
func DefaultMatrix() *Matrix {
	defaultMatrixOnce.Do(func() {
		defaultMatrix = MustNewMatrix(DefaultRoleDefinitions())
	})
	return defaultMatrix
}

// grantsFor treats anything other than an assignable role as holding no
// grants.
func (m *Matrix) grantsFor(role Role) PermissionSet {
	if !role.Valid() {
		return 0
	}
	return m.grants[role]
}

// HasPermission reports whether role is granted p.
func (m *Matrix) HasPermission(role Role, p Permission) bool {
	return m.grantsFor(role).Has(p)
}

// HasAll reports whether role is granted every permission in perms. It is
// true for an empty list.
func (m *Matrix) HasAll(role Role, perms ...Permission) bool {
	grants := m.grantsFor(role)
	for _, p := range perms {
		if !grants.Has(p) {
			return false
		}
	}
	return true
}

// HasAny reports whether role is granted at least one permission in perms. It
// is false for an empty list.
func (m *Matrix) HasAny(role Role, perms ...Permission) bool {
	grants := m.grantsFor(role)
	for _, p := range perms {
		if grants.Has(p) {
			return true
		}
	}
	return false
}

// GrantsOf returns a copy of role's grant set.
func (m *Matrix) GrantsOf(role Role) PermissionSet {
	return m.grantsFor(role)
}

// Missing returns the members of perms that role is not granted, in the
// order given.
func (m *Matrix) Missing(role Role, perms ...Permission) []Permission {
	grants := m.grantsFor(role)
	var missing []Permission
	for _, p := range perms {
		if !grants.Has(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// RankOf returns role's seniority, 1 for the most junior. RoleNone and
// unknown values rank 0.
func (m *Matrix) RankOf(role Role) int {
	if !role.Valid() {
		return 0
	}
	return m.ranks[role]
}

// IsSenior reports whether a ranks strictly above b.
func (m *Matrix) IsSenior(a, b Role) bool {
	return m.RankOf(a) > m.RankOf(b)
}

// Roles returns every assignable role, most senior first.
func (m *Matrix) Roles() []Role {
	roles := AllRoles()
	sort.Slice(roles, func(i, j int) bool {
		return m.ranks[roles[i]] > m.ranks[roles[j]]
	})
	return roles
}

// CategoryGrants is the part of a role's grant set falling in one category.
type CategoryGrants struct {
	Category    Category
	Permissions []Permission
}

// RoleSummary describes a role for display.
type RoleSummary struct {
	Role        Role
	DisplayName string
	Description string
	Rank        int
	Grants      PermissionSet
	Categories  []CategoryGrants
}

// Summary describes role. Categories are listed in catalog order and only
// when the role holds at least one of their permissions.
func (m *Matrix) Summary(role Role) RoleSummary {
	grants := m.GrantsOf(role)
	byCategory := grants.ByCategory()
	summary := RoleSummary{
		Role:        role,
		DisplayName: role.DisplayName(),
		Description: role.Description(),
		Rank:        m.RankOf(role),
		Grants:      grants,
	}
	for _, c := range Categories() {
		if perms, ok := byCategory[c]; ok {
			summary.Categories = append(summary.Categories, CategoryGrants{Category: c, Permissions: perms})
		}
	}
	return summary
}

// DefaultRoleDefinitions returns the compiled-in ERP policy. Each role's list
// is complete on its own.
func DefaultRoleDefinitions() []RoleDefinition {
	return []RoleDefinition{
		{
			Role: RoleSuperAdmin,
			Rank: 6,
			Permissions: []Permission{
				DashboardView,
				ProductsView, ProductsCreate, ProductsEdit, ProductsDelete, ProductsBulkEdit,
				InvoicesView, InvoicesCreate, InvoicesEdit, InvoicesDelete, InvoicesSend,
				CustomersView, CustomersCreate, CustomersEdit, CustomersDelete, CustomersExport,
				StockView, StockAdjust, StockTransfer, StockAudit,
				ReportsView, ReportsExport, ReportsSchedule,
				SettingsView, SettingsEdit,
				UsersView, UsersCreate, UsersEdit, UsersDelete,
				StoresSwitch, StoresCreate, StoresEdit,
				SystemBackup, SystemRestore,
			},
		},
		{
			Role: RoleAdmin,
			Rank: 5,
			Permissions: []Permission{
				DashboardView,
				ProductsView, ProductsCreate, ProductsEdit, ProductsDelete, ProductsBulkEdit,
				InvoicesView, InvoicesCreate, InvoicesEdit, InvoicesDelete, InvoicesSend,
				CustomersView, CustomersCreate, CustomersEdit, CustomersDelete, CustomersExport,
				StockView, StockAdjust, StockTransfer, StockAudit,
				ReportsView, ReportsExport, ReportsSchedule,
				SettingsView, SettingsEdit,
				// no users.delete
				UsersView, UsersCreate, UsersEdit,
				StoresSwitch,
			},
		},
		{
			Role: RoleManager,
			Rank: 4,
			Permissions: []Permission{
				DashboardView,
				ProductsView, ProductsCreate, ProductsEdit, ProductsBulkEdit,
				InvoicesView, InvoicesCreate, InvoicesEdit, InvoicesSend,
				CustomersView, CustomersCreate, CustomersEdit, CustomersExport,
				StockView, StockAdjust, StockTransfer,
				ReportsView, ReportsExport,
				SettingsView,
				UsersView,
				StoresSwitch,
			},
		},
		{
			Role: RoleSales,
			Rank: 3,
			Permissions: []Permission{
				DashboardView,
				ProductsView, ProductsEdit,
				InvoicesView, InvoicesCreate, InvoicesEdit, InvoicesSend,
				CustomersView, CustomersCreate, CustomersEdit, CustomersExport,
				StockView,
				ReportsView, ReportsExport,
				SettingsView,
			},
		},
		{
			Role: RoleInventory,
			Rank: 2,
			Permissions: []Permission{
				DashboardView,
				ProductsView, ProductsCreate, ProductsEdit, ProductsBulkEdit,
				InvoicesView,
				CustomersView,
				StockView, StockAdjust, StockTransfer, StockAudit,
				ReportsView, ReportsExport,
				SettingsView,
			},
		},
		{
			Role: RoleViewer,
			Rank: 1,
			Permissions: []Permission{
				DashboardView,
				ProductsView,
				InvoicesView,
				CustomersView,
				StockView,
				ReportsView,
				SettingsView,
			},
		},
	}
}
