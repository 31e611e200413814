package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	perms := AllPermissions()
	require.Len(t, perms, PermissionCount)
	assert.Equal(t, 34, PermissionCount)

	seen := map[string]bool{}
	for _, p := range perms {
		key := p.String()
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true

		parsed, err := ParsePermission(key)
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestParsePermissionUnknown(t *testing.T) {
	for _, key := range []string{"", "products", "products.archive", "PRODUCTS.VIEW", "view_dashboard"} {
		_, err := ParsePermission(key)
		assert.ErrorIs(t, err, ErrUnknownPermission, key)
	}

	_, err := ParsePermissions([]string{"stock.view", "stock.teleport"})
	assert.ErrorIs(t, err, ErrUnknownPermission)

	perms, err := ParsePermissions([]string{"stock.view", "stock.audit"})
	require.NoError(t, err)
	assert.Equal(t, []Permission{StockView, StockAudit}, perms)
}

func TestCategoriesPartitionCatalog(t *testing.T) {
	require.NoError(t, checkCatalogPartition())

	counted := 0
	for _, c := range Categories() {
		for _, p := range c.Permissions() {
			assert.Equal(t, c, p.Category(), "permission %s", p)
			counted++
		}
	}
	assert.Equal(t, PermissionCount, counted)
	assert.Len(t, Categories(), 10)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryProducts, ProductsBulkEdit.Category())
	assert.Equal(t, "Products", ProductsBulkEdit.Category().String())
	assert.Equal(t, CategorySystem, SystemRestore.Category())
	assert.Equal(t, CategoryOther, Permission(0).Category())
	assert.Equal(t, "Other", Permission(77).Category().String())
	assert.Nil(t, Category(99).Permissions())

	var c Category
	require.NoError(t, json.Unmarshal([]byte(`"Stock"`), &c))
	assert.Equal(t, CategoryStock, c)
	require.NoError(t, json.Unmarshal([]byte(`"Warehouse"`), &c))
	assert.Equal(t, CategoryOther, c)
}

func TestCategoryPermissionsIsACopy(t *testing.T) {
	perms := CategoryStock.Permissions()
	perms[0] = SystemRestore
	assert.Equal(t, StockView, CategoryStock.Permissions()[0])
}

func TestRoles(t *testing.T) {
	roles := AllRoles()
	require.Len(t, roles, RoleCount)
	for _, r := range roles {
		parsed, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
		assert.NotEmpty(t, r.DisplayName())
		assert.NotEmpty(t, r.Description())
	}
	assert.Equal(t, "Super Admin", RoleSuperAdmin.DisplayName())
	assert.Equal(t, "super_admin", RoleSuperAdmin.String())
	assert.Equal(t, "none", RoleNone.String())
	assert.False(t, RoleNone.Valid())

	for _, key := range []string{"", "root", "Admin", "staff"} {
		r, err := ParseRole(key)
		assert.ErrorIs(t, err, ErrUnknownRole, key)
		assert.Equal(t, RoleNone, r)
	}
}

func TestTextEncoding(t *testing.T) {
	type payload struct {
		Role  Role          `json:"role"`
		Perms []Permission  `json:"perms"`
		Set   PermissionSet `json:"-"`
	}
	in := payload{Role: RoleInventory, Perms: []Permission{StockAudit, ReportsExport}}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"inventory","perms":["stock.audit","reports.export"]}`, string(data))

	var out payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	err = json.Unmarshal([]byte(`{"role":"root","perms":[]}`), &out)
	assert.ErrorIs(t, err, ErrUnknownRole)
	err = json.Unmarshal([]byte(`{"role":"viewer","perms":["x.y"]}`), &out)
	assert.ErrorIs(t, err, ErrUnknownPermission)

	var none payload
	require.NoError(t, json.Unmarshal([]byte(`{"role":""}`), &none))
	assert.Equal(t, RoleNone, none.Role)

	_, err = Permission(0).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownPermission)
}

func TestPermissionSet(t *testing.T) {
	s := NewPermissionSet(StockView, StockAudit, Permission(0), Permission(120))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Permission{StockView, StockAudit}, s.Slice())
	assert.Equal(t, []string{"stock.view", "stock.audit"}, s.Strings())
	assert.Equal(t, "[stock.view stock.audit]", s.String())

	assert.True(t, s.ContainsAny(NewPermissionSet(StockAudit, SystemBackup)))
	assert.False(t, s.ContainsAll(NewPermissionSet(StockAudit, SystemBackup)))
	assert.True(t, s.ContainsAll(0))
	assert.False(t, s.ContainsAny(0))

	assert.False(t, s.Without(StockView).Has(StockView))
	assert.True(t, s.Has(StockView))
	assert.Equal(t, PermissionCount, FullPermissionSet().Len())
	assert.Equal(t, s, s.Union(NewPermissionSet(StockView)))
	assert.True(t, NewPermissionSet().IsEmpty())

	grouped := NewPermissionSet(StockView, UsersView, UsersEdit).ByCategory()
	assert.Equal(t, []Permission{UsersView, UsersEdit}, grouped[CategoryUsers])
	assert.Len(t, grouped, 2)
}
