package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// Permission is one entry of the closed permission catalog. The zero value is
// not a permission.
type Permission uint8

const (
	DashboardView Permission = iota + 1

	ProductsView
	ProductsCreate
	ProductsEdit
	ProductsDelete
	ProductsBulkEdit

	InvoicesView
	InvoicesCreate
	InvoicesEdit
	InvoicesDelete
	InvoicesSend

	CustomersView
	CustomersCreate
	CustomersEdit
	CustomersDelete
	CustomersExport

	StockView
	StockAdjust
	StockTransfer
	StockAudit

	ReportsView
	ReportsExport
	ReportsSchedule

	SettingsView
	SettingsEdit

	UsersView
	UsersCreate
	UsersEdit
	UsersDelete

	StoresSwitch
	StoresCreate
	StoresEdit

	SystemBackup
	SystemRestore

	permissionEnd
)

// PermissionCount is the size of the catalog.
const PermissionCount = int(permissionEnd) - 1

var permissionKeys = [permissionEnd]string{
	DashboardView: "dashboard.view",

	ProductsView:     "products.view",
	ProductsCreate:   "products.create",
	ProductsEdit:     "products.edit",
	ProductsDelete:   "products.delete",
	ProductsBulkEdit: "products.bulk_edit",

	InvoicesView:   "invoices.view",
	InvoicesCreate: "invoices.create",
	InvoicesEdit:   "invoices.edit",
	InvoicesDelete: "invoices.delete",
	InvoicesSend:   "invoices.send",

	CustomersView:   "customers.view",
	CustomersCreate: "customers.create",
	CustomersEdit:   "customers.edit",
	CustomersDelete: "customers.delete",
	CustomersExport: "customers.export",

	StockView:     "stock.view",
	StockAdjust:   "stock.adjust",
	StockTransfer: "stock.transfer",
	StockAudit:    "stock.audit",

	ReportsView:     "reports.view",
	ReportsExport:   "reports.export",
	ReportsSchedule: "reports.schedule",

	SettingsView: "settings.view",
	SettingsEdit: "settings.edit",

	UsersView:   "users.view",
	UsersCreate: "users.create",
	UsersEdit:   "users.edit",
	UsersDelete: "users.delete",

	StoresSwitch: "stores.switch",
	StoresCreate: "stores.create",
	StoresEdit:   "stores.edit",

	SystemBackup:  "system.backup",
	SystemRestore: "system.restore",
}

var permissionByKey = func() map[string]Permission {
	m := make(map[string]Permission, PermissionCount)
	for p := DashboardView; p < permissionEnd; p++ {
		m[permissionKeys[p]] = p
	}
	return m
}()

// Valid reports whether p is a member of the catalog.
func (p Permission) Valid() bool {
	return p >= DashboardView && p < permissionEnd
}

func (p Permission) String() string {
	if !p.Valid() {
		return fmt.Sprintf("permission(%d)", uint8(p))
	}
	return permissionKeys[p]
}

// Category returns the catalog group p belongs to. Values outside the
// catalog report CategoryOther.
func (p Permission) Category() Category {
	if !p.Valid() {
		return CategoryOther
	}
	return permissionCategory[p]
}

func (p Permission) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.WithMessagef(ErrUnknownPermission, "%d", uint8(p))
	}
	return []byte(permissionKeys[p]), nil
}

func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePermission maps a catalog key such as "products.edit" to its
// Permission.
func ParsePermission(key string) (Permission, error) {
	p, ok := permissionByKey[key]
	if !ok {
		return 0, errors.WithMessagef(ErrUnknownPermission, "%q", key)
	}
	return p, nil
}

// ParsePermissions parses every key, failing on the first unknown one.
func ParsePermissions(keys []string) ([]Permission, error) {
	perms := make([]Permission, 0, len(keys))
	for _, key := range keys {
		p, err := ParsePermission(key)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// AllPermissions returns the catalog in declaration order.
func AllPermissions() []Permission {
	perms := make([]Permission, 0, PermissionCount)
	for p := DashboardView; p < permissionEnd; p++ {
		perms = append(perms, p)
	}
	return perms
}

// Category groups permissions for display and audit. It has no effect on
// authorization.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryDashboard
	CategoryProducts
	CategoryInvoices
	CategoryCustomers
	CategoryStock
	CategoryReports
	CategorySettings
	CategoryUsers
	CategoryStores
	CategorySystem

	categoryEnd
)

var categoryNames = [categoryEnd]string{
	CategoryOther:     "Other",
	CategoryDashboard: "Dashboard",
	CategoryProducts:  "Products",
	CategoryInvoices:  "Invoices",
	CategoryCustomers: "Customers",
	CategoryStock:     "Stock",
	CategoryReports:   "Reports",
	CategorySettings:  "Settings",
	CategoryUsers:     "Users",
	CategoryStores:    "Stores",
	CategorySystem:    "System",
}

var categoryMembers = [categoryEnd][]Permission{
	CategoryDashboard: {DashboardView},
	CategoryProducts:  {ProductsView, ProductsCreate, ProductsEdit, ProductsDelete, ProductsBulkEdit},
	CategoryInvoices:  {InvoicesView, InvoicesCreate, InvoicesEdit, InvoicesDelete, InvoicesSend},
	CategoryCustomers: {CustomersView, CustomersCreate, CustomersEdit, CustomersDelete, CustomersExport},
	CategoryStock:     {StockView, StockAdjust, StockTransfer, StockAudit},
	CategoryReports:   {ReportsView, ReportsExport, ReportsSchedule},
	CategorySettings:  {SettingsView, SettingsEdit},
	CategoryUsers:     {UsersView, UsersCreate, UsersEdit, UsersDelete},
	CategoryStores:    {StoresSwitch, StoresCreate, StoresEdit},
	CategorySystem:    {SystemBackup, SystemRestore},
}

// permissionCategory is the inverse of categoryMembers.
var permissionCategory = func() [permissionEnd]Category {
	var out [permissionEnd]Category
	for c := CategoryDashboard; c < categoryEnd; c++ {
		for _, p := range categoryMembers[c] {
			out[p] = c
		}
	}
	return out
}()

func (c Category) String() string {
	if c >= categoryEnd {
		return categoryNames[CategoryOther]
	}
	return categoryNames[c]
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts a category display name. Unrecognised names decode
// to CategoryOther.
func (c *Category) UnmarshalText(text []byte) error {
	for i := CategoryDashboard; i < categoryEnd; i++ {
		if categoryNames[i] == string(text) {
			*c = i
			return nil
		}
	}
	*c = CategoryOther
	return nil
}

// Permissions returns the members of c in catalog order.
func (c Category) Permissions() []Permission {
	if c >= categoryEnd {
		return nil
	}
	return append([]Permission(nil), categoryMembers[c]...)
}

// Categories returns every catalog category in display order. CategoryOther
// is not included since no catalog permission belongs to it.
func Categories() []Category {
	cats := make([]Category, 0, int(categoryEnd)-1)
	for c := CategoryDashboard; c < categoryEnd; c++ {
		cats = append(cats, c)
	}
	return cats
}

// checkCatalogPartition verifies every catalog permission is claimed by
// exactly one category.
func checkCatalogPartition() error {
	var seen [permissionEnd]int
	for c := CategoryDashboard; c < categoryEnd; c++ {
		for _, p := range categoryMembers[c] {
			if !p.Valid() {
				return errors.WithMessagef(ErrInvalidMatrix, "category %s lists %s outside the catalog", c, p)
			}
			seen[p]++
		}
	}
	for p := DashboardView; p < permissionEnd; p++ {
		switch seen[p] {
		case 0:
			return errors.WithMessagef(ErrInvalidMatrix, "permission %s has no category", p)
		case 1:
		default:
			return errors.WithMessagef(ErrInvalidMatrix, "permission %s is listed in %d categories", p, seen[p])
		}
	}
	return nil
}
