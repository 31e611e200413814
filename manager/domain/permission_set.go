package domain

import (
	"math/bits"
	"strings"
)

// PermissionSet is a set of catalog permissions stored as a bitmask. It is a
// plain value: copies never share state with the original.
type PermissionSet uint64

// NewPermissionSet returns the set holding perms. Values outside the catalog
// are dropped.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s = s.With(p)
	}
	return s
}

// FullPermissionSet returns the whole catalog.
func FullPermissionSet() PermissionSet {
	return NewPermissionSet(AllPermissions()...)
}

func (s PermissionSet) Has(p Permission) bool {
	if !p.Valid() {
		return false
	}
	return s&(1<<p) != 0
}

// With returns s plus p.
func (s PermissionSet) With(p Permission) PermissionSet {
	if !p.Valid() {
		return s
	}
	return s | 1<<p
}

// Without returns s minus p.
func (s PermissionSet) Without(p Permission) PermissionSet {
	if !p.Valid() {
		return s
	}
	return s &^ (1 << p)
}

// ContainsAll reports whether every member of other is in s.
func (s PermissionSet) ContainsAll(other PermissionSet) bool {
	return s&other == other
}

// ContainsAny reports whether s and other share at least one member.
func (s PermissionSet) ContainsAny(other PermissionSet) bool {
	return s&other != 0
}

func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	return s | other
}

func (s PermissionSet) Difference(other PermissionSet) PermissionSet {
	return s &^ other
}

func (s PermissionSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

func (s PermissionSet) IsEmpty() bool {
	return s == 0
}

// Slice returns the members in catalog order. The slice is freshly allocated.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, s.Len())
	for p := DashboardView; p < permissionEnd; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Strings returns the catalog keys of the members in catalog order.
func (s PermissionSet) Strings() []string {
	out := make([]string, 0, s.Len())
	for _, p := range s.Slice() {
		out = append(out, p.String())
	}
	return out
}

// ByCategory groups the members by category. Categories with no member are
// omitted.
func (s PermissionSet) ByCategory() map[Category][]Permission {
	out := map[Category][]Permission{}
	for _, p := range s.Slice() {
		c := p.Category()
		out[c] = append(out[c], p)
	}
	return out
}

func (s PermissionSet) String() string {
	return "[" + strings.Join(s.Strings(), " ") + "]"
}
