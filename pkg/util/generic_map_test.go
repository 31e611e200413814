package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenericMapDeleteIf(t *testing.T) {
	m := NewGenericMap[string, int64]()
	m.Store("a", 1)
	m.Store("b", 5)
	m.Store("c", 9)

	removed := m.DeleteIf(func(_ string, v int64) bool { return v < 6 })
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, m.Len())

	_, ok := m.Load("a")
	assert.False(t, ok)
	v, ok := m.Load("c")
	assert.True(t, ok)
	assert.EqualValues(t, 9, v)
}
