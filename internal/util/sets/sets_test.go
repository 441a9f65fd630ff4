package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBasics(t *testing.T) {
	s := New("a", "b")
	s.Add("c", "a")
	require.Equal(t, 3, s.Len())
	assert.True(t, s.Has("c"))

	s.Delete("a")
	assert.False(t, s.Has("a"))
	assert.Equal(t, []string{"b", "c"}, Sorted(s))
}

func TestUnion(t *testing.T) {
	a := New(1, 2)
	b := New(2, 3)
	u := a.Union(b)

	assert.Equal(t, []int{1, 2, 3}, Sorted(u))
	// operands are untouched
	assert.Equal(t, []int{1, 2}, Sorted(a))
	assert.Equal(t, []int{2, 3}, Sorted(b))
}

func TestUnique(t *testing.T) {
	assert.Empty(t, Unique([]int{}))
	assert.Equal(t, []int{1, 2, 3}, Unique([]int{1, 2, 3}))
	assert.Equal(t, []int{3, 2}, Unique([]int{3, 2, 3}))
}
