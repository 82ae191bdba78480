package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tag struct{ name string }

type counter struct{ ticks int }

func (c *counter) Update(t, dt float64) { c.ticks++ }

func TestNewEntityIDsAreUniqueAndOrdered(t *testing.T) {
	a := NewEntity()
	b := NewEntity()
	assert.Less(t, a.ID(), b.ID())
}

func TestComponentLookup(t *testing.T) {
	first := &tag{name: "first"}
	second := &tag{name: "second"}
	cnt := &counter{}
	e := NewEntity(WithComponents(first, cnt, second))

	got, ok := ComponentOf[*tag](e)
	require.True(t, ok)
	assert.Same(t, first, got)

	assert.Equal(t, []*tag{first, second}, ComponentsOf[*tag](e))
	assert.Equal(t, []Updater{cnt}, ComponentsOf[Updater](e))

	_, ok = ComponentOf[*int](e)
	assert.False(t, ok)
	assert.Empty(t, ComponentsOf[*int](e))
}

func TestComponentLookupOnNil(t *testing.T) {
	_, ok := ComponentOf[*tag](nil)
	assert.False(t, ok)
	assert.Nil(t, ComponentsOf[*tag](nil))
}

func TestRemoveComponent(t *testing.T) {
	a := &tag{name: "a"}
	b := &tag{name: "b"}
	e := NewEntity(WithComponents(a, b))

	assert.True(t, e.RemoveComponent(a))
	assert.False(t, e.RemoveComponent(a))
	assert.Equal(t, []Component{b}, e.Components())
}

type waypoints []float32

func TestRemoveComponentUncomparable(t *testing.T) {
	path := waypoints{1, 2, 3}
	a := &tag{name: "a"}
	e := NewEntity(WithComponents(path, a))

	var removed bool
	require.NotPanics(t, func() { removed = e.RemoveComponent(waypoints{1, 2, 3}) })
	assert.False(t, removed)
	assert.False(t, e.RemoveComponent(nil))

	// comparable lookups walk past the slice component safely
	assert.True(t, e.RemoveComponent(a))
	assert.Equal(t, 1, RemoveComponentsOf[waypoints](e))
	assert.Empty(t, e.Components())
}

func TestRemoveComponentsOf(t *testing.T) {
	cnt := &counter{}
	e := NewEntity(WithComponents(&tag{}, cnt, &tag{}))

	assert.Equal(t, 2, RemoveComponentsOf[*tag](e))
	assert.Equal(t, []Component{cnt}, e.Components())
	assert.Equal(t, 0, RemoveComponentsOf[*tag](e))
}

func TestSetParentMovesChild(t *testing.T) {
	oldParent := NewEntity()
	newParent := NewEntity()
	child := NewEntity(WithParent(oldParent))
	require.Equal(t, []Entity{child}, oldParent.Children())

	require.NoError(t, child.SetParent(newParent))
	assert.Empty(t, oldParent.Children())
	assert.Equal(t, []Entity{child}, newParent.Children())
	assert.Equal(t, newParent, child.Parent())

	// reattaching to the same parent never duplicates
	require.NoError(t, child.SetParent(newParent))
	assert.Len(t, newParent.Children(), 1)

	// moving back leaves no trace in the former parent
	require.NoError(t, child.SetParent(oldParent))
	assert.Empty(t, newParent.Children())
	assert.Equal(t, []Entity{child}, oldParent.Children())
}

func TestSetParentNilDetaches(t *testing.T) {
	parent := NewEntity()
	child := NewEntity(WithParent(parent))

	require.NoError(t, child.SetParent(nil))
	assert.Nil(t, child.Parent())
	assert.Empty(t, parent.Children())

	// detaching a root is harmless
	require.NoError(t, child.SetParent(nil))
}

func TestSetParentRejectsCycles(t *testing.T) {
	root := NewEntity()
	mid := NewEntity(WithParent(root))
	leaf := NewEntity(WithParent(mid))

	assert.ErrorIs(t, root.SetParent(leaf), ErrCycle)
	assert.ErrorIs(t, root.SetParent(root), ErrCycle)
	assert.Nil(t, root.Parent())
	assert.Equal(t, []Entity{leaf}, mid.Children())
}

func TestFindDescendantByName(t *testing.T) {
	root := NewEntity(WithName("root"))
	a := NewEntity(WithName("a"), WithParent(root))
	deep := NewEntity(WithName("target"), WithParent(a))
	shallow := NewEntity(WithName("target"), WithParent(root))

	// depth-first: the match under the first child wins over a later sibling
	assert.Same(t, deep, root.FindDescendantByName("target"))
	assert.Nil(t, root.FindDescendantByName("root"))
	assert.Nil(t, root.FindDescendantByName("missing"))

	require.NoError(t, a.SetParent(nil))
	assert.Same(t, shallow, root.FindDescendantByName("target"))
}

func TestWalkAndRoots(t *testing.T) {
	root := NewEntity(WithName("root"))
	a := NewEntity(WithName("a"), WithParent(root))
	NewEntity(WithName("a1"), WithParent(a))
	NewEntity(WithName("b"), WithParent(root))
	other := NewEntity(WithName("other"))

	var names []string
	root.Walk(func(e Entity) bool {
		names = append(names, e.Name())
		return e.Name() != "a"
	})
	assert.Equal(t, []string{"root", "a", "b"}, names)

	assert.Equal(t, []Entity{root, other}, Roots([]Entity{root, a, other}))
}

func TestDestroy(t *testing.T) {
	root := NewEntity()
	mid := NewEntity(WithParent(root))
	leaf := NewEntity(WithParent(mid))

	mid.Destroy()
	assert.Empty(t, root.Children())
	assert.Nil(t, mid.Parent())
	assert.Empty(t, mid.Children())
	assert.Nil(t, leaf.Parent())
}

func TestFindAncestorComponent(t *testing.T) {
	marker := &tag{name: "skeleton"}
	root := NewEntity(WithComponents(marker))
	child := NewEntity(WithParent(root))

	got, ok := FindAncestorComponent[*tag](child)
	require.True(t, ok)
	assert.Same(t, marker, got)

	_, ok = FindAncestorComponent[*counter](child)
	assert.False(t, ok)
}

func TestHidden(t *testing.T) {
	e := NewEntity(WithHidden(true))
	assert.True(t, e.Hidden())
	e.SetHidden(false)
	assert.False(t, e.Hidden())
}
