package entity

import (
	"errors"
	"reflect"
	"sync/atomic"
)

// ErrCycle is returned by SetParent when the new parent is the entity itself or one of its descendants.
var ErrCycle = errors.New("entity: parent would create a cycle")

// nextID hands out allocation-order entity identifiers, starting at 1.
var nextID atomic.Uint64

// Component is any capability attached to an Entity. Components are looked up by
// their dynamic type and removed by identity, so they should be pointers.
type Component any

// Updater is implemented by components that advance once per tick.
type Updater interface {
	// Update advances the component.
	//
	// Parameters:
	//   - t: elapsed scaled time in seconds
	//   - dt: scaled time since the previous tick in seconds
	Update(t, dt float64)
}

// Unscaled is implemented by updaters that must receive unscaled time, such as the player controller.
type Unscaled interface {
	Unscaled() bool
}

type entity struct {
	id         uint64
	name       string
	hidden     atomic.Bool
	components []Component
	parent     Entity
	children   []Entity
}

// Entity defines the interface for a node in the scene graph. An entity owns its
// ordered component list and its ordered child list; the parent is a back-reference.
type Entity interface {
	// ID returns the allocation-order identifier of the entity.
	//
	// Returns:
	//   - uint64: the entity ID, unique for the process lifetime
	ID() uint64

	// Name returns the entity's name, used by FindDescendantByName.
	//
	// Returns:
	//   - string: the name, possibly empty
	Name() string

	// SetName renames the entity.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Hidden reports whether the entity is excluded from rendering.
	//
	// Returns:
	//   - bool: true if hidden
	Hidden() bool

	// SetHidden toggles whether the entity is excluded from rendering.
	//
	// Parameters:
	//   - hidden: true to hide the entity
	SetHidden(hidden bool)

	// Components returns the attached components in attachment order.
	// The slice is owned by the entity and must not be modified.
	//
	// Returns:
	//   - []Component: the attached components
	Components() []Component

	// AddComponent appends a component.
	//
	// Parameters:
	//   - c: the component to attach
	AddComponent(c Component)

	// RemoveComponent detaches the first component identical to c. Components of an
	// uncomparable type, such as slices or maps, cannot be matched; use RemoveComponentsOf.
	//
	// Parameters:
	//   - c: the component to detach
	//
	// Returns:
	//   - bool: true if c was attached
	RemoveComponent(c Component) bool

	// RemoveComponentsFunc detaches every component for which match returns true,
	// keeping the order of the rest.
	//
	// Parameters:
	//   - match: reports whether a component should be detached
	//
	// Returns:
	//   - int: the number of components removed
	RemoveComponentsFunc(match func(Component) bool) int

	// Parent returns the entity's parent, or nil for a root.
	//
	// Returns:
	//   - Entity: the parent or nil
	Parent() Entity

	// Children returns the direct children in attachment order.
	// The slice is owned by the entity and must not be modified.
	//
	// Returns:
	//   - []Entity: the children
	Children() []Entity

	// SetParent detaches the entity from its current parent's child list and appends it to
	// parent's child list. A nil parent detaches only. Setting the current parent again is a no-op.
	//
	// Parameters:
	//   - parent: the new parent, or nil
	//
	// Returns:
	//   - error: ErrCycle if parent is this entity or one of its descendants
	SetParent(parent Entity) error

	// FindDescendantByName performs a depth-first search over the children, in order,
	// and returns the first entity whose name equals name exactly.
	//
	// Parameters:
	//   - name: the name to look for
	//
	// Returns:
	//   - Entity: the first match, or nil
	FindDescendantByName(name string) Entity

	// Walk visits the entity and its descendants in pre-order. Returning false from
	// fn skips that entity's children.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(Entity) bool)

	// Destroy detaches the entity from its parent and turns its children into roots.
	Destroy()

	appendChild(child Entity)
	removeChild(child Entity)
	setParentRef(parent Entity)
}

var _ Entity = &entity{}

// NewEntity creates a root entity with a fresh ID and applies the given options.
//
// Parameters:
//   - opts: functional options to configure the entity
//
// Returns:
//   - Entity: the new entity
func NewEntity(opts ...EntityBuilderOption) Entity {
	e := &entity{id: nextID.Add(1)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *entity) ID() uint64 {
	return e.id
}

func (e *entity) Name() string {
	return e.name
}

func (e *entity) SetName(name string) {
	e.name = name
}

func (e *entity) Hidden() bool {
	return e.hidden.Load()
}

func (e *entity) SetHidden(hidden bool) {
	e.hidden.Store(hidden)
}

func (e *entity) Components() []Component {
	return e.components
}

func (e *entity) AddComponent(c Component) {
	if c == nil {
		return
	}
	e.components = append(e.components, c)
}

func (e *entity) RemoveComponent(c Component) bool {
	if c == nil || !reflect.TypeOf(c).Comparable() {
		return false
	}
	for i, existing := range e.components {
		if existing == c {
			e.components = append(e.components[:i], e.components[i+1:]...)
			return true
		}
	}
	return false
}

func (e *entity) RemoveComponentsFunc(match func(Component) bool) int {
	kept := e.components[:0]
	for _, c := range e.components {
		if !match(c) {
			kept = append(kept, c)
		}
	}
	removed := len(e.components) - len(kept)
	clear(e.components[len(kept):])
	e.components = kept
	return removed
}

func (e *entity) Parent() Entity {
	return e.parent
}

func (e *entity) Children() []Entity {
	return e.children
}

func (e *entity) SetParent(parent Entity) error {
	if parent == nil {
		if e.parent != nil {
			e.parent.removeChild(e)
			e.parent = nil
		}
		return nil
	}
	if parent == e.parent {
		return nil
	}
	for p := parent; p != nil; p = p.Parent() {
		if p == Entity(e) {
			return ErrCycle
		}
	}

	if e.parent != nil {
		e.parent.removeChild(e)
	}
	parent.appendChild(e)
	e.parent = parent
	return nil
}

func (e *entity) FindDescendantByName(name string) Entity {
	for _, child := range e.children {
		if child.Name() == name {
			return child
		}
		if found := child.FindDescendantByName(name); found != nil {
			return found
		}
	}
	return nil
}

func (e *entity) Walk(fn func(Entity) bool) {
	if !fn(e) {
		return
	}
	for _, child := range e.children {
		child.Walk(fn)
	}
}

func (e *entity) Destroy() {
	_ = e.SetParent(nil)
	for _, child := range e.children {
		child.setParentRef(nil)
	}
	e.children = nil
}

func (e *entity) appendChild(child Entity) {
	e.children = append(e.children, child)
}

func (e *entity) removeChild(child Entity) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

func (e *entity) setParentRef(parent Entity) {
	e.parent = parent
}
