package entity

// EntityBuilderOption is a functional option for configuring an Entity during construction.
type EntityBuilderOption func(*entity)

// WithName sets the name of the Entity.
//
// Parameters:
//   - name: the name used by FindDescendantByName
//
// Returns:
//   - EntityBuilderOption: functional option to set the name
func WithName(name string) EntityBuilderOption {
	return func(e *entity) {
		e.name = name
	}
}

// WithComponents attaches components in the given order.
//
// Parameters:
//   - components: the components to attach
//
// Returns:
//   - EntityBuilderOption: functional option to attach components
func WithComponents(components ...Component) EntityBuilderOption {
	return func(e *entity) {
		for _, c := range components {
			e.AddComponent(c)
		}
	}
}

// WithParent attaches the Entity under parent. A parent can never be a descendant of
// an entity still under construction, so no cycle check is needed.
//
// Parameters:
//   - parent: the parent entity
//
// Returns:
//   - EntityBuilderOption: functional option to set the parent
func WithParent(parent Entity) EntityBuilderOption {
	return func(e *entity) {
		if parent == nil {
			return
		}
		parent.appendChild(e)
		e.parent = parent
	}
}

// WithHidden excludes the Entity from rendering.
//
// Parameters:
//   - hidden: true to hide the entity
//
// Returns:
//   - EntityBuilderOption: functional option to set the hidden flag
func WithHidden(hidden bool) EntityBuilderOption {
	return func(e *entity) {
		e.hidden.Store(hidden)
	}
}
