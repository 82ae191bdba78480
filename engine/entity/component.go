package entity

// ComponentOf returns the first component of e whose dynamic type is T.
// A miss returns the zero T and false, never an error.
//
// Parameters:
//   - e: the entity to query
//
// Returns:
//   - T: the first matching component
//   - bool: true if a component was found
func ComponentOf[T any](e Entity) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	for _, c := range e.Components() {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

// ComponentsOf returns every component of e whose dynamic type is T, in attachment order.
// T may be an interface such as Updater to collect every capability implementer.
//
// Parameters:
//   - e: the entity to query
//
// Returns:
//   - []T: the matches, empty when there are none
func ComponentsOf[T any](e Entity) []T {
	if e == nil {
		return nil
	}
	var out []T
	for _, c := range e.Components() {
		if typed, ok := c.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// RemoveComponentsOf detaches every component of e whose dynamic type is T.
//
// Parameters:
//   - e: the entity to modify
//
// Returns:
//   - int: the number of components removed
func RemoveComponentsOf[T any](e Entity) int {
	if e == nil {
		return 0
	}
	return e.RemoveComponentsFunc(func(c Component) bool {
		_, ok := c.(T)
		return ok
	})
}

// Roots returns the entities in list that have no parent, preserving order.
func Roots(list []Entity) []Entity {
	roots := make([]Entity, 0, len(list))
	for _, e := range list {
		if e.Parent() == nil {
			roots = append(roots, e)
		}
	}
	return roots
}

// FindAncestorComponent returns the first component of type T on e or, failing that, on its nearest ancestor.
func FindAncestorComponent[T any](e Entity) (T, bool) {
	for cur := e; cur != nil; cur = cur.Parent() {
		if c, ok := ComponentOf[T](cur); ok {
			return c, true
		}
	}
	var zero T
	return zero, false
}
