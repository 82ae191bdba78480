package transform

import (
	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
)

// Propagate resolves world matrices for every tree reachable from entities.
//
// Each tree is walked from its topmost ancestor, even when only a descendant is
// listed. Every Transform has Local recomposed at the moment it is visited, so
// animation writes from the same frame are visible, and Final is set to
// parent.Final × Local. The whole graph is retraversed every call; there is no
// dirty tracking. An entity without a Transform passes its parent's matrix
// through to its children unchanged.
//
// Parameters:
//   - entities: the scene's entities, in any order
func Propagate(entities []entity.Entity) {
	visited := make(map[uint64]struct{}, len(entities))
	for _, e := range entities {
		root := topmost(e)
		if _, seen := visited[root.ID()]; seen {
			continue
		}
		visited[root.ID()] = struct{}{}
		propagate(root, nil)
	}
}

// PropagateFrom resolves the subtree rooted at e against parentFinal, or against
// identity when parentFinal is nil. Used to re-resolve a joint hierarchy after sampling.
func PropagateFrom(e entity.Entity, parentFinal *[16]float32) {
	propagate(e, parentFinal)
}

func propagate(e entity.Entity, parentFinal *[16]float32) {
	current := parentFinal
	if t, ok := entity.ComponentOf[*Transform](e); ok {
		t.UpdateLocal()
		if parentFinal == nil {
			t.Final = t.Local
		} else {
			common.Mul4(t.Final[:], parentFinal[:], t.Local[:])
		}
		current = &t.Final
	}
	for _, child := range e.Children() {
		propagate(child, current)
	}
}

// ParentFinal returns the world matrix of the nearest ancestor of e carrying a
// Transform, or nil when there is none.
func ParentFinal(e entity.Entity) *[16]float32 {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if t, ok := entity.ComponentOf[*Transform](p); ok {
			return &t.Final
		}
	}
	return nil
}

func topmost(e entity.Entity) entity.Entity {
	for e.Parent() != nil {
		e = e.Parent()
	}
	return e
}
