package transform

import (
	"testing"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(parent entity.Entity, opts ...TransformBuilderOption) (entity.Entity, *Transform) {
	t := NewTransform(opts...)
	e := entity.NewEntity(entity.WithComponents(t), entity.WithParent(parent))
	return e, t
}

func TestNewTransformDefaults(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, common.QuatIdentity(), tr.Rotation)
	assert.Equal(t, [3]float32{1, 1, 1}, tr.Scale)
	assert.Equal(t, common.IdentityMatrix(), tr.Local)
	assert.Equal(t, common.IdentityMatrix(), tr.Final)
}

func TestPropagateChildTranslation(t *testing.T) {
	root, _ := newNode(nil, WithTranslation(0, 1, 0))
	_, child := newNode(root, WithTranslation(0, 0, -2))

	Propagate([]entity.Entity{root})

	assert.Equal(t, [3]float32{0, 1, -2}, child.WorldTranslation())
}

func TestPropagateComposesParentTimesLocal(t *testing.T) {
	q := common.QuatFromAxisAngle([3]float32{0, 1, 0}, 0.6)
	root, rootT := newNode(nil, WithTranslation(1, 2, 3), WithRotation(q), WithScale(2, 1, 0.5))
	mid, midT := newNode(root, WithTranslation(-1, 0, 4), WithUniformScale(3))
	_, leafT := newNode(mid, WithRotation(common.QuatFromAxisAngle([3]float32{1, 0, 0}, 1.1)), WithTranslation(0, 5, 0))

	Propagate([]entity.Entity{root})

	assert.Equal(t, rootT.Local, rootT.Final, "a root's final equals its local")

	var want [16]float32
	common.Mul4(want[:], rootT.Final[:], midT.Local[:])
	assert.Equal(t, want, midT.Final)

	common.Mul4(want[:], midT.Final[:], leafT.Local[:])
	assert.Equal(t, want, leafT.Final)
}

func TestPropagateSeesSameFrameWrites(t *testing.T) {
	root, rootT := newNode(nil)
	_, child := newNode(root, WithTranslation(1, 0, 0))
	Propagate([]entity.Entity{root})
	require.Equal(t, [3]float32{1, 0, 0}, child.WorldTranslation())

	rootT.Translation = [3]float32{0, 0, 10}
	child.Translation = [3]float32{2, 0, 0}
	Propagate([]entity.Entity{root})
	assert.Equal(t, [3]float32{2, 0, 10}, child.WorldTranslation())
}

func TestPropagateThroughEntityWithoutTransform(t *testing.T) {
	root, _ := newNode(nil, WithTranslation(5, 0, 0))
	group := entity.NewEntity(entity.WithParent(root))
	_, leaf := newNode(group, WithTranslation(0, 1, 0))

	Propagate([]entity.Entity{root})
	assert.Equal(t, [3]float32{5, 1, 0}, leaf.WorldTranslation())
}

func TestPropagateFromListedDescendant(t *testing.T) {
	root, _ := newNode(nil, WithTranslation(0, 3, 0))
	child, childT := newNode(root, WithTranslation(1, 0, 0))

	// only the child is listed; its tree is still resolved from the top
	Propagate([]entity.Entity{child})
	assert.Equal(t, [3]float32{1, 3, 0}, childT.WorldTranslation())
}

func TestPropagateFromAndParentFinal(t *testing.T) {
	root, rootT := newNode(nil, WithTranslation(0, 0, 1))
	joint, jointT := newNode(root, WithTranslation(2, 0, 0))
	Propagate([]entity.Entity{root})

	jointT.Translation = [3]float32{4, 0, 0}
	PropagateFrom(joint, ParentFinal(joint))
	assert.Equal(t, [3]float32{4, 0, 1}, jointT.WorldTranslation())

	assert.Same(t, &rootT.Final, ParentFinal(joint))
	assert.Nil(t, ParentFinal(root))
}
