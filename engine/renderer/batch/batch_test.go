package batch

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/light"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/skeleton"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newModel(name string) model.Model {
	return model.NewModel(model.WithName(name), model.WithPrimitive(model.NewCubeMesh(1), model.NewMaterial()))
}

func newInstance(m model.Model, opts ...transform.TransformBuilderOption) entity.Entity {
	return entity.NewEntity(entity.WithComponents(transform.NewTransform(opts...), m))
}

// newRig builds a chain of joints under root and a skeleton over them, attached to root.
func newRig(t *testing.T, root entity.Entity, joints int) skeleton.Skeleton {
	t.Helper()
	var (
		list   []entity.Entity
		ibms   [][16]float32
		parent = root
	)
	for i := 0; i < joints; i++ {
		j := entity.NewEntity(entity.WithComponents(transform.NewTransform(transform.WithTranslation(0, 1, 0))), entity.WithParent(parent))
		list = append(list, j)
		ibms = append(ibms, common.IdentityMatrix())
		parent = j
	}
	sk, err := skeleton.NewSkeleton(list, ibms)
	require.NoError(t, err)
	root.AddComponent(sk)
	return sk
}

func TestGPUInstanceLayout(t *testing.T) {
	var g GPUInstance
	assert.Equal(t, 144, g.Size())

	g.Model[12] = 3
	g.SkinOffset = NoSkeleton
	buf := g.Marshal()
	require.Len(t, buf, 144)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:52])))
	assert.Equal(t, NoSkeleton, binary.LittleEndian.Uint32(buf[128:132]))
}

func TestBuildGroupsByModelAndSkeleton(t *testing.T) {
	crate := newModel("crate")
	barrel := newModel("barrel")

	a := newInstance(crate, transform.WithTranslation(1, 0, 0))
	b := newInstance(barrel)
	c := newInstance(crate, transform.WithTranslation(2, 0, 0))

	rigRoot := entity.NewEntity(entity.WithComponents(transform.NewTransform()))
	sk := newRig(t, rigRoot, 2)
	d := newInstance(crate)
	require.NoError(t, d.SetParent(rigRoot))

	scene := []entity.Entity{a, b, c, rigRoot, d}
	transform.Propagate(scene)

	bt := NewBatcher(WithWorkers(1))
	defer bt.Release()
	f := bt.Build(scene)

	require.Len(t, f.Batches, 3)
	assert.Equal(t, Key{Model: crate.ID()}, f.Batches[0].Key)
	assert.Equal(t, Key{Model: barrel.ID()}, f.Batches[1].Key)
	assert.Equal(t, Key{Model: crate.ID(), Skeleton: sk.ID()}, f.Batches[2].Key)

	assert.Equal(t, uint32(0), f.Batches[0].FirstInstance)
	assert.Equal(t, uint32(2), f.Batches[0].InstanceCount)
	assert.Equal(t, uint32(2), f.Batches[1].FirstInstance)
	assert.Equal(t, uint32(3), f.Batches[2].FirstInstance)

	require.Len(t, f.Instances, 4)
	// same-batch instances are contiguous and keep scene order
	assert.Equal(t, float32(1), f.Instances[0].Model[12])
	assert.Equal(t, float32(2), f.Instances[1].Model[12])
	assert.Equal(t, NoSkeleton, f.Instances[0].SkinOffset)
	assert.Equal(t, uint32(1), f.Instances[3].SkinOffset)
	assert.Same(t, sk, f.Batches[2].Skeleton)
	assert.Equal(t, 3, f.DrawCount())
}

func TestBuildSkipsHiddenAndIncomplete(t *testing.T) {
	crate := newModel("crate")
	visible := newInstance(crate)
	hidden := newInstance(crate)
	hidden.SetHidden(true)
	noTransform := entity.NewEntity(entity.WithComponents(crate))

	bt := NewBatcher(WithWorkers(1))
	f := bt.Build([]entity.Entity{visible, hidden, noTransform, visible, nil})

	require.Len(t, f.Batches, 1)
	assert.Equal(t, uint32(1), f.Batches[0].InstanceCount)
}

func TestBuildInverseTranspose(t *testing.T) {
	crate := newModel("crate")
	scaled := newInstance(crate, transform.WithScale(2, 4, 8))
	flat := newInstance(crate, transform.WithScale(1, 0, 1))
	transform.Propagate([]entity.Entity{scaled, flat})

	f := NewBatcher(WithWorkers(1)).Build([]entity.Entity{scaled, flat})
	require.Len(t, f.Instances, 2)
	assert.InDelta(t, 0.5, f.Instances[0].Normal[0], 1e-6)
	assert.InDelta(t, 0.25, f.Instances[0].Normal[5], 1e-6)
	assert.InDelta(t, 0.125, f.Instances[0].Normal[10], 1e-6)
	assert.Equal(t, common.IdentityMatrix(), f.Instances[1].Normal)
}

func TestBuildSkinOffsetsInEncounterOrder(t *testing.T) {
	crate := newModel("crate")
	rootA := entity.NewEntity(entity.WithComponents(transform.NewTransform()))
	rootB := entity.NewEntity(entity.WithComponents(transform.NewTransform()))
	skA := newRig(t, rootA, 3)
	skB := newRig(t, rootB, 2)

	meshB := newInstance(crate)
	require.NoError(t, meshB.SetParent(rootB))
	meshA := newInstance(crate)
	require.NoError(t, meshA.SetParent(rootA))
	meshB2 := newInstance(crate)
	require.NoError(t, meshB2.SetParent(rootB))

	scene := []entity.Entity{meshB, meshA, meshB2}
	transform.Propagate(scene)
	f := NewBatcher(WithWorkers(1)).Build(scene)

	require.Len(t, f.Skeletons, 3)
	assert.Equal(t, []uint32{0, 1, 3}, f.SkinOffsets)
	assert.Same(t, skB, f.Skeletons[1])
	assert.Same(t, skA, f.Skeletons[2])
	assert.Len(t, f.SkinMatrices, 1+2+3)

	assert.Equal(t, uint32(1), f.Instances[0].SkinOffset)
	assert.Equal(t, uint32(1), f.Instances[1].SkinOffset)
	assert.Equal(t, uint32(3), f.Instances[2].SkinOffset)
}

func TestBuildIdentitySkeletonAlwaysFirst(t *testing.T) {
	bt := NewBatcher(WithWorkers(1))
	f := bt.Build(nil)
	require.Len(t, f.SkinMatrices, 1)
	assert.Equal(t, common.IdentityMatrix(), f.SkinMatrices[0])
	assert.Same(t, bt.IdentitySkeleton(), f.Skeletons[0])
	assert.Len(t, f.SkinBytes(), SkinMatrixSize)
	assert.Empty(t, f.InstanceBytes())
}

func TestBuildParallelSkinsMatchSequential(t *testing.T) {
	crate := newModel("crate")
	var scene []entity.Entity
	for i := 0; i < 6; i++ {
		root := entity.NewEntity(entity.WithComponents(transform.NewTransform(
			transform.WithTranslation(float32(i), 0, 0),
			transform.WithRotation(common.QuatFromAxisAngle([3]float32{0, 0, 1}, float32(i)*0.3)),
		)))
		newRig(t, root, 4+i)
		mesh := newInstance(crate)
		require.NoError(t, mesh.SetParent(root))
		scene = append(scene, root, mesh)
	}
	transform.Propagate(scene)

	parallel := NewBatcher(WithWorkers(4))
	defer parallel.Release()
	got := parallel.Build(scene)
	want := NewBatcher(WithWorkers(1)).Build(scene)

	assert.Equal(t, want.SkinOffsets, got.SkinOffsets)
	assert.Equal(t, want.SkinMatrices, got.SkinMatrices)

	// spot-check one joint against its definition
	sk := got.Skeletons[2]
	jt, _ := entity.ComponentOf[*transform.Transform](sk.Joints()[1])
	var m [16]float32
	common.Mul4(m[:], jt.Final[:], sk.InverseBindMatrices()[1][:])
	assert.Equal(t, m, got.SkinMatrices[got.SkinOffsets[2]+1])
}

func TestBuildLights(t *testing.T) {
	lamp := entity.NewEntity(entity.WithComponents(
		transform.NewTransform(transform.WithTranslation(0, 3, 0)),
		light.NewLight(light.WithColor(1, 0.5, 0.25), light.WithIntensity(2)),
	))
	off := entity.NewEntity(entity.WithComponents(transform.NewTransform(), light.NewLight(light.WithEnabled(false))))
	floating := entity.NewEntity(entity.WithComponents(light.NewLight()))
	transform.Propagate([]entity.Entity{lamp, off, floating})

	f := NewBatcher(WithWorkers(1)).Build([]entity.Entity{lamp, off, floating})
	require.Len(t, f.Lights, 2)
	assert.Equal(t, [3]float32{0, 3, 0}, f.Lights[0].Position)
	assert.Equal(t, [3]float32{2, 1, 0.5}, f.Lights[0].Emission)
	assert.Equal(t, [3]float32{}, f.Lights[1].Position)

	buf := f.LightBytes([3]float32{0.1, 0.1, 0.1})
	assert.Len(t, buf, 16+2*32)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Empty(t, f.Batches)
}

func TestFrameBytesViewFrameData(t *testing.T) {
	crate := newModel("crate")
	a := newInstance(crate, transform.WithTranslation(1, 2, 3))
	b := newInstance(crate, transform.WithTranslation(-4, 0, 0))
	transform.Propagate([]entity.Entity{a, b})

	f := NewBatcher(WithWorkers(1)).Build([]entity.Entity{a, b})
	require.Len(t, f.Instances, 2)

	buf := f.InstanceBytes()
	require.Len(t, buf, 2*f.Instances[0].Size())
	assert.Equal(t, f.Instances[0].Marshal(), buf[:144])
	assert.Equal(t, f.Instances[1].Marshal(), buf[144:])

	skin := f.SkinBytes()
	require.Len(t, skin, SkinMatrixSize)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(skin[0:4])))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(skin[4:8])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(skin[60:64])))
}

func TestBuildWarnsOnLightBudgetChange(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	lamps := make([]entity.Entity, light.MaxGPULights+2)
	for i := range lamps {
		lamps[i] = entity.NewEntity(entity.WithComponents(light.NewLight()))
	}
	warnings := func() int {
		return len(logs.FilterMessage("light budget exceeded, extra lights dropped").All())
	}

	bt := NewBatcher(WithWorkers(1))
	for i := 0; i < 3; i++ {
		bt.Build(lamps[:light.MaxGPULights+1])
	}
	assert.Equal(t, 1, warnings(), "steady overflow is reported once")

	bt.Build(lamps)
	assert.Equal(t, 2, warnings(), "a new count is reported")

	bt.Build(lamps[:light.MaxGPULights])
	bt.Build(lamps)
	assert.Equal(t, 3, warnings(), "going back over budget is reported")
}
