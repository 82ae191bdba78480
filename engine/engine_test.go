package engine

import (
	"image"
	"testing"

	"github.com/Duckpedia/Yakuza-Tower/engine/camera"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUpdater struct {
	times  []float64
	deltas []float64
	order  *[]string
	name   string
}

func (u *recordingUpdater) Update(t, dt float64) {
	u.times = append(u.times, t)
	u.deltas = append(u.deltas, dt)
	if u.order != nil {
		*u.order = append(*u.order, u.name)
	}
}

type unscaledUpdater struct{ recordingUpdater }

func (u *unscaledUpdater) Unscaled() bool { return true }

type fakeRenderer struct {
	renders  int
	resizes  [][2]int
	panicked bool
	seen     []entity.Entity
}

var _ renderer.Renderer = &fakeRenderer{}

func (f *fakeRenderer) Initialize(image.Image) error { return nil }
func (f *fakeRenderer) Render(entities []entity.Entity, _ entity.Entity) {
	f.renders++
	f.seen = entities
	if f.panicked {
		panic("device lost")
	}
}

func (f *fakeRenderer) Resize(w, h int) { f.resizes = append(f.resizes, [2]int{w, h}) }

func (f *fakeRenderer) SetPresentMode(renderer.PresentMode) {}

func (f *fakeRenderer) Stats() renderer.Stats { return renderer.Stats{Draws: 1} }

func (f *fakeRenderer) Release() {}

func TestAddEntitiesWalksSubtrees(t *testing.T) {
	root := entity.NewEntity(entity.WithName("root"))
	child := entity.NewEntity(entity.WithName("child"), entity.WithParent(root))
	grandchild := entity.NewEntity(entity.WithName("grandchild"), entity.WithParent(child))
	other := entity.NewEntity(entity.WithName("other"))

	e := NewEngine()
	e.AddEntities(root, other, child, nil)

	assert.Equal(t, []entity.Entity{root, child, grandchild, other}, e.Entities())

	e.RemoveEntities(child)
	assert.Equal(t, []entity.Entity{root, other}, e.Entities())

	e.AddEntities(grandchild)
	assert.Equal(t, []entity.Entity{root, other, grandchild}, e.Entities())
}

func TestStepScalesWorldTime(t *testing.T) {
	world := &recordingUpdater{}
	player := &unscaledUpdater{}
	e := NewEngine(WithWorldTimeScale(0.5))
	e.AddEntities(
		entity.NewEntity(entity.WithComponents(world)),
		entity.NewEntity(entity.WithComponents(player)),
	)

	e.Step(0.1)
	e.Step(0.1)

	assert.InDeltaSlice(t, []float64{0.05, 0.05}, world.deltas, 1e-12)
	assert.InDeltaSlice(t, []float64{0.05, 0.1}, world.times, 1e-12)
	assert.InDeltaSlice(t, []float64{0.1, 0.1}, player.deltas, 1e-12)
	assert.InDeltaSlice(t, []float64{0.1, 0.2}, player.times, 1e-12)
}

func TestStepClampsDelta(t *testing.T) {
	u := &recordingUpdater{}
	e := NewEngine(WithMaxDeltaTime(0.1))
	e.AddEntities(entity.NewEntity(entity.WithComponents(u)))

	e.Step(3)
	e.Step(-1)

	assert.Equal(t, []float64{0.1, 0}, u.deltas)
}

func TestStepUpdatesInEntityOrder(t *testing.T) {
	var order []string
	a := &recordingUpdater{name: "a", order: &order}
	b := &recordingUpdater{name: "b", order: &order}
	c := &recordingUpdater{name: "c", order: &order}

	parent := entity.NewEntity(entity.WithComponents(a, b))
	entity.NewEntity(entity.WithComponents(c), entity.WithParent(parent))

	e := NewEngine()
	e.AddEntities(parent)
	e.Step(0.016)

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestStepPropagatesBeforeRender(t *testing.T) {
	r := &fakeRenderer{}
	root := entity.NewEntity(entity.WithComponents(transform.NewTransform(transform.WithTranslation(0, 1, 0))))
	childTransform := transform.NewTransform(transform.WithTranslation(0, 0, -2))
	entity.NewEntity(entity.WithComponents(childTransform), entity.WithParent(root))

	e := NewEngine(WithRenderer(r))
	e.AddEntities(root)
	e.SetCamera(root)
	e.Step(0.016)

	assert.Equal(t, 1, r.renders)
	assert.Len(t, r.seen, 2)
	assert.Equal(t, [3]float32{0, 1, -2}, childTransform.WorldTranslation())
}

func TestStepSkipsRenderWithoutCamera(t *testing.T) {
	r := &fakeRenderer{}
	e := NewEngine(WithRenderer(r))
	e.Step(0.016)
	assert.Zero(t, r.renders)
}

func TestStepRecoversRenderPanic(t *testing.T) {
	r := &fakeRenderer{panicked: true}
	e := NewEngine(WithRenderer(r), WithProfiling(true))
	e.SetCamera(entity.NewEntity())

	require.NotPanics(t, func() { e.Step(0.016) })
	require.NotPanics(t, func() { e.Step(0.016) })
	assert.Equal(t, 2, r.renders)
}

func TestResizeUpdatesRendererAndAspect(t *testing.T) {
	r := &fakeRenderer{}
	cam := camera.NewCamera(camera.WithAspect(1))
	e := NewEngine(WithRenderer(r)).(*engine)
	e.SetCamera(entity.NewEntity(entity.WithComponents(cam)))

	e.resize(1600, 800)

	assert.Equal(t, [][2]int{{1600, 800}}, r.resizes)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
}

func TestSetWorldTimeScale(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 1.0, e.WorldTimeScale())

	e.SetWorldTimeScale(0.2)
	assert.Equal(t, 0.2, e.WorldTimeScale())

	e.SetWorldTimeScale(-1)
	assert.Zero(t, e.WorldTimeScale())
}

func TestRunWithoutWindow(t *testing.T) {
	assert.Error(t, NewEngine().Run())
	assert.NotPanics(t, NewEngine().Quit)
}
