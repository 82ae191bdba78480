package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/animation"
	"github.com/Duckpedia/Yakuza-Tower/engine/camera"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/gameplay"
	"github.com/Duckpedia/Yakuza-Tower/engine/light"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/skeleton"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/chewxy/math32"
)

const (
	floorSize      = 2
	floorScale     = 10
	columnSegments = 6
	columnWidth    = 0.6
	segmentHeight  = 0.5
	swayAngle      = 0.12
	swayPeriod     = 2
)

// world is the demo scene: a lit floor, a row of swaying columns, a bobbing enemy and the
// player camera.
type world struct {
	roots  []entity.Entity
	camera entity.Entity
	player gameplay.Player
}

// buildWorld assembles the demo scene. Nothing here touches the GPU; meshes and textures are
// uploaded by the renderer the first time they are drawn.
func buildWorld(aspect float32) (*world, error) {
	w := &world{}

	cam := camera.NewCamera(
		camera.WithFov(70*math32.Pi/180),
		camera.WithAspect(aspect),
		camera.WithClipPlanes(0.05, 200),
	)
	w.camera = entity.NewEntity(
		entity.WithName("Player"),
		entity.WithComponents(transform.NewTransform(transform.WithTranslation(0, 1, 0)), cam),
	)
	w.player = gameplay.NewPlayer(w.camera, gameplay.WithGroundY(1))
	w.camera.AddComponent(w.player)
	w.roots = append(w.roots, w.camera)

	floorTexture := model.NewTexture("Checker", checkerImage(64, 8), nil)
	floor := entity.NewEntity(
		entity.WithName("Floor"),
		entity.WithComponents(
			transform.NewTransform(transform.WithUniformScale(floorScale)),
			model.NewModel(
				model.WithName("Floor"),
				model.WithPrimitive(model.NewPlaneMesh(floorSize, floorScale), model.NewMaterial(
					model.WithMaterialName("Floor"),
					model.WithAlbedoTexture(floorTexture),
					model.WithSurfaceFactors(1, 0.9, 0),
				)),
			),
		),
	)
	w.roots = append(w.roots, floor)

	column, err := newColumnModel()
	if err != nil {
		return nil, err
	}
	sway := newSwayClip()
	for i, x := range []float32{-4, 0, 4} {
		c, err := newColumn(fmt.Sprintf("Column %d", i), column, sway, [3]float32{x, 0, -8}, float32(i)*0.5)
		if err != nil {
			return nil, err
		}
		w.roots = append(w.roots, c)
	}

	enemy := entity.NewEntity(
		entity.WithName("Enemy"),
		entity.WithComponents(
			transform.NewTransform(),
			model.NewModel(
				model.WithName("Enemy"),
				model.WithPrimitive(model.NewCubeMesh(0.5), model.NewMaterial(
					model.WithMaterialName("Enemy"),
					model.WithAlbedoFactor([4]float32{0.8, 0.15, 0.1, 1}),
				)),
			),
		),
	)
	enemy.AddComponent(gameplay.NewBobber(enemy))
	// The glow rides along with the enemy.
	entity.NewEntity(
		entity.WithName("Enemy Glow"),
		entity.WithParent(enemy),
		entity.WithComponents(
			transform.NewTransform(transform.WithTranslation(0, 0.6, 0)),
			light.NewLight(light.WithColor(1, 0.3, 0.2), light.WithIntensity(2)),
		),
	)
	w.roots = append(w.roots, enemy)

	for i, l := range []struct {
		pos       [3]float32
		color     [3]float32
		intensity float32
	}{
		{[3]float32{0, 4, 0}, [3]float32{1, 0.95, 0.85}, 6},
		{[3]float32{-6, 2, -6}, [3]float32{0.3, 0.5, 1}, 4},
		{[3]float32{6, 2, -6}, [3]float32{1, 0.6, 0.2}, 4},
	} {
		w.roots = append(w.roots, entity.NewEntity(
			entity.WithName(fmt.Sprintf("Light %d", i)),
			entity.WithComponents(
				transform.NewTransform(transform.WithTranslation(l.pos[0], l.pos[1], l.pos[2])),
				light.NewLight(light.WithColor(l.color[0], l.color[1], l.color[2]), light.WithIntensity(l.intensity)),
			),
		))
	}

	return w, nil
}

func newColumnModel() (model.Model, error) {
	mesh, err := model.NewSegmentedColumn(columnSegments, columnWidth, segmentHeight)
	if err != nil {
		return nil, fmt.Errorf("column mesh: %w", err)
	}
	return model.NewModel(
		model.WithName("Column"),
		model.WithPrimitive(mesh, model.NewMaterial(
			model.WithMaterialName("Column"),
			model.WithAlbedoFactor([4]float32{0.75, 0.7, 0.6, 1}),
			model.WithSurfaceFactors(1, 0.6, 0),
		)),
	), nil
}

// newColumn places a column whose joints form a chain, one joint per segment, each resting
// segmentHeight above its parent. Every column shares the mesh but owns its joints, so each
// one is a separate skinned batch.
func newColumn(name string, column model.Model, sway *animation.Clip, at [3]float32, phase float32) (entity.Entity, error) {
	root := entity.NewEntity(
		entity.WithName(name),
		entity.WithComponents(transform.NewTransform(transform.WithTranslation(at[0], at[1], at[2])), column),
	)

	joints := make([]entity.Entity, columnSegments)
	inverseBind := make([][16]float32, columnSegments)
	parent := root
	for i := range joints {
		y := float32(0)
		if i > 0 {
			y = segmentHeight
		}
		joints[i] = entity.NewEntity(
			entity.WithName(fmt.Sprintf("%s Joint %d", name, i)),
			entity.WithParent(parent),
			entity.WithComponents(transform.NewTransform(transform.WithTranslation(0, y, 0))),
		)
		bind := common.IdentityMatrix()
		bind[13] = -float32(i) * segmentHeight
		inverseBind[i] = bind
		parent = joints[i]
	}

	skel, err := skeleton.NewSkeleton(joints, inverseBind,
		skeleton.WithName(name),
		skeleton.WithClips(sway),
		skeleton.WithAutoPlay(0),
	)
	if err != nil {
		return nil, fmt.Errorf("%s skeleton: %w", name, err)
	}
	// Offset the start so the columns do not sway in lockstep.
	skel.Update(0, float64(phase))
	root.AddComponent(skel)
	return root, nil
}

// newSwayClip bends every joint above the base back and forth about Z.
func newSwayClip() *animation.Clip {
	left := common.QuatFromAxisAngle([3]float32{0, 0, 1}, swayAngle)
	right := common.QuatFromAxisAngle([3]float32{0, 0, 1}, -swayAngle)
	channels := make([]animation.Channel, 0, columnSegments-1)
	for joint := 1; joint < columnSegments; joint++ {
		channels = append(channels, animation.Channel{
			Joint:  joint,
			Path:   animation.PathRotation,
			Times:  []float32{0, swayPeriod / 2, swayPeriod},
			Values: [][4]float32{left, right, left},
		})
	}
	return animation.NewClip("Sway", channels...)
}

// checkerImage draws a size × size two-tone checkerboard with cells × cells squares.
func checkerImage(size, cells int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	lit := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	dark := color.RGBA{R: 90, G: 90, B: 95, A: 255}
	cell := size / cells
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, lit)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}
