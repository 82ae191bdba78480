package gameplay

import (
	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/chewxy/math32"
)

// Bobber floats its entity up and down and spins it ever faster.
//
// Each update sets y = sin(t)·amplitude + log(t)·amplitude, so the entity slowly rises,
// and rotates it about Y by dt·t²·spin. The log term is left out while t ≤ 0.
type Bobber struct {
	entity    entity.Entity
	amplitude float32
	spin      float32
}

var _ entity.Updater = &Bobber{}

// NewBobber creates a Bobber for e and places it: uniform scale 2, three units in front of the origin.
//
// Parameters:
//   - e: the entity to animate
//
// Returns:
//   - *Bobber: the component
func NewBobber(e entity.Entity) *Bobber {
	if t, ok := entity.ComponentOf[*transform.Transform](e); ok {
		t.Scale = [3]float32{2, 2, 2}
		t.Translation[2] = -3
	}
	return &Bobber{entity: e, amplitude: 0.3, spin: 0.1}
}

// Update applies the bob and spin for world time t.
func (b *Bobber) Update(t, dt float64) {
	tr, ok := entity.ComponentOf[*transform.Transform](b.entity)
	if !ok {
		return
	}
	tt := float32(t)
	y := math32.Sin(tt) * b.amplitude
	if tt > 0 {
		y += math32.Log(tt) * b.amplitude
	}
	tr.Translation[1] = y
	tr.Rotation = common.QuatRotateY(tr.Rotation, float32(dt)*tt*tt*b.spin)
}
