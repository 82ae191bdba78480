// Package batch turns the scene's entities into the per-frame instance, skin and light data
// the deferred renderer uploads, grouping instances that can share one draw call.
package batch

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Duckpedia/Yakuza-Tower/common"
	"github.com/Duckpedia/Yakuza-Tower/engine/entity"
	"github.com/Duckpedia/Yakuza-Tower/engine/light"
	"github.com/Duckpedia/Yakuza-Tower/engine/model"
	"github.com/Duckpedia/Yakuza-Tower/engine/skeleton"
	"github.com/Duckpedia/Yakuza-Tower/engine/transform"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// batcher is the implementation of the Batcher interface.
type batcher struct {
	identity skeleton.Skeleton

	workers int
	pool    worker.DynamicWorkerPool

	// overflow is the light count last reported over budget, 0 while within it.
	overflow int
}

// Batcher builds a Frame from the scene each frame.
//
// Entities with a Transform and a Model that are not hidden become instances, grouped by
// (model, skeleton) in first-encounter order. An instance's skeleton is the Skeleton on the
// entity or on its nearest ancestor. Every skeleton is given a contiguous joint range in one
// skin buffer, after the identity skeleton which always occupies joint 0.
type Batcher interface {
	// Build gathers instances, skin matrices and lights from entities.
	// Transforms must already be propagated for the frame.
	//
	// Parameters:
	//   - entities: the scene's entities; duplicates are visited once
	//
	// Returns:
	//   - *Frame: the frame data
	Build(entities []entity.Entity) *Frame

	// IdentitySkeleton returns the skeleton packed at joint 0 of every frame.
	//
	// Returns:
	//   - skeleton.Skeleton: the identity skeleton
	IdentitySkeleton() skeleton.Skeleton

	// Release stops the skinning workers.
	Release()
}

var _ Batcher = &batcher{}

// NewBatcher creates a Batcher with its identity skeleton and skinning worker pool.
//
// Parameters:
//   - options: functional options to configure the batcher
//
// Returns:
//   - Batcher: the new batcher
func NewBatcher(options ...BatcherBuilderOption) Batcher {
	b := &batcher{
		identity: skeleton.NewIdentity(),
		workers:  max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(b)
	}
	// Created after options so WithWorkers can override the default.
	if b.workers > 1 {
		b.pool = worker.NewDynamicWorkerPool(b.workers, 256, 1*time.Second)
	}
	return b
}

func (b *batcher) IdentitySkeleton() skeleton.Skeleton {
	return b.identity
}

func (b *batcher) Release() {
	if b.pool != nil {
		b.pool.Stop()
		b.pool = nil
	}
}

func (b *batcher) Build(entities []entity.Entity) *Frame {
	f := &Frame{
		Skeletons:   []skeleton.Skeleton{b.identity},
		SkinOffsets: []uint32{0},
	}
	skinOffsets := map[uuid.UUID]uint32{b.identity.ID(): 0}
	jointCount := uint32(b.identity.JointCount())

	type group struct {
		batch     Batch
		instances []GPUInstance
	}
	var groups []*group
	groupIndex := make(map[Key]*group)
	seen := make(map[uint64]struct{}, len(entities))

	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			continue
		}
		seen[e.ID()] = struct{}{}
		if e.Hidden() {
			continue
		}

		tr, hasTransform := entity.ComponentOf[*transform.Transform](e)

		if l, ok := entity.ComponentOf[light.Light](e); ok && l.Enabled() {
			gl := light.GPULight{Emission: l.Emission()}
			if hasTransform {
				gl.Position = tr.WorldTranslation()
			}
			f.Lights = append(f.Lights, gl)
		}

		m, ok := entity.ComponentOf[model.Model](e)
		if !ok || !hasTransform {
			continue
		}

		key := Key{Model: m.ID()}
		skinOffset := NoSkeleton
		sk, skinned := entity.FindAncestorComponent[skeleton.Skeleton](e)
		if skinned {
			key.Skeleton = sk.ID()
			off, known := skinOffsets[sk.ID()]
			if !known {
				off = jointCount
				skinOffsets[sk.ID()] = off
				jointCount += uint32(sk.JointCount())
				f.Skeletons = append(f.Skeletons, sk)
				f.SkinOffsets = append(f.SkinOffsets, off)
			}
			skinOffset = off
		}

		g, ok := groupIndex[key]
		if !ok {
			g = &group{batch: Batch{Key: key, Model: m}}
			if skinned {
				g.batch.Skeleton = sk
			}
			groupIndex[key] = g
			groups = append(groups, g)
		}

		inst := GPUInstance{Model: tr.Final, SkinOffset: skinOffset}
		common.InverseTranspose4(inst.Normal[:], tr.Final[:])
		g.instances = append(g.instances, inst)
	}

	b.reportLightBudget(len(f.Lights))

	for _, g := range groups {
		g.batch.FirstInstance = uint32(len(f.Instances))
		g.batch.InstanceCount = uint32(len(g.instances))
		f.Instances = append(f.Instances, g.instances...)
		f.Batches = append(f.Batches, g.batch)
	}

	f.SkinMatrices = make([][16]float32, jointCount)
	b.buildSkins(f)
	return f
}

// reportLightBudget warns when the scene's light count goes over budget or changes while over it.
func (b *batcher) reportLightBudget(n int) {
	if n <= light.MaxGPULights {
		b.overflow = 0
		return
	}
	if n == b.overflow {
		return
	}
	b.overflow = n
	logger.Warn("light budget exceeded, extra lights dropped",
		zap.Int("lights", n), zap.Int("max", light.MaxGPULights))
}

// buildSkins writes every skeleton's skin matrices into its range of f.SkinMatrices.
// With more than one real skeleton and a worker pool, skeletons are skinned in parallel;
// the ranges are disjoint so the result matches a sequential build.
func (b *batcher) buildSkins(f *Frame) {
	ranges := func(i int) [][16]float32 {
		sk := f.Skeletons[i]
		off := f.SkinOffsets[i]
		return f.SkinMatrices[off : off+uint32(sk.JointCount())]
	}

	if b.pool == nil || len(f.Skeletons) <= 2 {
		for i, sk := range f.Skeletons {
			sk.SkinMatrices(ranges(i))
		}
		return
	}

	// A WaitGroup gives a per-frame barrier; pool.Wait would block until workers idle out.
	var wg sync.WaitGroup
	for i, sk := range f.Skeletons {
		wg.Add(1)
		dst := ranges(i)
		b.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				return sk.SkinMatrices(dst), nil
			},
		})
	}
	wg.Wait()
}
