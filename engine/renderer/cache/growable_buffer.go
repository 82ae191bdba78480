package cache

import "fmt"

// Allocator creates, writes and frees the buffers behind a GrowableBuffer.
// The renderer implements it over wgpu; tests use an in-memory fake.
type Allocator[B any] interface {
	// Allocate creates a buffer of size bytes.
	//
	// Parameters:
	//   - label: the debug label
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - B: the new buffer
	//   - error: an error if allocation failed
	Allocate(label string, size uint64) (B, error)

	// Write uploads data at offset bytes into b.
	//
	// Parameters:
	//   - b: the destination buffer
	//   - offset: the byte offset
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the write failed
	Write(b B, offset uint64, data []byte) error

	// Release frees b.
	//
	// Parameters:
	//   - b: the buffer to free
	Release(b B)
}

// GrowableBuffer is a GPU buffer sized in fixed-size elements that reallocates when a write
// no longer fits. Capacity only grows: a frame with fewer elements reuses the larger buffer.
type GrowableBuffer[B any] struct {
	label       string
	elementSize uint64
	allocator   Allocator[B]

	buffer    B
	allocated bool
	capacity  uint64
}

// NewGrowableBuffer creates an empty GrowableBuffer. Nothing is allocated until the first Write.
//
// Parameters:
//   - label: the debug label for every allocation
//   - elementSize: the size of one element in bytes
//   - allocator: the buffer allocator
//
// Returns:
//   - *GrowableBuffer[B]: the buffer
func NewGrowableBuffer[B any](label string, elementSize uint64, allocator Allocator[B]) *GrowableBuffer[B] {
	return &GrowableBuffer[B]{
		label:       label,
		elementSize: max(elementSize, 1),
		allocator:   allocator,
	}
}

// Write uploads data at offset 0, growing the buffer first when data does not fit.
//
// Growth releases the old buffer and allocates max(required, 2 × capacity) elements, never
// fewer than one. The caller must rebuild any bind group that references the buffer when
// grown is true.
//
// Parameters:
//   - data: the bytes to upload
//
// Returns:
//   - bool: true if a new buffer was allocated
//   - error: an error if allocation or the write failed
func (g *GrowableBuffer[B]) Write(data []byte) (bool, error) {
	required := (uint64(len(data)) + g.elementSize - 1) / g.elementSize
	grown := false
	if !g.allocated || required > g.capacity {
		capacity := max(required, g.capacity, 1)
		if g.allocated {
			capacity = max(required, 2*g.capacity)
		}
		b, err := g.allocator.Allocate(g.label, capacity*g.elementSize)
		if err != nil {
			return false, fmt.Errorf("grow %s to %d elements: %w", g.label, capacity, err)
		}
		if g.allocated {
			g.allocator.Release(g.buffer)
		}
		g.buffer = b
		g.capacity = capacity
		g.allocated = true
		grown = true
	}
	if len(data) == 0 {
		return grown, nil
	}
	if err := g.allocator.Write(g.buffer, 0, data); err != nil {
		return grown, fmt.Errorf("write %s: %w", g.label, err)
	}
	return grown, nil
}

// Buffer returns the current buffer and whether one has been allocated.
func (g *GrowableBuffer[B]) Buffer() (B, bool) {
	return g.buffer, g.allocated
}

// Capacity returns the current capacity in elements.
func (g *GrowableBuffer[B]) Capacity() uint64 {
	return g.capacity
}

// Size returns the current capacity in bytes.
func (g *GrowableBuffer[B]) Size() uint64 {
	return g.capacity * g.elementSize
}

// Release frees the buffer. Capacity is kept so a later Write reallocates at the same size.
func (g *GrowableBuffer[B]) Release() {
	if !g.allocated {
		return
	}
	g.allocator.Release(g.buffer)
	var zero B
	g.buffer = zero
	g.allocated = false
}
