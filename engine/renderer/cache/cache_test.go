package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMemoizes(t *testing.T) {
	c := New[uuid.UUID, string]()
	id := uuid.New()
	calls := 0
	create := func() (string, error) {
		calls++
		return fmt.Sprintf("value-%d", calls), nil
	}

	v1, err := c.GetOrCreate(id, create)
	require.NoError(t, err)
	v2, err := c.GetOrCreate(id, create)
	require.NoError(t, err)

	assert.Equal(t, "value-1", v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	c := New[string, int]()
	boom := errors.New("boom")

	_, err := c.GetOrCreate("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("k")
	assert.False(t, ok)

	v, err := c.GetOrCreate("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCacheRangeAndRelease(t *testing.T) {
	c := New[int, string]()
	for i := 3; i > 0; i-- {
		_, _ = c.GetOrCreate(i, func() (string, error) { return fmt.Sprint(i), nil })
	}

	var keys []int
	c.Range(func(k int, _ string) bool {
		keys = append(keys, k)
		return k != 2
	})
	assert.Equal(t, []int{3, 2}, keys)

	var released []string
	c.Release(func(_ int, v string) { released = append(released, v) })
	assert.Equal(t, []string{"3", "2", "1"}, released)
	assert.Equal(t, 0, c.Len())
}

func TestCacheConcurrentGetOrCreate(t *testing.T) {
	c := New[int, int]()
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		calls int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.GetOrCreate(1, func() (int, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				return 1, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

type fakeBuffer struct {
	id   int
	data []byte
}

type fakeAllocator struct {
	next     int
	sizes    []uint64
	released []int
	failNext bool
}

func (f *fakeAllocator) Allocate(_ string, size uint64) (*fakeBuffer, error) {
	if f.failNext {
		f.failNext = false
		return nil, errors.New("out of memory")
	}
	f.next++
	f.sizes = append(f.sizes, size)
	return &fakeBuffer{id: f.next, data: make([]byte, size)}, nil
}

func (f *fakeAllocator) Write(b *fakeBuffer, offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return errors.New("write past end")
	}
	copy(b.data[offset:], data)
	return nil
}

func (f *fakeAllocator) Release(b *fakeBuffer) {
	f.released = append(f.released, b.id)
}

func TestGrowableBufferGrowth(t *testing.T) {
	alloc := &fakeAllocator{}
	g := NewGrowableBuffer[*fakeBuffer]("instances", 16, alloc)

	grown, err := g.Write(make([]byte, 3*16))
	require.NoError(t, err)
	assert.True(t, grown)
	assert.Equal(t, uint64(3), g.Capacity())

	// fits: written in place
	grown, err = g.Write(make([]byte, 2*16))
	require.NoError(t, err)
	assert.False(t, grown)

	// one over: doubles
	grown, err = g.Write(make([]byte, 4*16))
	require.NoError(t, err)
	assert.True(t, grown)
	assert.Equal(t, uint64(6), g.Capacity())
	assert.Equal(t, []int{1}, alloc.released)

	// far over: takes the requirement
	_, err = g.Write(make([]byte, 20*16))
	require.NoError(t, err)
	assert.Equal(t, uint64(20), g.Capacity())
	assert.Equal(t, []uint64{48, 96, 320}, alloc.sizes)
}

func TestGrowableBufferNeverShrinks(t *testing.T) {
	g := NewGrowableBuffer[*fakeBuffer]("skin", 64, &fakeAllocator{})
	sizes := []int{5, 1, 9, 0, 2, 9, 3}
	var prev uint64
	for _, n := range sizes {
		_, err := g.Write(make([]byte, n*64))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, g.Capacity(), prev)
		assert.GreaterOrEqual(t, g.Capacity(), uint64(n))
		prev = g.Capacity()
	}
}

func TestGrowableBufferEmptyWriteAllocatesOne(t *testing.T) {
	alloc := &fakeAllocator{}
	g := NewGrowableBuffer[*fakeBuffer]("lights", 32, alloc)
	grown, err := g.Write(nil)
	require.NoError(t, err)
	assert.True(t, grown)
	assert.Equal(t, uint64(1), g.Capacity())
	b, ok := g.Buffer()
	require.True(t, ok)
	assert.Len(t, b.data, 32)
}

func TestGrowableBufferPartialElementRoundsUp(t *testing.T) {
	g := NewGrowableBuffer[*fakeBuffer]("lights", 32, &fakeAllocator{})
	_, err := g.Write(make([]byte, 16+2*32))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), g.Capacity())
}

func TestGrowableBufferAllocationFailureKeepsOld(t *testing.T) {
	alloc := &fakeAllocator{}
	g := NewGrowableBuffer[*fakeBuffer]("instances", 16, alloc)
	_, err := g.Write(make([]byte, 16))
	require.NoError(t, err)
	before, _ := g.Buffer()

	alloc.failNext = true
	_, err = g.Write(make([]byte, 64))
	assert.Error(t, err)
	after, _ := g.Buffer()
	assert.Same(t, before, after)
	assert.Equal(t, uint64(1), g.Capacity())
	assert.Empty(t, alloc.released)
}

func TestGrowableBufferRelease(t *testing.T) {
	alloc := &fakeAllocator{}
	g := NewGrowableBuffer[*fakeBuffer]("instances", 16, alloc)
	_, _ = g.Write(make([]byte, 4*16))
	g.Release()
	_, ok := g.Buffer()
	assert.False(t, ok)
	g.Release()
	assert.Equal(t, []int{1}, alloc.released)

	grown, err := g.Write(make([]byte, 16))
	require.NoError(t, err)
	assert.True(t, grown)
	assert.Equal(t, uint64(4), g.Capacity())
}
