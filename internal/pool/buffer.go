// Package pool provides reusable read buffers for streaming checksums.
//
// Re-hashing a persisted attachment reads it in bounded chunks; pooling the
// chunk buffers keeps repeated transfers from allocating a fresh buffer for
// every file.
package pool

import (
	"sync"
)

const (
	// SmallBufferSize defines the size for small buffers (4KB)
	SmallBufferSize = 4 * 1024
	// MediumBufferSize defines the size for medium buffers (64KB)
	MediumBufferSize = 64 * 1024
	// LargeBufferSize defines the size for large buffers (1MB)
	LargeBufferSize = 1024 * 1024
)

// BufferPool manages reusable buffers in three size classes.
type BufferPool struct {
	small  *sync.Pool
	medium *sync.Pool
	large  *sync.Pool
}

func newTier(size int) *sync.Pool {
	return &sync.Pool{
		New: func() interface{} {
			buf := make([]byte, size)
			return &buf
		},
	}
}

// NewBufferPool creates a new buffer pool with default sizes.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		small:  newTier(SmallBufferSize),
		medium: newTier(MediumBufferSize),
		large:  newTier(LargeBufferSize),
	}
}

// Get returns a buffer of exactly size bytes, ready to be passed to Read.
// Requests above LargeBufferSize are allocated and never pooled.
// The caller is responsible for calling Put to return the buffer.
func (bp *BufferPool) Get(size int) []byte {
	var tier *sync.Pool
	switch {
	case size <= 0:
		return nil
	case size <= SmallBufferSize:
		tier = bp.small
	case size <= MediumBufferSize:
		tier = bp.medium
	case size <= LargeBufferSize:
		tier = bp.large
	default:
		return make([]byte, size)
	}
	bufPtr := tier.Get().(*[]byte)
	return (*bufPtr)[:size]
}

// Put returns a buffer to the pool matching its capacity.
// Buffers that do not belong to a size class are dropped.
func (bp *BufferPool) Put(buf []byte) {
	buf = buf[:cap(buf)]
	switch cap(buf) {
	case SmallBufferSize:
		bp.small.Put(&buf)
	case MediumBufferSize:
		bp.medium.Put(&buf)
	case LargeBufferSize:
		bp.large.Put(&buf)
	}
}

// Global buffer pool instance for use throughout the module.
var globalBufferPool = NewBufferPool()

// GetBuffer returns a buffer from the global pool for the specified size.
func GetBuffer(size int) []byte {
	return globalBufferPool.Get(size)
}

// PutBuffer returns a buffer to the global pool.
func PutBuffer(buf []byte) {
	globalBufferPool.Put(buf)
}
