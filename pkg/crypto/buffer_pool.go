// buffer_pool.go provides size-classed pooling for encrypted-module
// frames, reducing allocations when a writer emits many small footer/
// column-metadata frames or many page frames in quick succession.
package crypto

import "sync"

// Frame size classes. Footer and non-page modules (column metadata,
// column/offset index) are typically small; dictionary and data pages
// dominate the medium/large classes.
const (
	smallFrameClass  = 4 * 1024
	mediumFrameClass = 64 * 1024
	largeFrameClass  = 1024 * 1024
)

type framePool struct {
	small  sync.Pool
	medium sync.Pool
	large  sync.Pool
}

func newFramePool() *framePool {
	return &framePool{
		small:  sync.Pool{New: func() any { b := make([]byte, smallFrameClass); return &b }},
		medium: sync.Pool{New: func() any { b := make([]byte, mediumFrameClass); return &b }},
		large:  sync.Pool{New: func() any { b := make([]byte, largeFrameClass); return &b }},
	}
}

func (p *framePool) get(size int) []byte {
	if size <= 0 {
		return nil
	}

	var bufPtr *[]byte
	switch {
	case size <= smallFrameClass:
		bufPtr = p.small.Get().(*[]byte)
	case size <= mediumFrameClass:
		bufPtr = p.medium.Get().(*[]byte)
	case size <= largeFrameClass:
		bufPtr = p.large.Get().(*[]byte)
	default:
		return make([]byte, size)
	}

	buf := (*bufPtr)[:size]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func (p *framePool) release(buf []byte) {
	if buf == nil {
		return
	}
	c := cap(buf)
	full := buf[:c]
	for i := range full {
		full[i] = 0
	}

	switch c {
	case smallFrameClass:
		p.small.Put(&full)
	case mediumFrameClass:
		p.medium.Put(&full)
	case largeFrameClass:
		p.large.Put(&full)
	}
}

// BufferPool is an explicit, instance-owned frame pool. Most callers can
// rely on the package-global pool via GetFrame/ReleaseFrame; a BufferPool
// is for a caller that wants pooling scoped to one writer or reader (e.g.
// one column-chunk's BlockEncryptor) instead of sharing the global pool,
// configured via BlockEncryptor.UsePool/BlockDecryptor.UsePool.
type BufferPool struct {
	pool *framePool
}

// NewBufferPool creates a new, independent BufferPool.
func NewBufferPool() *BufferPool {
	return &BufferPool{pool: newFramePool()}
}

// Get returns a zeroed buffer of exactly size bytes from p.
func (p *BufferPool) Get(size int) []byte {
	return p.pool.get(size)
}

// Release returns buf to p after zeroing it, so encrypted data and
// key-adjacent material do not linger in pooled memory. Buffers not
// matching a known size class are left for the garbage collector.
func (p *BufferPool) Release(buf []byte) {
	p.pool.release(buf)
}

var globalBufferPool = NewBufferPool()

// GetFrame returns a zeroed byte slice of exactly size bytes, drawn from
// the package-global BufferPool when size fits a class, or allocated
// directly otherwise.
func GetFrame(size int) []byte {
	return globalBufferPool.Get(size)
}

// ReleaseFrame returns a frame buffer obtained from GetFrame to the
// package-global pool. Buffers not matching a known size class are left
// for the garbage collector.
func ReleaseFrame(buf []byte) {
	globalBufferPool.Release(buf)
}
