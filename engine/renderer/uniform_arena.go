package renderer

import (
	"errors"
	"math/bits"
)

// errArenaFull is returned by push when the arena has no free record left this frame.
var errArenaFull = errors.New("uniform arena full")

// minArenaRecords is the smallest record capacity an arena allocates.
const minArenaRecords = 64

// uniformArena is a CPU staging area for per-draw uniform records addressed by dynamic
// offsets. Records are written at a fixed stride, the whole used range is uploaded once
// before the frame is submitted, and the arena is reset at the start of the next frame.
type uniformArena struct {
	stride   uint64
	capacity int
	used     int
	data     []byte
}

func newUniformArena(recordSize, align uint64) *uniformArena {
	return &uniformArena{stride: alignUp(recordSize, align)}
}

// reserve ensures room for n records. Growing discards staged records, so it is only
// called between frames.
//
// Returns:
//   - bool: true when the capacity changed and the GPU buffer must be recreated
func (a *uniformArena) reserve(n int) bool {
	if n <= a.capacity {
		return false
	}
	capacity := max(minArenaRecords, 1<<bits.Len(uint(n-1)))
	a.capacity = capacity
	a.data = make([]byte, uint64(capacity)*a.stride)
	a.used = 0
	return true
}

func (a *uniformArena) reset() {
	a.used = 0
}

// push copies record into the next free slot.
//
// Returns:
//   - uint32: the dynamic offset of the record in bytes
//   - error: errArenaFull when every reserved slot is used
func (a *uniformArena) push(record []byte) (uint32, error) {
	if a.used >= a.capacity {
		return 0, errArenaFull
	}
	offset := uint64(a.used) * a.stride
	copy(a.data[offset:offset+a.stride], record)
	a.used++
	return uint32(offset), nil
}

// bytes returns the staged records, ready for a single buffer write.
func (a *uniformArena) bytes() []byte {
	return a.data[:uint64(a.used)*a.stride]
}

// size returns the GPU buffer size needed for the reserved capacity.
func (a *uniformArena) size() uint64 {
	return uint64(a.capacity) * a.stride
}

func (a *uniformArena) count() int {
	return a.used
}
