package random

import (
	"encoding/binary"
	"math/rand/v2"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Stream is a deterministic random source identified by its key. The key is a
// pure function of the root seed and the chain of fork labels leading to the
// stream, so forking never depends on (or advances) the parent's cursor.
type Stream struct {
	key uint64
	rng *rand.Rand
}

// New returns the root stream for a seed.
func New(seed uint64) *Stream {
	return fromKey(mix(seed, 0x9e3779b97f4a7c15))
}

func fromKey(key uint64) *Stream {
	return &Stream{
		key: key,
		rng: rand.New(rand.NewPCG(key, mix(key, 0xda942042e4dd58b5))),
	}
}

// Fork derives an independent child stream. The same label forked from streams
// with the same key always yields the same child.
func (s *Stream) Fork(label string) *Stream {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], s.key)

	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(label)
	return fromKey(d.Sum64())
}

// ForkIndex is Fork with an index suffix, used for per-entity streams.
func (s *Stream) ForkIndex(label string, i int) *Stream {
	return s.Fork(label + "#" + strconv.Itoa(i))
}

// Key identifies the stream's position in the fork lineage.
func (s *Stream) Key() uint64 {
	return s.key
}

// Float64 returns a draw in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Uint32 returns a raw 32-bit draw.
func (s *Stream) Uint32() uint32 {
	return s.rng.Uint32()
}

// Intn returns a draw in [0, n). n <= 0 returns 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

func mix(a, b uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], a)
	binary.LittleEndian.PutUint64(buf[8:], b)
	return xxhash.Sum64(buf[:])
}
