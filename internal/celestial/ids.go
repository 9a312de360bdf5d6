package celestial

import (
	"encoding/binary"
	"strconv"

	"github.com/google/uuid"
)

// IDSource hands out name-based UUIDs scoped to one seed lineage. Ids depend
// only on the scope and the order of requests per kind, so a generation run
// replayed with the same seed produces the same ids.
type IDSource struct {
	ns       uuid.UUID
	counters map[string]int
}

func NewIDSource(seed uint64, scope string) *IDSource {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seed)
	ns := uuid.NewSHA1(uuid.NameSpaceOID, append(buf[:], scope...))
	return &IDSource{
		ns:       ns,
		counters: make(map[string]int),
	}
}

func (s *IDSource) Next(kind string) string {
	n := s.counters[kind]
	s.counters[kind] = n + 1
	return uuid.NewSHA1(s.ns, []byte(kind+":"+strconv.Itoa(n))).String()
}

// Scoped returns an id source nested under this one.
func (s *IDSource) Scoped(scope string) *IDSource {
	return &IDSource{
		ns:       uuid.NewSHA1(s.ns, []byte("scope:"+scope)),
		counters: make(map[string]int),
	}
}
