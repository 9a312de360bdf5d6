package random

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

type seedKind uint8

const (
	seedAbsent seedKind = iota
	seedText
	seedNumber
)

// Seed is the caller-supplied seed: a string, a number, or absent. An absent
// seed resolves from the clock and is not reproducible.
type Seed struct {
	kind seedKind
	text string
	num  float64
}

func StringSeed(s string) Seed {
	return Seed{kind: seedText, text: s}
}

func NumberSeed(n float64) Seed {
	return Seed{kind: seedNumber, num: n}
}

// NoSeed is the absent seed.
var NoSeed = Seed{}

func (s Seed) IsSet() bool {
	return s.kind != seedAbsent
}

// Resolve maps the seed to the 64-bit value the root stream is built from.
func (s Seed) Resolve(now func() time.Time) uint64 {
	switch s.kind {
	case seedText:
		return xxhash.Sum64String(s.text)
	case seedNumber:
		if s.num == math.Trunc(s.num) && math.Abs(s.num) < 1<<63 {
			return uint64(int64(s.num))
		}
		return math.Float64bits(s.num)
	default:
		if now == nil {
			now = time.Now
		}
		return uint64(now().UnixNano())
	}
}

func (s Seed) String() string {
	switch s.kind {
	case seedText:
		return s.text
	case seedNumber:
		return strconv.FormatFloat(s.num, 'f', -1, 64)
	default:
		return ""
	}
}

func (s Seed) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case seedText:
		return json.Marshal(s.text)
	case seedNumber:
		return json.Marshal(s.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string, number or null.
func (s *Seed) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = NoSeed
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("invalid seed: %w", err)
		}
		*s = StringSeed(text)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("seed must be a string, number or null: %w", err)
	}
	*s = NumberSeed(n)
	return nil
}
