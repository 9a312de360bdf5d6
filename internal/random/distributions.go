package random

import "math"

// Uniform returns a draw in [min, max). Reversed bounds are swapped.
func (s *Stream) Uniform(min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	return min + s.Float64()*(max-min)
}

// IntRange returns an integer in [min, max] inclusive.
func (s *Stream) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.Intn(max-min+1)
}

// Normal uses Box-Muller over two draws.
func (s *Stream) Normal(mu, sigma float64) float64 {
	u1 := s.Float64()
	u2 := s.Float64()
	if u1 < math.SmallestNonzeroFloat64 {
		u1 = math.SmallestNonzeroFloat64
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mu + sigma*z
}

func (s *Stream) LogNormal(mu, sigma float64) float64 {
	return math.Exp(s.Normal(mu, sigma))
}

// Geometric counts failures before the first success with probability p.
// p outside (0, 1) returns 0.
func (s *Stream) Geometric(p float64) int {
	if p <= 0 || p >= 1 {
		return 0
	}
	u := s.Float64()
	if u <= 0 {
		return 0
	}
	n := math.Floor(math.Log(u) / math.Log(1-p))
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Poisson uses Knuth's multiplication method for small lambda and a rounded
// normal approximation above 30.
func (s *Stream) Poisson(lambda float64) int {
	if lambda <= 0 || math.IsNaN(lambda) {
		return 0
	}
	if lambda > 30 {
		n := math.Round(s.Normal(lambda, math.Sqrt(lambda)))
		if n < 0 {
			return 0
		}
		return int(n)
	}
	limit := math.Exp(-lambda)
	k := 0
	p := s.Float64()
	for p > limit {
		k++
		p *= s.Float64()
	}
	return k
}

// Bool returns true with probability p, clamped to [0, 1].
func (s *Stream) Bool(p float64) bool {
	return s.Float64() < Clamp01(p)
}

// Pick returns a uniformly chosen element. Empty slices return the zero value.
func Pick[T any](s *Stream, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[s.Intn(len(items))]
}

// Weighted draws one item proportionally to its weight with a cumulative
// linear scan. Rounding past the total falls back to the last item.
func Weighted[T any](s *Stream, items []T, weights []float64) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	total := 0.0
	for i := range items {
		if i < len(weights) && weights[i] > 0 {
			total += weights[i]
		}
	}
	roll := s.Float64() * total
	acc := 0.0
	for i := range items {
		if i < len(weights) && weights[i] > 0 {
			acc += weights[i]
		}
		if roll < acc {
			return items[i]
		}
	}
	return items[len(items)-1]
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](s *Stream, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// InSphere samples a point uniformly inside a sphere of the given radius using
// spherical coordinates.
func (s *Stream) InSphere(radius float64) (x, y, z float64) {
	r := radius * math.Cbrt(s.Float64())
	theta := s.Uniform(0, 2*math.Pi)
	phi := math.Acos(s.Uniform(-1, 1))
	return r * math.Sin(phi) * math.Cos(theta), r * math.Sin(phi) * math.Sin(theta), r * math.Cos(phi)
}

func Clamp01(p float64) float64 {
	return Clamp(p, 0, 1)
}

// Clamp bounds v to [lo, hi]; NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt bounds n to [lo, hi]. A negative hi means no upper bound.
func ClampInt(n, lo, hi int) int {
	if n < lo {
		n = lo
	}
	if hi >= 0 && n > hi {
		n = hi
	}
	return n
}

// Finite replaces NaN and infinities with fallback.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
