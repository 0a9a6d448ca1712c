package sim

import (
	"math"
	"math/rand"
)

// Sampler draws every random quantity in a run from a single seeded stream.
// Two simulations with the same seed and identical configuration MUST produce
// bit-for-bit identical results; this requires that the draw order is fixed.
// The canonical order is: at each arrival, priority class, then test type,
// then the next inter-arrival gap; each service duration is drawn at the
// instant its resource slot is granted.
//
// Thread-safety: NOT thread-safe. The simulation is single-threaded by
// construction, so no locking is needed.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler seeded once for the whole run.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// InterarrivalGap draws an exponential gap with the given mean, modelling a
// Poisson arrival process. meanMinutes must be positive; Config.Validate
// rejects non-positive means before the run starts.
func (s *Sampler) InterarrivalGap(meanMinutes float64) float64 {
	return s.rng.ExpFloat64() * meanMinutes
}

// ServiceDuration draws from the triangular distribution on [t.Min, t.Max]
// with peak at t.Mode, via the inverse CDF. The triple must satisfy
// min <= mode <= max; malformed triples are a configuration error caught by
// Config.Validate, not a runtime concern here.
func (s *Sampler) ServiceDuration(t ServiceTriple) float64 {
	width := t.Max - t.Min
	if width == 0 {
		return t.Min
	}
	u := s.rng.Float64()
	cut := (t.Mode - t.Min) / width
	if u < cut {
		return t.Min + math.Sqrt(u*width*(t.Mode-t.Min))
	}
	return t.Max - math.Sqrt((1-u)*width*(t.Max-t.Mode))
}

// PriorityClass draws Expedited with probability pExpedited, else Normal.
func (s *Sampler) PriorityClass(pExpedited float64) PriorityClass {
	if s.rng.Float64() < pExpedited {
		return Expedited
	}
	return Normal
}

// TestType draws TestFast with probability pFast, else TestSlow.
func (s *Sampler) TestType(pFast float64) TestType {
	if s.rng.Float64() < pFast {
		return TestFast
	}
	return TestSlow
}
