// Post-processing of a finished EventLog into headline statistics.

package sim

import (
	"fmt"
	"math"
	"sort"
)

// SafeMean returns the arithmetic mean of xs, or NaN when xs is empty.
// Callers must check the population size before trusting headline figures.
func SafeMean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Percentile computes the p-th percentile of xs by linear interpolation
// between order statistics: for n sorted values, rank = (n-1)*p/100,
// interpolated between floor(rank) and ceil(rank). Percentile(xs, 0) is the
// minimum, Percentile(xs, 100) the maximum. Returns NaN for an empty slice.
func Percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		upperIdx = n - 1
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx] + (rank-float64(lowerIdx))*(sorted[upperIdx]-sorted[lowerIdx])
}

// Summary aggregates statistics about a finished run for final reporting.
// All means and percentiles are computed over the counted (post-warm-up)
// subset; NaN values mean the counted set was empty.
type Summary struct {
	TotalPatients   int // completed patients, warm-up included
	CountedPatients int // completed patients past the warm-up threshold

	MeanWaitRegistration float64
	MeanWaitSampling     float64
	MeanWaitMachine      float64
	MeanWaitVerification float64

	MeanSystemTime float64
	P95SystemTime  float64

	Counts CompositionCounts
}

// Summarize is a pure function over a finished EventLog.
func Summarize(log *EventLog) Summary {
	return Summary{
		TotalPatients:        len(log.Patients),
		CountedPatients:      len(log.Counted.SystemTime),
		MeanWaitRegistration: SafeMean(log.Counted.WaitReg),
		MeanWaitSampling:     SafeMean(log.Counted.WaitSample),
		MeanWaitMachine:      SafeMean(log.Counted.WaitMachine),
		MeanWaitVerification: SafeMean(log.Counted.WaitVerify),
		MeanSystemTime:       SafeMean(log.Counted.SystemTime),
		P95SystemTime:        Percentile(log.Counted.SystemTime, 95),
		Counts:               log.Counts,
	}
}

// Print displays aggregated statistics at the end of the simulation.
func (s Summary) Print() {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Total patients (incl. warm-up) : %d\n", s.TotalPatients)
	fmt.Printf("Counted patients (post warm-up): %d\n", s.CountedPatients)
	if s.CountedPatients > 0 {
		fmt.Printf("Mean wait registration         : %.2f min\n", s.MeanWaitRegistration)
		fmt.Printf("Mean wait sampling             : %.2f min\n", s.MeanWaitSampling)
		fmt.Printf("Mean wait test machine         : %.2f min\n", s.MeanWaitMachine)
		if !math.IsNaN(s.MeanWaitVerification) {
			fmt.Printf("Mean wait verification         : %.2f min\n", s.MeanWaitVerification)
		}
		fmt.Printf("Mean time in system            : %.2f min\n", s.MeanSystemTime)
		fmt.Printf("P95 time in system             : %.2f min\n", s.P95SystemTime)
	}
	fmt.Printf("Composition                    : expedited=%d normal=%d fast=%d slow=%d\n",
		s.Counts.Expedited, s.Counts.Normal, s.Counts.Fast, s.Counts.Slow)
}
