// Package matcher resolves a probe descriptor against the enrolled
// descriptor pool. It is pure computation: given the same pool and probe it
// always returns the same answer, and "nobody matched" is a result, not an
// error.
package matcher

import "math"

// Descriptor is a fixed-length face encoding produced by the extractor.
type Descriptor []float64

// Candidate is one enrolled descriptor with its owning employee.
type Candidate struct {
	EmployeeID int
	Descriptor Descriptor
}

// Result of matching a probe against the candidate pool.
type Result struct {
	Matched    bool
	EmployeeID int
	Distance   float64
	// Confidence is a human-facing score in [0,100] derived from the
	// distance, not a probability.
	Confidence float64
}

// EuclideanDistance between two descriptors. Mismatched or empty inputs
// report the maximum distance so they can never win a match.
func EuclideanDistance(a, b Descriptor) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}

// Match scores each employee by their best (minimum distance) descriptor and
// picks the employee with the globally smallest distance. A best distance
// above threshold means the probe is unknown. Exact ties resolve to the
// lowest employee id to keep the result deterministic.
func Match(probe Descriptor, pool []Candidate, threshold float64) Result {
	if len(pool) == 0 {
		return Result{}
	}

	best := map[int]float64{}
	for _, c := range pool {
		d := EuclideanDistance(probe, c.Descriptor)
		if prev, ok := best[c.EmployeeID]; !ok || d < prev {
			best[c.EmployeeID] = d
		}
	}

	winner := -1
	winnerDistance := math.MaxFloat64
	for employeeID, d := range best {
		if d < winnerDistance || (d == winnerDistance && employeeID < winner) {
			winner = employeeID
			winnerDistance = d
		}
	}

	if winner < 0 || winnerDistance > threshold {
		return Result{}
	}

	return Result{
		Matched:    true,
		EmployeeID: winner,
		Distance:   winnerDistance,
		Confidence: Confidence(winnerDistance, threshold),
	}
}

// Confidence maps a distance onto [0,100]: 100 at distance 0, 0 at the
// threshold and beyond.
func Confidence(distance, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}

	c := (1 - distance/threshold) * 100
	if c < 0 {
		return 0
	}

	return c
}
