// Package model defines the core domain types for 1D cutting-stock
// optimization: cutting patterns, genomes (solutions), cut requests
// and results.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// CutPattern represents one cutting layout for a single beam of stock.
// Layout holds one count per distinct required piece length, ordered by
// the canonical ordering of CutRequest.UniqueLengths.
type CutPattern struct {
	ID        string `json:"id"`
	StockSize int    `json:"stock_size"`
	Layout    []int  `json:"layout"`
	Waste     int    `json:"waste"`
}

// NewPatternID returns a fresh opaque pattern identifier.
func NewPatternID() string {
	return uuid.New().String()
}

// Clone returns a deep copy of the pattern.
func (p CutPattern) Clone() CutPattern {
	layout := make([]int, len(p.Layout))
	copy(layout, p.Layout)
	cp := p
	cp.Layout = layout
	return cp
}

// Yield returns the total stock length consumed by the layout's pieces.
func (p CutPattern) Yield() int {
	return p.StockSize - p.Waste
}

// GenomeEntry pairs a cutting pattern with the number of beams cut
// using that pattern.
type GenomeEntry struct {
	Repetition int    `json:"repetition"`
	PatternID  string `json:"pattern_id"`
}

// Genome is a candidate solution: an ordered multiset of
// (repetition, pattern) pairs that together cover all required pieces.
type Genome []GenomeEntry

// BeamCount returns the total number of beams the genome consumes.
func (g Genome) BeamCount() int {
	total := 0
	for _, e := range g {
		total += e.Repetition
	}
	return total
}

// Clone returns a copy of the genome.
func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// CutRequest describes one optimization job: the raw stock length and
// the multiset of required piece lengths.
type CutRequest struct {
	BeamLength     int   `json:"beam_length"`
	ElementLengths []int `json:"element_lengths"`
}

// UniqueLengths returns the distinct piece lengths in order of first
// appearance. This ordering is the canonical layout ordering used by
// every CutPattern produced for the request.
func (r CutRequest) UniqueLengths() []int {
	seen := make(map[int]bool, len(r.ElementLengths))
	var unique []int
	for _, l := range r.ElementLengths {
		if !seen[l] {
			seen[l] = true
			unique = append(unique, l)
		}
	}
	return unique
}

// LengthCounts returns the required quantity per distinct piece length.
func (r CutRequest) LengthCounts() map[int]int {
	counts := make(map[int]int, len(r.ElementLengths))
	for _, l := range r.ElementLengths {
		counts[l]++
	}
	return counts
}

// TotalLength returns the summed length of all required pieces.
func (r CutRequest) TotalLength() int {
	total := 0
	for _, l := range r.ElementLengths {
		total += l
	}
	return total
}

// Validate checks the caller-side input constraints. The optimizer core
// assumes these hold and does not re-check them.
func (r CutRequest) Validate() error {
	if r.BeamLength <= 0 {
		return fmt.Errorf("beam length must be positive, got %d", r.BeamLength)
	}
	if len(r.ElementLengths) == 0 {
		return fmt.Errorf("element lengths must not be empty")
	}
	for _, l := range r.ElementLengths {
		if l <= 0 {
			return fmt.Errorf("element length must be positive, got %d", l)
		}
		if l > r.BeamLength {
			return fmt.Errorf("element length %d exceeds beam length %d", l, r.BeamLength)
		}
	}
	return nil
}

// CutResult is the output of one optimizer run: the best genome, the
// patterns it references (in genome order), its total waste and the
// required-quantity histogram consumed by the rendering and persistence
// collaborators.
type CutResult struct {
	Genome       Genome       `json:"genome"`
	Patterns     []CutPattern `json:"patterns"`
	TotalWaste   int          `json:"total_waste"`
	LengthCounts map[int]int  `json:"length_counts"`
	// UniqueLengths is the canonical layout ordering: Layout[i] of any
	// pattern in Patterns counts pieces of UniqueLengths[i].
	UniqueLengths []int `json:"unique_lengths"`
	BeamLength    int   `json:"beam_length"`
}

// TotalElementsLength returns the summed length of all required pieces.
func (res CutResult) TotalElementsLength() int {
	total := 0
	for length, count := range res.LengthCounts {
		total += length * count
	}
	return total
}

// StockConsumed returns the total stock length used across all beams.
func (res CutResult) StockConsumed() int {
	return res.Genome.BeamCount() * res.BeamLength
}

// Utilization returns the percentage of consumed stock turned into
// required pieces.
func (res CutResult) Utilization() float64 {
	consumed := res.StockConsumed()
	if consumed == 0 {
		return 0
	}
	return 100.0 * float64(res.TotalElementsLength()) / float64(consumed)
}

// PatternByID returns the referenced pattern, or false when the result
// does not carry a pattern with that id.
func (res CutResult) PatternByID(id string) (CutPattern, bool) {
	for _, p := range res.Patterns {
		if p.ID == id {
			return p, true
		}
	}
	return CutPattern{}, false
}
