// Package storage persists cutting requests and their solved plans so
// past optimizations can be listed and reloaded.
package storage

import (
	"context"
	"time"

	"github.com/mnykolaichuk96/WebOptimalCutting/internal/model"
)

// SavedUsage records how many times one cutting pattern is applied in a
// saved plan.
type SavedUsage struct {
	Pattern    model.CutPattern
	Repetition int
}

// SavedRequest is a persisted cutting request together with the plan
// that solved it. Usages is empty on listing results; GetRequest loads
// the full plan.
type SavedRequest struct {
	ID             int64
	BeamLength     int
	ElementLengths []int
	CreatedAt      time.Time
	Usages         []SavedUsage
}

// TotalWaste sums repetition-weighted waste over the saved plan.
func (r SavedRequest) TotalWaste() int {
	total := 0
	for _, u := range r.Usages {
		total += u.Repetition * u.Pattern.Waste
	}
	return total
}

// BeamsUsed sums the repetitions over the saved plan.
func (r SavedRequest) BeamsUsed() int {
	total := 0
	for _, u := range r.Usages {
		total += u.Repetition
	}
	return total
}

// Store defines persistence operations for cutting requests and plans.
type Store interface {
	Init(ctx context.Context) error
	SaveResult(ctx context.Context, req model.CutRequest, result model.CutResult) (int64, error)
	GetRequest(ctx context.Context, id int64) (SavedRequest, bool, error)
	ListRequests(ctx context.Context, limit int) ([]SavedRequest, error)
	CountRequests(ctx context.Context) (int, error)
	Close() error
}
