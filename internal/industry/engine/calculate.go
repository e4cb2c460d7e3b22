package engine

import (
	"context"

	"github.com/rsned/industry-planner/pkg/industry"
)

// Calculate executes the calculate_requirements tool logic.
func (e *Engine) Calculate(ctx context.Context, req industry.CalculateRequest) (*industry.CalculateResponse, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	req.Runs = defaultRuns(req.Runs)
	resp := &industry.CalculateResponse{Runs: req.Runs}

	entry, suggestions := e.resolve(req.EntryRef)
	if entry == nil {
		resp.Suggestions = suggestions
		return resp, nil
	}

	perUnit := e.perUnit(entry)
	summary := e.summary(entry)
	seconds := e.productionTime(entry) * float64(req.Runs)

	resp.Found = true
	resp.Entry = &summary
	resp.PerUnit = perUnit.Lines()
	resp.Total = Scale(perUnit, req.Runs).Lines()
	resp.ProductionTimeSec = seconds
	resp.ProductionTime = FormatDuration(seconds)
	return resp, nil
}

// AggregateRequirements executes the aggregate_requirements tool logic.
// Lines that do not resolve are reported as missing and contribute nothing.
func (e *Engine) AggregateRequirements(ctx context.Context, req industry.AggregateRequest) (*industry.AggregateResponse, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	resp := &industry.AggregateResponse{Included: []industry.EntrySummary{}}

	parts := make([]industry.Requirements, 0, len(req.Lines))
	for _, line := range req.Lines {
		entry, _ := e.resolve(line.EntryRef)
		if entry == nil {
			resp.Missing = append(resp.Missing, line.EntryRef)
			continue
		}
		parts = append(parts, Scale(e.perUnit(entry), defaultRuns(line.Runs)))
		resp.Included = append(resp.Included, e.summary(entry))
	}

	resp.Total = Aggregate(parts...).Lines()
	return resp, nil
}
