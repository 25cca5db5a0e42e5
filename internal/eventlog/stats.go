package eventlog

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LatencySummary is a quantile summary of inter-load latency, mirroring the
// teacher's RadarObjectRollupRange use of stat.Quantile for percentile rollups.
type LatencySummary struct {
	Count     int
	P50Nanos  float64
	P85Nanos  float64
	P98Nanos  float64
}

// LatencySummaryOverRecent computes a quantile summary of the gaps between
// consecutive occurred_unix_nanos timestamps across the most recent limit
// load events.
func (el *EventLog) LatencySummaryOverRecent(limit int) (LatencySummary, error) {
	events, err := el.Recent(limit)
	if err != nil {
		return LatencySummary{}, fmt.Errorf("eventlog: failed to summarize latency: %w", err)
	}
	if len(events) < 2 {
		return LatencySummary{Count: len(events)}, nil
	}

	// Recent returns newest-first; stat.Quantile requires ascending input.
	sort.Slice(events, func(i, j int) bool { return events[i].OccurredNanos < events[j].OccurredNanos })

	gaps := make([]float64, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		gaps = append(gaps, float64(events[i].OccurredNanos-events[i-1].OccurredNanos))
	}
	sort.Float64s(gaps)

	return LatencySummary{
		Count:    len(gaps),
		P50Nanos: stat.Quantile(0.5, stat.Empirical, gaps, nil),
		P85Nanos: stat.Quantile(0.85, stat.Empirical, gaps, nil),
		P98Nanos: stat.Quantile(0.98, stat.Empirical, gaps, nil),
	}, nil
}
