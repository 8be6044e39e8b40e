package domain

// FetchResult is the explicit result of one source fetch. The
// orchestrator aggregates these instead of catching errors mid-loop.
type FetchResult struct {
	Source  string
	Metrics []Metric
	Err     error
}

// CollectionOutcome summarizes one collection cycle. It is always
// returned, never persisted; a cycle reports its failures here rather
// than propagating them.
type CollectionOutcome struct {
	Success        bool           `json:"success"`
	PerSourceCount map[string]int `json:"per_source_count"`
	TotalSaved     int            `json:"total_saved"`
	Dropped        int            `json:"dropped,omitempty"`
	Errors         []string       `json:"errors"`
	Timestamp      int64          `json:"timestamp"`
}

// TotalFetched returns the number of records fetched across all
// sources, whether or not they reached the store.
func (o CollectionOutcome) TotalFetched() int {
	total := 0
	for _, n := range o.PerSourceCount {
		total += n
	}
	return total
}
