package scoring

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/wonny/factscore/internal/contracts"
)

// Distribution summarizes overall scores across a batch
type Distribution struct {
	Kind   contracts.ScoreKind `json:"kind"`
	Count  int                 `json:"count"`
	Mean   float64             `json:"mean"`
	Median float64             `json:"median"`
	P90    float64             `json:"p90"`
	StdDev float64             `json:"std_dev"`
	// Histogram[i] counts companies with overall score i
	Histogram [14]int `json:"histogram"`
}

// Summarize builds the score distribution of a set of summaries
func Summarize(kind contracts.ScoreKind, summaries []contracts.ScoreSummary) (*Distribution, error) {
	dist := &Distribution{Kind: kind, Count: len(summaries)}
	if len(summaries) == 0 {
		return dist, nil
	}

	data := make(stats.Float64Data, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, float64(s.OverallScore))
		if s.OverallScore >= 0 && s.OverallScore < len(dist.Histogram) {
			dist.Histogram[s.OverallScore]++
		}
	}

	var err error
	if dist.Mean, err = stats.Mean(data); err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if dist.Median, err = stats.Median(data); err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	if dist.P90, err = stats.Percentile(data, 90); err != nil {
		return nil, fmt.Errorf("p90: %w", err)
	}
	if len(data) > 1 {
		if dist.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return nil, fmt.Errorf("std dev: %w", err)
		}
	}

	return dist, nil
}
