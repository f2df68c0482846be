// Package retrievalmetrics implements the Retrieval Metrics capability of
// spec §6: scoring one retrieval against a known-good set of expected ids,
// and aggregating many such scores across an evaluation run (spec §3's
// evaluation_run, §8's Recall@K/Precision@K invariants).
package retrievalmetrics

import "math"

// Options configures a Compute call.
type Options struct {
	K int // rank cutoff; 0 means "use len(retrievedIDs)"
}

// Result is one retrieval's score against its expected ids.
type Result struct {
	RecallAtK    float64
	PrecisionAtK float64
	MRR          float64
	HitRateAtK   float64
}

// Compute scores retrievedIDs (in rank order) against the known-relevant
// expectedIDs. With no expected ids, every metric is defined as 0 rather
// than dividing by zero.
func Compute(expectedIDs, retrievedIDs []string, opts Options) Result {
	k := opts.K
	if k <= 0 || k > len(retrievedIDs) {
		k = len(retrievedIDs)
	}
	top := retrievedIDs[:k]

	if len(expectedIDs) == 0 {
		return Result{}
	}

	expected := toSet(expectedIDs)

	hits := 0
	for _, id := range top {
		if expected[id] {
			hits++
		}
	}

	recall := float64(hits) / float64(len(expectedIDs))

	var precision float64
	if k > 0 {
		precision = float64(hits) / float64(k)
	}

	hitRate := 0.0
	if hits > 0 {
		hitRate = 1.0
	}

	mrr := 0.0
	for rank, id := range top {
		if expected[id] {
			mrr = 1.0 / float64(rank+1)
			break
		}
	}

	return Result{
		RecallAtK:    recall,
		PrecisionAtK: precision,
		MRR:          mrr,
		HitRateAtK:   hitRate,
	}
}

// Aggregate averages a set of per-case Results into one Result of the same
// shape (spec §6: "aggregate(results) -> same shape averaged").
func Aggregate(results []Result) Result {
	if len(results) == 0 {
		return Result{}
	}
	var out Result
	for _, r := range results {
		out.RecallAtK += r.RecallAtK
		out.PrecisionAtK += r.PrecisionAtK
		out.MRR += r.MRR
		out.HitRateAtK += r.HitRateAtK
	}
	n := float64(len(results))
	out.RecallAtK /= n
	out.PrecisionAtK /= n
	out.MRR /= n
	out.HitRateAtK /= n
	return out
}

// Stat is a mean and population standard deviation over an evaluation run.
type Stat struct {
	Mean   float64
	StdDev float64
}

// AggregateReport is a richer summary than Aggregate's bare averages: mean
// and standard deviation per metric across every case in an evaluation
// run, plus the case count, so callers can judge how stable a retrieval
// configuration is, not just its average.
type AggregateReport struct {
	N            int
	RecallAtK    Stat
	PrecisionAtK Stat
	MRR          Stat
	HitRateAtK   Stat
}

// BuildAggregateReport computes mean and (population) standard deviation
// per metric across results.
func BuildAggregateReport(results []Result) AggregateReport {
	if len(results) == 0 {
		return AggregateReport{}
	}
	return AggregateReport{
		N:            len(results),
		RecallAtK:    stat(extract(results, func(r Result) float64 { return r.RecallAtK })),
		PrecisionAtK: stat(extract(results, func(r Result) float64 { return r.PrecisionAtK })),
		MRR:          stat(extract(results, func(r Result) float64 { return r.MRR })),
		HitRateAtK:   stat(extract(results, func(r Result) float64 { return r.HitRateAtK })),
	}
}

func extract(results []Result, get func(Result) float64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = get(r)
	}
	return out
}

func stat(values []float64) Stat {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	variance := sq / n

	return Stat{Mean: mean, StdDev: math.Sqrt(variance)}
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
