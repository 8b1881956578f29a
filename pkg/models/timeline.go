package models

import "time"

// Bucket is a fixed-width time interval with aggregated per-severity counts.
// A bucket covers [IntervalStart, IntervalStart+width); empty buckets carry
// zero counts so a bucket sequence is always contiguous and equally spaced.
type Bucket struct {
	IntervalStart  time.Time      `json:"interval_start"`
	Total          int            `json:"total"`
	SeverityCounts map[string]int `json:"severity_counts"`
}

// Timeline is the output of the binner for one (input, width) pair. Width is
// the width the result is keyed under; BucketWidth is the spacing actually
// between buckets, which is coarser when the bucket list had to be strided
// down to the point budget.
type Timeline struct {
	Fingerprint string        `json:"fingerprint"`
	Width       time.Duration `json:"width"`
	BucketWidth time.Duration `json:"bucket_width"`
	Buckets     []Bucket      `json:"buckets"`
	// Sampled reports that stride sampling was applied; bucket totals are
	// then undercounts of the true activity, not estimates.
	Sampled      bool `json:"sampled"`
	SampledCount int  `json:"sampled_count,omitempty"`
}
