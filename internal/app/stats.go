package app

import (
	"time"

	"github.com/cesargomez89/soundhall/internal/constants"
)

// AgeBuckets counts rows by age: [0,12h), [12h,1d), [1d,1w), [1w,3w), [3w,∞).
type AgeBuckets [constants.AgeBucketCount]int

var ageThresholds = [constants.AgeBucketCount - 1]time.Duration{
	constants.AgeBucketHalfDay,
	constants.AgeBucketDay,
	constants.AgeBucketWeek,
	constants.AgeBucketThreeWeeks,
}

// PartitionByAge places each timestamp in exactly one bucket. Intervals are
// half-open, so a row exactly 12h old lands in the second bucket. Timestamps
// in the future count as age zero.
func PartitionByAge(now time.Time, times []time.Time) AgeBuckets {
	var buckets AgeBuckets
	for _, t := range times {
		buckets[bucketFor(now.Sub(t))]++
	}
	return buckets
}

func bucketFor(age time.Duration) int {
	for i, limit := range ageThresholds {
		if age < limit {
			return i
		}
	}
	return len(ageThresholds)
}
