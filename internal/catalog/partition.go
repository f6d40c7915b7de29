// Package catalog splits the item id space into fixed-size ranges for the catalog browser.
package catalog

import (
	"github.com/ilibrarian/librarian/internal/platform/pagination"
)

// DefaultBucketSize is the id range covered by a single catalog page.
const DefaultBucketSize = 100

// Bucket is an inclusive id range.
type Bucket struct {
	StartID int
	EndID   int
}

// Contains reports whether id falls inside the bucket.
func (b Bucket) Contains(id int) bool {
	return id >= b.StartID && id <= b.EndID
}

// Partition splits [1, maxID] into buckets of bucketSize ids, newest range first.
// The final range is truncated at maxID. A maxID of zero yields no buckets.
func Partition(maxID, bucketSize int) ([]Bucket, error) {
	if bucketSize <= 0 {
		return nil, pagination.NewConfigurationError("bucketSize", bucketSize, "must be greater than zero")
	}
	if maxID < 0 {
		return nil, pagination.NewValidationError("maxID", maxID, "must not be negative")
	}
	if maxID == 0 {
		return []Bucket{}, nil
	}

	count := (maxID-1)/bucketSize + 1
	buckets := make([]Bucket, 0, count)
	for i := count - 1; i >= 0; i-- {
		start := i*bucketSize + 1
		end := maxID
		if bucketSize-1 < maxID-start {
			end = start + bucketSize - 1
		}
		buckets = append(buckets, Bucket{StartID: start, EndID: end})
	}
	return buckets, nil
}

// Locate returns the bucket containing fromID. When fromID is zero or outside
// every bucket the newest bucket is returned; ok is false only when buckets is empty.
func Locate(buckets []Bucket, fromID int) (Bucket, bool) {
	if len(buckets) == 0 {
		return Bucket{}, false
	}
	if fromID > 0 {
		for _, b := range buckets {
			if b.Contains(fromID) {
				return b, true
			}
		}
	}
	return buckets[0], true
}
