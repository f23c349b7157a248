package order

import (
	"sync"
	"time"
)

// NewIDSource returns an IDSource producing unix-millisecond ids with a
// monotonic bump, so two orders submitted within the same millisecond
// still get distinct ids.
func NewIDSource() IDSource {
	var (
		mu   sync.Mutex
		last int64
	)
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := time.Now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		last = id
		return id
	}
}
