package uploads

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type digestEntry struct {
	digest string
	ts     time.Time
}

// DigestCache remembers the content digests of recent uploads so the API
// can flag byte-identical re-uploads. Entries expire after a TTL and the
// cache holds at most capacity digests, dropping the oldest first. The
// flag is advisory: a duplicate upload is still saved.
type DigestCache struct {
	mu       sync.Mutex
	items    map[string]time.Time
	order    []digestEntry
	capacity int
	ttl      time.Duration
}

// NewDigestCache creates a cache with the given capacity and ttl.
func NewDigestCache(capacity int, ttl time.Duration) *DigestCache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DigestCache{
		items:    make(map[string]time.Time, capacity),
		order:    make([]digestEntry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Digest returns the hex digest of an upload's content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Seen reports whether the digest was recorded inside the ttl window and
// records it either way, so the first upload of some content primes the
// cache for the next one.
func (c *DigestCache) Seen(digest string) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	ts, seen := c.items[digest]
	seen = seen && now.Sub(ts) <= c.ttl

	c.items[digest] = now
	c.order = append(c.order, digestEntry{digest: digest, ts: now})
	c.compact(now)

	return seen
}

func (c *DigestCache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if ts, ok := c.items[oldest.digest]; ok && ts == oldest.ts {
			delete(c.items, oldest.digest)
		}
	}
}
