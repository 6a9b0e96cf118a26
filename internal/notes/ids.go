package notes

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues note ids from the wall clock in Unix milliseconds.
// Values are strictly increasing for the life of the generator.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id. taken reports whether a candidate is already in use;
// such candidates are skipped.
func (g *IDGenerator) Next(taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	id := strconv.FormatInt(n, 10)
	for taken != nil && taken(id) {
		n++
		id = strconv.FormatInt(n, 10)
	}
	g.last = n
	return id
}
