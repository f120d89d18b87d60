package seq

import "sync"

// A ScanPoint is one set of experiment parameters supplied by the host, as a
// mapping from parameter name to numeric value. A point is bound into the
// parameter table exactly once and then discarded.
type ScanPoint map[string]float64

// Clone returns an independent copy of the point.
func (p ScanPoint) Clone() ScanPoint {
	c := make(ScanPoint, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// A Feed supplies scan points to the interpreter, one at a time, in the order
// they were enqueued. HasNext never blocks; Next may only be called after
// HasNext returned true.
type Feed interface {
	HasNext() bool
	Next() ScanPoint
}

// A PointQueue is a Feed that a host process may fill concurrently while the
// engine drains it. It is safe for one producer and one consumer.
type PointQueue struct {
	mu     sync.Mutex
	points []ScanPoint
}

// NewPointQueue creates an empty point queue.
func NewPointQueue() *PointQueue {
	return &PointQueue{}
}

// Push enqueues one scan point.
func (q *PointQueue) Push(p ScanPoint) {
	q.mu.Lock()
	q.points = append(q.points, p.Clone())
	q.mu.Unlock()
}

// Len returns the number of points waiting in the queue.
func (q *PointQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.points)
}

// HasNext reports whether a point is waiting.
func (q *PointQueue) HasNext() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.points) > 0
}

// Next dequeues the next point.
func (q *PointQueue) Next() ScanPoint {
	q.mu.Lock()
	defer q.mu.Unlock()

	p := q.points[0]
	q.points = q.points[1:]

	return p
}
