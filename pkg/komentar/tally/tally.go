// Package tally counts string labels while remembering the order in which
// each label was first seen, so rankings never depend on map iteration.
package tally

import "sort"

// Count is one label with its frequency.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Counter accumulates label frequencies in first-seen order.
type Counter struct {
	index map[string]int
	items []Count
}

// New creates an empty counter.
func New() *Counter {
	return &Counter{index: make(map[string]int)}
}

// Add increments label by one.
func (c *Counter) Add(label string) {
	c.AddN(label, 1)
}

// AddN increments label by n.
func (c *Counter) AddN(label string, n int) {
	if i, ok := c.index[label]; ok {
		c.items[i].Count += n
		return
	}
	c.index[label] = len(c.items)
	c.items = append(c.items, Count{Label: label, Count: n})
}

// Get returns the current count of label.
func (c *Counter) Get(label string) int {
	if i, ok := c.index[label]; ok {
		return c.items[i].Count
	}
	return 0
}

// Len returns the number of distinct labels.
func (c *Counter) Len() int {
	return len(c.items)
}

// Top returns up to n labels sorted by descending count. Ties keep
// first-seen order. n <= 0 returns every label.
func (c *Counter) Top(n int) []Count {
	out := make([]Count, len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Max returns the label with the highest count, preferring the earliest
// seen on ties. ok is false when the counter is empty.
func (c *Counter) Max() (best Count, ok bool) {
	for _, item := range c.items {
		if !ok || item.Count > best.Count {
			best = item
			ok = true
		}
	}
	return best, ok
}
