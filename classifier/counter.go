package classifier

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Counter keeps the running count of every category of a classifier plus
// the aggregate total.
type Counter struct {
	counts *orderedmap.OrderedMap[Category, int]
	total  int
}

// Entry is the count of one category at a point in time.
type Entry struct {
	Category Category
	Count    int
	Percent  int
}

// NewCounter returns a zeroed counter over the categories of c.
func NewCounter(c *Classifier) *Counter {
	counter := &Counter{counts: orderedmap.New[Category, int]()}
	for _, cat := range c.Categories() {
		counter.counts.Set(cat, 0)
	}
	return counter
}

// Add increments cat and the total. Unknown categories are ignored.
func (c *Counter) Add(cat Category) bool {
	n, ok := c.counts.Get(cat)
	if !ok {
		return false
	}
	c.counts.Set(cat, n+1)
	c.total++
	return true
}

// Count returns the count of cat.
func (c *Counter) Count(cat Category) int {
	n, _ := c.counts.Get(cat)
	return n
}

// Total returns the number of instructions counted.
func (c *Counter) Total() int {
	return c.total
}

// Percent returns the share of cat in the total, floored.
func (c *Counter) Percent(cat Category) int {
	return Percent(c.Count(cat), c.total)
}

// Entries lists every category in display order.
func (c *Counter) Entries() []Entry {
	entries := make([]Entry, 0, c.counts.Len())
	for pair := c.counts.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{
			Category: pair.Key,
			Count:    pair.Value,
			Percent:  Percent(pair.Value, c.total),
		})
	}
	return entries
}

// Reset zeroes every category and the total.
func (c *Counter) Reset() {
	for pair := c.counts.Oldest(); pair != nil; pair = pair.Next() {
		c.counts.Set(pair.Key, 0)
	}
	c.total = 0
}

// Percent returns count*100/total using integer division, 0 when total is 0.
func Percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return count * 100 / total
}
