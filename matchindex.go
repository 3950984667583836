package mininote

import "sort"

// Strategy tells a MatchIndex how to compare a left item with a right item.
type Strategy[T any] struct {
	// Score returns a value proportional to the similarity of two items. Required.
	Score func(left, right T) float64

	// Key, if set, buckets items: a left item is only ever compared with right items having the same key.
	// A nil Key puts everything in one bucket.
	Key func(T) string

	// Equal, if set, enables the exact match fast path: a right item equal to the left item within a small window
	// around the left item's position is offered before any other candidate.
	Equal func(left, right T) bool
}

// MatchIndex ranks, for each left item, the right items by decreasing similarity. Rankings are computed on
// first use and cached, so a MatchIndex belongs to a single reconciliation and must not be shared.
type MatchIndex[T any] struct {
	left     []T
	right    []T
	strategy Strategy[T]

	// Right item indices by key. Nil when the strategy has no key.
	buckets map[string][]int

	// Left item index to right item indices, best first.
	ranked map[int][]int

	// Left item index to the index of its exact match in the window, or Absent.
	exact map[int]int
}

func NewMatchIndex[T any](left, right []T, strategy Strategy[T]) *MatchIndex[T] {
	m := &MatchIndex[T]{
		left:     left,
		right:    right,
		strategy: strategy,
		ranked:   make(map[int][]int),
		exact:    make(map[int]int),
	}
	if strategy.Key != nil {
		m.buckets = make(map[string][]int)
		for j, item := range right {
			k := strategy.Key(item)
			m.buckets[k] = append(m.buckets[k], j)
		}
	}
	return m
}

func (m *MatchIndex[T]) LeftCount() int {
	return len(m.left)
}

func (m *MatchIndex[T]) RightCount() int {
	return len(m.right)
}

// Score compares the left item at index i with the right item at index j.
func (m *MatchIndex[T]) Score(i, j int) float64 {
	return m.strategy.Score(m.left[i], m.right[j])
}

// Candidates returns a cursor over the right item indices that may be paired with the left item at index i,
// most similar first. Each call starts from the most similar candidate again. An exact match is returned first
// without scoring anything; the other candidates are only scored if the cursor is advanced past it.
func (m *MatchIndex[T]) Candidates(i int) *Cursor {
	if order, ok := m.ranked[i]; ok {
		return &Cursor{order: order}
	}
	rest := func() []int {
		return m.ranking(i)
	}
	if j := m.exactMatch(i); j != Absent {
		return &Cursor{order: []int{j}, rest: rest}
	}
	return &Cursor{order: rest()}
}

// ranking returns the full, cached order of candidates for the left item at index i.
func (m *MatchIndex[T]) ranking(i int) []int {
	order, ok := m.ranked[i]
	if !ok {
		order = m.rank(i)
		m.ranked[i] = order
	}
	return order
}

func (m *MatchIndex[T]) rank(i int) []int {
	exact := m.exactMatch(i)
	found := exact != Absent
	candidates := m.bucket(i)
	scores := make(map[int]float64, len(candidates))
	order := make([]int, 0, len(candidates))
	for _, j := range candidates {
		if found && j == exact {
			continue
		}
		scores[j] = m.Score(i, j)
		order = append(order, j)
	}
	// Candidates are in ascending index order, the stable sort keeps it among equal scores.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if found {
		order = append([]int{exact}, order...)
	}
	return order
}

// bucket returns, in ascending order, the indices of the right items the left item at index i may be
// compared with.
func (m *MatchIndex[T]) bucket(i int) []int {
	if m.buckets != nil {
		return m.buckets[m.strategy.Key(m.left[i])]
	}
	all := make([]int, len(m.right))
	for j := range all {
		all[j] = j
	}
	return all
}

// exactMatch returns the index of a right item equal to the left item at index i, or Absent. Only positions
// within the difference in length of the two lists are searched.
func (m *MatchIndex[T]) exactMatch(i int) int {
	if j, ok := m.exact[i]; ok {
		return j
	}
	j := m.findExact(i)
	m.exact[i] = j
	return j
}

func (m *MatchIndex[T]) findExact(i int) int {
	if m.strategy.Equal == nil {
		return Absent
	}
	delta := len(m.left) - len(m.right)
	if delta < 0 {
		delta = -delta
	}
	item := m.left[i]
	for j := i - delta; j <= i+delta; j++ {
		if j < 0 || j >= len(m.right) {
			continue
		}
		if m.buckets != nil && m.strategy.Key(item) != m.strategy.Key(m.right[j]) {
			continue
		}
		if m.strategy.Equal(item, m.right[j]) {
			return j
		}
	}
	return Absent
}

// Cursor walks a ranking of right item indices.
type Cursor struct {
	order []int
	pos   int

	// If set, computes the full ranking once order is exhausted. The full ranking starts with order.
	rest func() []int
}

func (c *Cursor) expand() {
	if c.rest != nil {
		c.order = c.rest()
		c.rest = nil
	}
}

// Next returns the next candidate, or false once all candidates have been returned.
func (c *Cursor) Next() (int, bool) {
	if c.pos >= len(c.order) {
		c.expand()
	}
	if c.pos >= len(c.order) {
		return 0, false
	}
	j := c.order[c.pos]
	c.pos++
	return j, true
}

// Len returns the total number of candidates, consumed or not. It ranks all candidates if needed.
func (c *Cursor) Len() int {
	c.expand()
	return len(c.order)
}
