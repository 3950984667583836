package mininote

import (
	"fmt"
	"sort"
)

// Absent stands for the missing side of a Pair.
const Absent = -1

// Pair correlates an index into the left list with an index into the right list. A pair with an Absent right
// side is a deletion, one with an Absent left side an addition.
type Pair struct {
	Left  int
	Right int
}

func (p Pair) IsAddition() bool {
	return p.Left == Absent && p.Right != Absent
}

func (p Pair) IsDeletion() bool {
	return p.Left != Absent && p.Right == Absent
}

func (p Pair) IsMatch() bool {
	return p.Left != Absent && p.Right != Absent
}

func (p Pair) String() string {
	side := func(i int) string {
		if i == Absent {
			return "-"
		}
		return fmt.Sprint(i)
	}
	return fmt.Sprintf("(%s,%s)", side(p.Left), side(p.Right))
}

// Reconcile pairs up similar left and right items with a stable matching: left items take turns claiming their
// best remaining candidate, and a claimed right item changes hands only to a left item scoring strictly higher
// with it. The displaced left item starts over from its best candidate. Left items that run out of candidates
// stay unmatched.
//
// Every left index and every right index appears in exactly one pair. Pairs are sorted by left index, then
// right index, with Absent lowest, so additions come first.
func Reconcile[T any](m *MatchIndex[T]) []Pair {
	// Right item index to left item index.
	claims := make(map[int]int)

	// Pushed in descending order so that left items are tried in ascending order.
	pending := make([]int, 0, m.LeftCount())
	for i := m.LeftCount() - 1; i >= 0; i-- {
		pending = append(pending, i)
	}

	for len(pending) > 0 {
		i := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		candidates := m.Candidates(i)
		for j, ok := candidates.Next(); ok; j, ok = candidates.Next() {
			holder, claimed := claims[j]
			if !claimed {
				claims[j] = i
				break
			}
			if m.Score(i, j) > m.Score(holder, j) {
				claims[j] = i
				pending = append(pending, holder)
				break
			}
		}
	}

	var pairs []Pair
	matched := make(map[int]bool, len(claims))
	for j, i := range claims {
		pairs = append(pairs, Pair{Left: i, Right: j})
		matched[i] = true
	}
	for j := 0; j < m.RightCount(); j++ {
		if _, ok := claims[j]; !ok {
			pairs = append(pairs, Pair{Left: Absent, Right: j})
		}
	}
	for i := 0; i < m.LeftCount(); i++ {
		if !matched[i] {
			pairs = append(pairs, Pair{Left: i, Right: Absent})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Left != pairs[b].Left {
			return pairs[a].Left < pairs[b].Left
		}
		return pairs[a].Right < pairs[b].Right
	})
	return pairs
}
