package mininote

import "strings"

// Weights of the terms combined by NoteScore.
const (
	textWeight     = 0.95
	positionWeight = 0.05
)

// TextRatio measures the similarity of two strings as 2*M/T, where T is the total number of runes in both
// strings and M the number of runes in the blocks they have in common. Blocks are found by taking the longest
// common substring and recursing on both sides of it. The result is in [0, 1]; two empty strings score 1.
func TextRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

// PositionRatio rewards items found at nearby positions of their respective lists. lines is the length of the
// longer list. With lists of at most one line position carries no information and the ratio is 0.
func PositionRatio(a, b, lines int) float64 {
	if lines <= 1 {
		return 0
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return float64(lines-d) / float64(lines)
}

// WordScore is the Dice coefficient of the lower-cased, whitespace separated words of two strings.
func WordScore(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa)+len(wb) == 0 {
		return 1
	}
	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(len(wa)+len(wb))
}

func wordSet(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		words[w] = struct{}{}
	}
	return words
}

// matchingRunes sums the sizes of the matching blocks of a and b.
func matchingRunes(a, b []rune) int {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	type span struct{ alo, ahi, blo, bhi int }
	todo := []span{{0, len(a), 0, len(b)}}
	matched := 0
	for len(todo) > 0 {
		s := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		i, j, k := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			todo = append(todo, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			todo = append(todo, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] within a[alo:ahi] and b[blo:bhi]. Among blocks of
// equal size it prefers the one starting earliest in a, then earliest in b.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}
