package mininote

import "strconv"

// noteItem is what note matching looks at: the text, the creation time, and the position in the list.
type noteItem struct {
	text    string
	created int64
	line    int
}

type matchConfig struct {
	bucketByCreated bool
	textScore       func(a, b string) float64
}

// MatchOption configures MatchNotes.
type MatchOption func(*matchConfig)

// CompareAll lets any note be paired with any other note. By default notes are only paired with notes created
// at the same time, so that editing the date of a note turns it into a new note.
func CompareAll() MatchOption {
	return func(c *matchConfig) {
		c.bucketByCreated = false
	}
}

// ScoreByWords compares note texts by the words they share instead of by the characters they share.
func ScoreByWords() MatchOption {
	return func(c *matchConfig) {
		c.textScore = WordScore
	}
}

// MatchNotes pairs up similar notes from the before and after lists. See Reconcile for the shape of the
// result. Similarity is mostly textual, with a small bonus for notes at nearby positions, so that an edited
// note stays paired with its original when the text alone is ambiguous.
func MatchNotes(before, after []*Note, opts ...MatchOption) []Pair {
	config := matchConfig{
		bucketByCreated: true,
		textScore:       TextRatio,
	}
	for _, opt := range opts {
		opt(&config)
	}

	lines := len(before)
	if len(after) > lines {
		lines = len(after)
	}
	strategy := Strategy[noteItem]{
		Score: func(a, b noteItem) float64 {
			return textWeight*config.textScore(a.text, b.text) + positionWeight*PositionRatio(a.line, b.line, lines)
		},
		Equal: func(a, b noteItem) bool {
			return a.text == b.text
		},
	}
	if config.bucketByCreated {
		strategy.Key = func(item noteItem) string {
			return strconv.FormatInt(item.created, 10)
		}
	}
	return Reconcile(NewMatchIndex(noteItems(before), noteItems(after), strategy))
}

func noteItems(notes []*Note) []noteItem {
	items := make([]noteItem, len(notes))
	for i, note := range notes {
		items[i] = noteItem{text: note.Text, created: note.Created, line: i}
	}
	return items
}
