package mininote

import (
	"sort"
	"strings"
)

type notePredicate func(*Note) bool

func negate(p notePredicate) notePredicate {
	return func(note *Note) bool {
		return !p(note)
	}
}

// NoteScan searches the client's local copy of the notes. All predicates must hold for a note to match.
type NoteScan struct {
	client     *Client
	predicates []notePredicate
}

// Not negates the last predicate added.  It will panic if no predicates were added.
func (s *NoteScan) Not() *NoteScan {
	i := len(s.predicates) - 1
	s.predicates[i] = negate(s.predicates[i])
	return s
}

func (s *NoteScan) WithIsDeleted(value int) *NoteScan {
	s.predicates = append(s.predicates, func(note *Note) bool {
		return note.IsDeleted == value
	})
	return s
}

func (s *NoteScan) WithNotebook(guid string) *NoteScan {
	s.predicates = append(s.predicates, func(note *Note) bool {
		return note.NotebookGUID == guid
	})
	return s
}

// WithContent looks for notes containing the given substring, case-insensitive.
func (s *NoteScan) WithContent(needle string) *NoteScan {
	needle = strings.ToLower(needle)
	s.predicates = append(s.predicates, func(note *Note) bool {
		return strings.Contains(strings.ToLower(note.Text), needle)
	})
	return s
}

func (s *NoteScan) WithTag(tag string) *NoteScan {
	s.predicates = append(s.predicates, func(note *Note) bool {
		return note.HasTag(tag)
	})
	return s
}

// WithQuery adds one predicate per whitespace separated term of the query: "#tag" looks for a tag, "-term"
// negates term, anything else looks for a substring.
func (s *NoteScan) WithQuery(query string) *NoteScan {
	for _, term := range strings.Fields(query) {
		s.withTerm(term)
	}
	return s
}

func (s *NoteScan) withTerm(term string) {
	switch {
	case len(term) > 1 && term[0] == '-':
		s.withTerm(term[1:])
		s.Not()
	case len(term) > 1 && term[0] == '#':
		s.WithTag(term[1:])
	default:
		s.WithContent(term)
	}
}

// Results returns the matching notes, least recently updated first.
func (s *NoteScan) Results() []*Note {
	var results []*Note
	for _, note := range s.client.data.Notes {
		if s.match(note) {
			results = append(results, note)
		}
	}
	sort.Sort(notesByUpdated(results))
	return results
}

func (s *NoteScan) match(note *Note) bool {
	for _, match := range s.predicates {
		if !match(note) {
			return false
		}
	}
	return true
}

// SearchNotes starts a scan of the notes that are not deleted, within the client's notebook if it has one.
func (c *Client) SearchNotes() *NoteScan {
	s := &NoteScan{
		client: c,
	}
	s.WithIsDeleted(0)
	if c.notebook != "" {
		s.WithNotebook(c.notebook)
	}
	return s
}

// notesByUpdated breaks ties by creation time, then GUID, so results come out in a stable order.
type notesByUpdated []*Note

func (notes notesByUpdated) Len() int {
	return len(notes)
}

func (notes notesByUpdated) Swap(i, j int) {
	notes[i], notes[j] = notes[j], notes[i]
}

func (notes notesByUpdated) Less(i, j int) bool {
	a, b := notes[i], notes[j]
	if a.Updated != b.Updated {
		return a.Updated < b.Updated
	}
	if a.Created != b.Created {
		return a.Created < b.Created
	}
	return a.GUID < b.GUID
}
