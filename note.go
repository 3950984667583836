package mininote

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLayout is the layout used to render a note's creation time in a display line. It has second resolution,
// so a note survives a render and parse round trip with its creation time intact.
const TimeLayout = "01/02/2006 03:04:05 PM"

// separator splits the date from the text in a display line. Only the first occurrence counts.
const separator = ": "

// ErrNoteParse is returned when a display line can't be turned back into a note.
var ErrNoteParse = errors.New("unable to parse note")

// A tag starts at the beginning of the text or after whitespace. Dashes are allowed inside a tag, not at its end.
var tagRe = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_-]*[\p{L}\p{N}_])`)

// Note holds the attributes of a note as the sync API returns them. Treat as read-only, use NotePatch for
// add/update commands.
type Note struct {
	GUID         string `json:"guid"`
	NotebookGUID string `json:"notebook_guid"`
	Text         string `json:"content"`
	IsDeleted    int    `json:"is_deleted"`

	// Unix times in seconds. Zero means unset.
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
}

// CreatedTime returns the creation time in the local time zone, or the zero time if unset.
func (note *Note) CreatedTime() time.Time {
	if note.Created == 0 {
		return time.Time{}
	}
	return time.Unix(note.Created, 0)
}

func (note *Note) UpdatedTime() time.Time {
	if note.Updated == 0 {
		return time.Time{}
	}
	return time.Unix(note.Updated, 0)
}

// Tags scans the text for hashtags and returns them lower-cased, de-duplicated and sorted. Tags are not stored,
// so changing the text changes the tags.
func (note *Note) Tags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, m := range tagRe.FindAllStringSubmatch(note.Text, -1) {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// HasTag reports whether the note carries the given tag, ignoring case and a leading '#'.
func (note *Note) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
	for _, t := range note.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// String renders the note as a display line, "<created>: <text>", with the creation time in local time.
func (note *Note) String() string {
	return note.CreatedTime().Local().Format(TimeLayout) + separator + note.Text
}

// ParseNote is the inverse of Note.String. The date is everything up to the first ": ", the text is everything
// after it, verbatim. A line ending in ":" with no ": " before it is a note with empty text. Dates in TimeLayout
// are parsed exactly, other common layouts are tried as a fallback. The returned note only has the text and the
// creation time set.
func ParseNote(line string) (*Note, error) {
	var date, text string
	if i := strings.Index(line, separator); i >= 0 {
		date, text = line[:i], line[i+len(separator):]
	} else if strings.HasSuffix(line, ":") {
		// A note with empty text, whose trailing space an editor removed.
		date = line[:len(line)-1]
	} else {
		return nil, fmt.Errorf("%q: missing %q: %w", line, separator, ErrNoteParse)
	}
	date = strings.TrimSpace(date)
	t, err := time.ParseInLocation(TimeLayout, date, time.Local)
	if err != nil {
		t, err = dateparse.ParseLocal(date)
		if err != nil {
			return nil, fmt.Errorf("%q: date %q: %v: %w", line, date, err, ErrNoteParse)
		}
	}
	return &Note{Text: text, Created: t.Unix()}, nil
}

// RenderNotes renders one display line per note. Line breaks within a note's text are flattened to spaces so
// that each note stays on its own line.
func RenderNotes(notes []*Note) string {
	var buf bytes.Buffer
	for i, note := range notes {
		if i > 0 {
			buf.WriteByte('\n')
		}
		flat := *note
		flat.Text = flatten(note.Text)
		buf.WriteString(flat.String())
	}
	return buf.String()
}

// ParseNotes parses every non-blank line. It fails on the first line that doesn't parse.
func ParseNotes(text string) ([]*Note, error) {
	var notes []*Note
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		note, err := ParseNote(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func flatten(text string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
}
