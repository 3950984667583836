package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/adship/mininote"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Faint(true)
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	countStyle  = lipgloss.NewStyle().Faint(true)
)

func printNotes(w io.Writer, notes []*mininote.Note) {
	for _, note := range notes {
		date := note.CreatedTime().Local().Format(mininote.TimeLayout)
		_, _ = fmt.Fprintf(w, "%s: %s\n", dateStyle.Render(date), highlightTags(note.Text))
	}
}

// highlightTags styles the words starting with '#'. White space is normalized.
func highlightTags(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if len(word) > 1 && word[0] == '#' {
			words[i] = tagStyle.Render(word)
		}
	}
	return strings.Join(words, " ")
}

func printTagCounts(w io.Writer, notes []*mininote.Note) {
	counts := make(map[string]int)
	for _, note := range notes {
		for _, tag := range note.Tags() {
			counts[tag]++
		}
	}
	if len(counts) == 0 {
		return
	}
	tags := make(tagsByCount, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, tagCount{tag: tag, count: n})
	}
	sort.Sort(tags)
	_, _ = fmt.Fprintln(w)
	for _, tc := range tags {
		_, _ = fmt.Fprintf(w, "%s %s\n", tagStyle.Render("#"+tc.tag), countStyle.Render(fmt.Sprint(tc.count)))
	}
}
