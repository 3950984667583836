package mininote

import "fmt"

// EditPlan is what a bulk edit of notes boils down to.
type EditPlan struct {
	// New notes, with text and creation time from the edited lines.
	Added []*Note

	// Copies of existing notes (same GUID) carrying the edited text.
	Updated []*Note

	// Existing notes whose lines were removed.
	Deleted []*Note
}

// Empty reports whether the plan has nothing to do.
func (plan *EditPlan) Empty() bool {
	return len(plan.Added) == 0 && len(plan.Updated) == 0 && len(plan.Deleted) == 0
}

// PlanEdits works out how the notes rendered by RenderNotes(before) were changed into edited. If any non-blank
// line of edited can't be parsed, an error wrapping ErrNoteParse is returned and nothing should be applied.
// Notes are compared as they were rendered, so a note that was left alone is never updated, even if rendering
// flattened its line breaks.
func PlanEdits(before []*Note, edited string, opts ...MatchOption) (*EditPlan, error) {
	after, err := ParseNotes(edited)
	if err != nil {
		return nil, fmt.Errorf("plan edits: %w", err)
	}
	shown := make([]*Note, len(before))
	for i, note := range before {
		flat := *note
		flat.Text = flatten(note.Text)
		if reparsed, err := ParseNote(flat.String()); err == nil {
			shown[i] = reparsed
		} else {
			shown[i] = &flat
		}
	}

	plan := new(EditPlan)
	for _, p := range MatchNotes(shown, after, opts...) {
		switch {
		case p.IsAddition():
			plan.Added = append(plan.Added, after[p.Right])
		case p.IsDeletion():
			plan.Deleted = append(plan.Deleted, before[p.Left])
		case after[p.Right].Text != shown[p.Left].Text:
			updated := *before[p.Left]
			updated.Text = after[p.Right].Text
			plan.Updated = append(plan.Updated, &updated)
		}
	}
	return plan, nil
}

// QueueEdits enqueues the commands carrying out the plan. Call Push to send them.
func (c *Client) QueueEdits(plan *EditPlan) {
	for _, note := range plan.Added {
		c.QueueNoteAdd(NewNotePatch("").WithContent(note.Text).WithCreated(note.Created))
	}
	for _, note := range plan.Updated {
		c.QueueNoteUpdate(NewNotePatch(note.GUID).WithContent(note.Text))
	}
	for _, note := range plan.Deleted {
		c.QueueNoteDelete(note.GUID)
	}
}
