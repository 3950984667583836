package mininote_test

import (
	"strings"
	"testing"
	"time"

	"github.com/adship/mininote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editFixture() []*mininote.Note {
	t0 := time.Date(2022, 1, 2, 9, 0, 0, 0, time.Local).Unix()
	return []*mininote.Note{
		{GUID: "g1", Text: "buy milk #shopping", Created: t0, Updated: t0},
		{GUID: "g2", Text: "two\nlines #work", Created: t0 + 60, Updated: t0 + 60},
		{GUID: "g3", Text: "call bob #work", Created: t0 + 120, Updated: t0 + 120},
	}
}

func TestPlanEditsUnchanged(t *testing.T) {
	before := editFixture()
	plan, err := mininote.PlanEdits(before, mininote.RenderNotes(before))
	require.Nil(t, err)
	assert.True(t, plan.Empty())
}

func TestPlanEdits(t *testing.T) {
	before := editFixture()
	lines := strings.Split(mininote.RenderNotes(before), "\n")
	lines[0] = strings.Replace(lines[0], "milk", "oat milk", 1)
	lines = lines[:2]
	lines = append(lines, "", "01/03/2022 10:15:00 AM: new note #work")
	plan, err := mininote.PlanEdits(before, strings.Join(lines, "\n"))
	require.Nil(t, err)

	require.Len(t, plan.Updated, 1)
	assert.Equal(t, "g1", plan.Updated[0].GUID)
	assert.Equal(t, "buy oat milk #shopping", plan.Updated[0].Text)
	assert.Equal(t, before[0].Created, plan.Updated[0].Created)
	assert.Equal(t, "buy milk #shopping", before[0].Text)

	require.Len(t, plan.Deleted, 1)
	assert.Equal(t, "g3", plan.Deleted[0].GUID)

	require.Len(t, plan.Added, 1)
	assert.Equal(t, "new note #work", plan.Added[0].Text)
	assert.Equal(t, time.Date(2022, 1, 3, 10, 15, 0, 0, time.Local).Unix(), plan.Added[0].Created)
	assert.Empty(t, plan.Added[0].GUID)
}

func TestPlanEditsChangedDate(t *testing.T) {
	before := editFixture()[:1]
	edited := "01/05/2022 09:00:00 AM: buy milk #shopping"
	plan, err := mininote.PlanEdits(before, edited)
	require.Nil(t, err)
	assert.Empty(t, plan.Updated)
	require.Len(t, plan.Deleted, 1)
	require.Len(t, plan.Added, 1)
	assert.Equal(t, "g1", plan.Deleted[0].GUID)
}

func TestPlanEditsParseError(t *testing.T) {
	before := editFixture()
	edited := mininote.RenderNotes(before) + "\nthis line has no date"
	plan, err := mininote.PlanEdits(before, edited)
	assert.ErrorIs(t, err, mininote.ErrNoteParse)
	assert.Nil(t, plan)
}

func TestQueueEdits(t *testing.T) {
	before := editFixture()
	f, srv := newFakeSync(t, before...)
	client := newTestClient(t, srv)
	require.Nil(t, client.Pull())

	notes := client.SearchNotes().WithQuery("#work").Results()
	require.Len(t, notes, 2)
	lines := strings.Split(mininote.RenderNotes(notes), "\n")
	edited := strings.Join([]string{
		"01/03/2022 10:15:00 AM: new note #work",
		strings.Replace(lines[1], "bob", "alice", 1),
	}, "\n")
	plan, err := mininote.PlanEdits(notes, edited)
	require.Nil(t, err)
	client.QueueEdits(plan)
	require.Nil(t, client.Push())

	require.Len(t, f.pushed, 3)
	assert.Equal(t, "note_add", f.pushed[0].Type)
	assert.Equal(t, "new note #work", f.pushed[0].Args["content"])
	assert.Equal(t, "note_update", f.pushed[1].Type)
	assert.Equal(t, "g3", f.pushed[1].Args["guid"])
	assert.Equal(t, "call alice #work", f.pushed[1].Args["content"])
	assert.Equal(t, "note_delete", f.pushed[2].Type)
	assert.Equal(t, "g2", f.pushed[2].Args["guid"])

	require.Nil(t, client.Pull())
	var texts []string
	for _, note := range client.SearchNotes().WithQuery("#work").Results() {
		texts = append(texts, note.Text)
	}
	assert.ElementsMatch(t, []string{"call alice #work", "new note #work"}, texts)
}

func TestPlanEditsTrailingSpaceStripped(t *testing.T) {
	before := editFixture()
	before[1].Text = ""
	lines := strings.Split(mininote.RenderNotes(before), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	plan, err := mininote.PlanEdits(before, strings.Join(lines, "\n"))
	require.Nil(t, err)
	assert.True(t, plan.Empty())
}
