// The mininote package contains a client for a notes sync API and the machinery behind the mn command's bulk
// edit: notes are rendered one per line, "<created>: <text>", edited by the user in a text editor, parsed back,
// and the before and after lists are matched to find out which notes were added, deleted or changed.
//
// Matching (MatchNotes, and the generic MatchIndex and Reconcile underneath it) is a stable matching: each note
// from the before list claims the most similar note of the after list that isn't held by a note scoring higher
// with it. Similarity is a character-based text ratio plus a small bonus for nearby positions. By default notes
// are only compared with notes created at the same time. The result pairs indices, with Absent standing for
// "no counterpart", which the caller turns into add, update and delete commands (see PlanEdits and
// QueueEdits).
//
// The client keeps a local copy of the notes and all search operations scan through it. Only Push and Pull
// make remote calls. The former sends the commands that were previously enqueued by the client, in bulk, while
// the latter fetches all changes that happened since the previous time it was called (the first time, it will
// download all the data).
package mininote // import "github.com/adship/mininote"
