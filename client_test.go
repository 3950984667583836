package mininote_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/adship/mininote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	Type   string                 `json:"type"`
	TempID string                 `json:"temp_id"`
	UUID   string                 `json:"uuid"`
	Args   map[string]interface{} `json:"args"`
}

// fakeSync is an in-memory sync API. Pulls always return every note.
type fakeSync struct {
	mu       sync.Mutex
	notes    map[string]*mininote.Note
	pushed   []fakeCommand
	pulls    int
	tokens   []string
	failWith int
	nextGUID int
}

func newFakeSync(t *testing.T, notes ...*mininote.Note) (*fakeSync, *httptest.Server) {
	f := &fakeSync{notes: make(map[string]*mininote.Note)}
	for _, note := range notes {
		f.notes[note.GUID] = note
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeSync) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != 0 {
		http.Error(w, "try again later", f.failWith)
		return
	}
	f.tokens = append(f.tokens, r.PostFormValue("token"))
	if commands := r.PostFormValue("commands"); commands != "" {
		var batch []fakeCommand
		if err := json.Unmarshal([]byte(commands), &batch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status := make(map[string]interface{})
		mapping := make(map[string]string)
		for _, c := range batch {
			f.pushed = append(f.pushed, c)
			status[c.UUID] = f.apply(c, mapping)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sync_status":     status,
			"temp_id_mapping": mapping,
		})
		return
	}
	f.pulls++
	var notes []*mininote.Note
	for _, note := range f.notes {
		notes = append(notes, note)
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"sync_token": fmt.Sprintf("sync-%d", f.pulls),
		"notes":      notes,
	})
}

func (f *fakeSync) apply(c fakeCommand, mapping map[string]string) interface{} {
	guid, _ := c.Args["guid"].(string)
	switch c.Type {
	case "note_add":
		f.nextGUID++
		guid = fmt.Sprintf("new-%d", f.nextGUID)
		mapping[c.TempID] = guid
		note := &mininote.Note{GUID: guid}
		f.notes[guid] = note
		f.patch(note, c.Args)
		return "ok"
	case "note_update":
		note, ok := f.notes[guid]
		if !ok {
			return map[string]interface{}{"error": "not found"}
		}
		f.patch(note, c.Args)
		return "ok"
	case "note_delete":
		note, ok := f.notes[guid]
		if !ok {
			return map[string]interface{}{"error": "not found"}
		}
		note.IsDeleted = 1
		return "ok"
	}
	return map[string]interface{}{"error": "unknown command"}
}

func (f *fakeSync) patch(note *mininote.Note, args map[string]interface{}) {
	if v, ok := args["content"].(string); ok {
		note.Text = v
	}
	if v, ok := args["created"].(float64); ok {
		note.Created = int64(v)
	}
	if v, ok := args["notebook_guid"].(string); ok {
		note.NotebookGUID = v
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...mininote.ClientOption) *mininote.Client {
	opts = append([]mininote.ClientOption{
		mininote.WithEndpoint(srv.URL),
		mininote.WithStateDir(t.TempDir()),
	}, opts...)
	client, err := mininote.NewClient("secret", opts...)
	require.Nil(t, err)
	return client
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := mininote.NewClient("secret", mininote.WithStateDir(t.TempDir()))
	assert.NotNil(t, err)
}

func TestPull(t *testing.T) {
	f, srv := newFakeSync(t,
		&mininote.Note{GUID: "g1", Text: "one"},
		&mininote.Note{GUID: "", Text: "no guid"},
	)
	client := newTestClient(t, srv)
	require.Nil(t, client.Pull())
	note, ok := client.NoteByGUID("g1")
	require.True(t, ok)
	assert.Equal(t, "one", note.Text)
	_, ok = client.NoteByGUID("")
	assert.False(t, ok)
	assert.Equal(t, []string{"secret"}, f.tokens)

	// Too soon, nothing was pushed in the meantime.
	require.Nil(t, client.Pull())
	assert.Equal(t, 1, f.pulls)
}

func TestPullStatusCode(t *testing.T) {
	f, srv := newFakeSync(t)
	f.failWith = http.StatusServiceUnavailable
	client := newTestClient(t, srv)
	err := client.Pull()
	assert.ErrorIs(t, err, mininote.ErrStatusCode)
	assert.Contains(t, err.Error(), "try again later")
}

func TestPushEmptyQueue(t *testing.T) {
	f, srv := newFakeSync(t)
	client := newTestClient(t, srv)
	require.Nil(t, client.Push())
	assert.Empty(t, f.tokens)
}

func TestPushAndPull(t *testing.T) {
	f, srv := newFakeSync(t, &mininote.Note{GUID: "g1", Text: "one", Created: 10})
	client := newTestClient(t, srv, mininote.WithNotebook("nb"))
	require.Nil(t, client.Pull())

	tid := client.QueueNoteAdd(mininote.NewNotePatch("").WithContent("two #tag").WithCreated(20))
	client.QueueNoteUpdate(mininote.NewNotePatch("g1").WithContent("one, edited"))
	assert.Equal(t, 2, client.Queued())
	require.Nil(t, client.Push())
	assert.Equal(t, 0, client.Queued())

	guid, ok := client.PermanentGUID(tid)
	require.True(t, ok)
	assert.Equal(t, "new-1", guid)
	require.Len(t, f.pushed, 2)
	assert.Equal(t, "note_add", f.pushed[0].Type)
	assert.Equal(t, tid, f.pushed[0].TempID)
	assert.Equal(t, "nb", f.pushed[0].Args["notebook_guid"])
	assert.Equal(t, "note_update", f.pushed[1].Type)
	assert.NotEqual(t, f.pushed[0].UUID, f.pushed[1].UUID)

	// Pushing makes the next pull go through.
	require.Nil(t, client.Pull())
	assert.Equal(t, 2, f.pulls)
	note, ok := client.NoteByGUID(guid)
	require.True(t, ok)
	assert.Equal(t, "two #tag", note.Text)
	assert.Equal(t, int64(20), note.Created)
	note, _ = client.NoteByGUID("g1")
	assert.Equal(t, "one, edited", note.Text)
}

func TestPushCommandError(t *testing.T) {
	_, srv := newFakeSync(t)
	client := newTestClient(t, srv)
	client.QueueNoteDelete("missing")
	err := client.Push()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, 1, client.Queued())
}

func TestLoadDump(t *testing.T) {
	_, srv := newFakeSync(t, &mininote.Note{GUID: "g1", Text: "one"})
	dir := t.TempDir()
	client := newTestClient(t, srv, mininote.WithStateDir(dir))
	require.Nil(t, client.Pull())
	require.Nil(t, client.Dump())

	loaded := newTestClient(t, srv, mininote.WithStateDir(dir))
	require.Nil(t, loaded.Load())
	note, ok := loaded.NoteByGUID("g1")
	require.True(t, ok)
	assert.Equal(t, "one", note.Text)

	data := filepath.Join(dir, "state.data")
	b, err := os.ReadFile(data)
	require.Nil(t, err)
	b[len(b)/2] ^= 1
	require.Nil(t, os.WriteFile(data, b, 0600))
	assert.ErrorIs(t, loaded.Load(), mininote.ErrCorrupted)
}

func TestLoadMissingState(t *testing.T) {
	_, srv := newFakeSync(t)
	client := newTestClient(t, srv)
	assert.ErrorIs(t, client.Load(), os.ErrNotExist)
}
