package mininote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	uuid "github.com/nu7hatch/gouuid"
)

// These constants are among the possible values for the type property of a command.
const (
	noteAdd    = "note_add"
	noteUpdate = "note_update"
	noteDelete = "note_delete"
)

type guidContainer struct {
	GUID string `json:"guid"`
}

// command represents a command of the sync API.
type command struct {
	Type string `json:"type"`

	// Needed only when adding notes.
	TempID string `json:"temp_id,omitempty"`

	// Identifies the command for idempotency and to get its response from the response for a batch of commands.
	UUID string `json:"uuid"`

	// A note patch or a guid container.
	Args interface{} `json:"args"`
}

func newCommand(cmdType string, args interface{}) *command {
	u, _ := uuid.NewV4()
	c := &command{Type: cmdType, UUID: u.String(), Args: args}
	if cmdType == noteAdd {
		u, _ := uuid.NewV4()
		c.TempID = u.String()
	}
	return c
}

// NotePatch describes a new note or an update to an existing one.
type NotePatch struct {
	guid  string
	attrs map[string]string
}

// NewNotePatch starts a patch for the note with the given GUID. Pass an empty GUID for a new note.
func NewNotePatch(guid string) *NotePatch {
	var note NotePatch
	note.guid = guid
	note.attrs = make(map[string]string)
	return &note
}

func (note *NotePatch) WithContent(value string) *NotePatch {
	note.attrs["content"] = jsonString(value)
	return note
}

// WithCreated sets the creation time, in Unix seconds. Zero leaves it to the server.
func (note *NotePatch) WithCreated(value int64) *NotePatch {
	if value != 0 {
		note.attrs["created"] = strconv.FormatInt(value, 10)
	}
	return note
}

func (note *NotePatch) WithNotebook(guid string) *NotePatch {
	note.attrs["notebook_guid"] = jsonString(guid)
	return note
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// Empty reports whether the patch has no content.
func (note *NotePatch) Empty() bool {
	v, ok := note.attrs["content"]
	return !ok || v == `""`
}

// MarshalJSON implements json.Marshaler. Attributes are written in a fixed order.
func (note *NotePatch) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	_, _ = fmt.Fprintf(buf, `{"guid":%s`, jsonString(note.guid))
	for _, k := range []string{"content", "created", "notebook_guid"} {
		if v, ok := note.attrs[k]; ok {
			_, _ = fmt.Fprintf(buf, `,%q:%s`, k, v)
		}
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// QueueNoteAdd enqueues the creation of a note, filed in the client's notebook if it has one, and returns the
// temporary id that Push will map to the new note's GUID.
func (c *Client) QueueNoteAdd(note *NotePatch) (temporaryID string) {
	if _, ok := note.attrs["notebook_guid"]; !ok && c.notebook != "" {
		note.WithNotebook(c.notebook)
	}
	add := newCommand(noteAdd, note)
	c.commands = append(c.commands, add)
	return add.TempID
}

func (c *Client) QueueNoteUpdate(note *NotePatch) {
	c.commands = append(c.commands, newCommand(noteUpdate, note))
}

func (c *Client) QueueNoteDelete(guid string) {
	c.commands = append(c.commands, newCommand(noteDelete, guidContainer{GUID: guid}))
}

// Queued returns the number of commands waiting for Push.
func (c *Client) Queued() int {
	return len(c.commands)
}
