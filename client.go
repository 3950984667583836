package mininote

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"
)

// ErrCorrupted can be returned by Load.
var ErrCorrupted = errors.New("local data is corrupted")

// ClientOption configures a client built with NewClient.
type ClientOption func(*Client) error

// WithEndpoint sets the sync API endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) error {
		c.endpoint = endpoint
		return nil
	}
}

// WithWireLog is a client option to be passed to NewClient in order to log all requests and responses to the
// specified log file. Useful for debugging the client itself, shouldn't be needed in normal operation.
func WithWireLog(pathname string) ClientOption {
	return func(c *Client) error {
		f, err := os.OpenFile(pathname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err == nil {
			c.wlog = f
		}
		return err
	}
}

// WithStateDir sets the directory where Load and Dump keep the local copy of the notes. It defaults to
// .mininote in the user's home directory.
func WithStateDir(dir string) ClientOption {
	return func(c *Client) error {
		c.stateDir = dir
		return nil
	}
}

// WithNotebook restricts searches to the given notebook and files new notes in it.
func WithNotebook(guid string) ClientOption {
	return func(c *Client) error {
		c.notebook = guid
		return nil
	}
}

// clientData is quite similar to pull response, only it maintains a map instead of a slice.
// This is what the client will persist (Dump, Load).
type clientData struct {
	// This token is used for synchronization. It correlates one sync API call with the next. We will only receive
	// notes that have changed since the previous time (according to this token) we have called the sync API.
	SyncToken string `json:"sync_token"`

	Notes map[string]*Note `json:"notes"`
}

// Client is a client for the notes sync API. It keeps a local copy of the notes, refreshed by Pull, and a queue
// of commands, sent by Push.
type Client struct {
	endpoint string

	// The secret token to authenticate and authorize API calls.
	token string

	// If non-empty, searches are restricted to this notebook and new notes are filed in it.
	notebook string

	// Where Load and Dump keep state.
	stateDir string

	// If non-nil, log all requests and responses to this file, one per line, in JSON format.
	wlog io.Writer

	// Represents our cached contents.
	data *clientData

	// Temporary id (client-generated UUID) to permanent GUID (server-generated).
	t2p map[string]string

	// Commands, such as changing a note's content, are queued here and flushed when the Push() method is called.
	commands []*command

	lastPulled time.Time
}

// NewClient creates a new client authenticated and authorized by the given token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	var data clientData
	data.SyncToken = "*"
	data.Notes = make(map[string]*Note)
	c := &Client{
		token: token,
		data:  &data,
		t2p:   make(map[string]string),
		wlog:  io.Discard,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.endpoint == "" {
		return nil, errors.New("no sync endpoint")
	}
	if c.stateDir == "" {
		u, err := user.Current()
		if err != nil {
			return nil, err
		}
		c.stateDir = filepath.Join(u.HomeDir, ".mininote")
	}
	return c, nil
}

func (c *Client) statePaths() (data, sum string) {
	return filepath.Join(c.stateDir, "state.data"), filepath.Join(c.stateDir, "state.sum")
}

// Load loads the client state from the state files in the state directory.
func (c *Client) Load() error {
	dataPath, sumPath := c.statePaths()
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return err
	}
	savedSum, err := os.ReadFile(sumPath)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	if len(savedSum) != len(sum) {
		return fmt.Errorf("length mismatch: %w", ErrCorrupted)
	}
	for i := 0; i < len(sum); i++ {
		if savedSum[i] != sum[i] {
			return fmt.Errorf("checksum difference at byte %d: %w", i, ErrCorrupted)
		}
	}
	var loaded clientData
	err = json.Unmarshal(data, &loaded)
	if err == nil {
		if loaded.Notes == nil {
			loaded.Notes = make(map[string]*Note)
		}
		c.data = &loaded
	}
	return err
}

// Dump saves the client's in-memory state to a pair of files in the state directory. The counterpart method to
// load the state is Load. This dump and load mechanism is present to avoid full syncs and do incremental syncs
// only. All clients use the same state files, so state can be overridden if using more than one instance of the
// client.
func (c *Client) Dump() error {
	data, err := json.Marshal(c.data)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(data)
	if err := os.MkdirAll(c.stateDir, 0700); err != nil {
		return err
	}
	dataPath, sumPath := c.statePaths()
	if err := os.WriteFile(dataPath, data, 0600); err != nil {
		return err
	}
	if err := os.WriteFile(sumPath, sum[:], 0600); err != nil {
		return err
	}
	return nil
}

// NoteByGUID looks up the note in the client's data (no remote call is made). The note should be treated as
// read-only. To update a note, the workflow is to enqueue commands, e.g., using NotePatch and QueueNoteUpdate,
// then Push the commands to the servers, and finally Pull() the updated state.
func (c *Client) NoteByGUID(guid string) (*Note, bool) {
	n, ok := c.data.Notes[guid]
	return n, ok
}

// PermanentGUID looks up the GUID the server assigned to a note added with the given temporary id. Temporary
// ids are UUIDs assigned by the client when queueing note_add commands; the mapping is returned in the response
// to Push.
func (c *Client) PermanentGUID(temporaryID string) (guid string, found bool) {
	guid, found = c.t2p[temporaryID]
	return
}

func (c *Client) updateNote(current *Note) {
	stale, ok := c.NoteByGUID(current.GUID)
	if ok {
		*stale = *current
	} else {
		c.data.Notes[current.GUID] = current
	}
}
