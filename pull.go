package mininote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

// pullResponse partially represents the JSON response from the sync API.
type pullResponse struct {
	// This token is used for synchronization. It correlates one sync API call with the next. We will only receive
	// notes that have changed since the previous time (according to this token) we have called the sync API.
	SyncToken string `json:"sync_token"`

	Notes []*Note `json:"notes"`
}

// Pull makes a sync API call to get every note that changed since the last time it was called, and updates the
// client's in-memory data. This is used to sync back changes initiated by the client (first enqueueing commands,
// e.g., with QueueNoteAdd, and then pushing them with Push) or to sync back changes initiated by other apps.
// To reduce API calls, if this client hasn't pushed any commands since the last pull, and the client already
// pulled once in the last minute, this method won't do anything.
func (c *Client) Pull() error {
	// Avoid pulling too often. The timestamp is set by this method on successful update, but can be reset by
	// the push method too in order to signal that we need to pull the changes down.
	if time.Since(c.lastPulled) <= time.Minute {
		return nil
	}
	data := make(url.Values)
	data.Set("token", c.token)
	data.Set("sync_token", c.data.SyncToken)
	data.Set("resource_types", `["notes"]`)
	r, err := http.PostForm(c.endpoint, data)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.WithFields(log.Fields{
				"op":    "pull",
				"cause": err,
			}).Warning("Could not close request body")
		}
	}()
	switch r.StatusCode {
	case http.StatusOK:
		var pr *pullResponse
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("pull, read body: %w", err)
		}
		_, _ = c.wlog.Write([]byte(`{"type": "response", "response": `))
		_, _ = c.wlog.Write(b)
		_, _ = c.wlog.Write([]byte("}\n"))
		err = json.Unmarshal(b, &pr)
		if err != nil {
			return fmt.Errorf("pull, unmarshal: %w", err)
		}
		c.data.SyncToken = pr.SyncToken
		for _, note := range pr.Notes {
			if note.GUID == "" {
				continue
			}
			c.updateNote(note)
		}
		c.lastPulled = time.Now()
		return nil
	default:
		return fmt.Errorf("pull: %d: %s: %w", r.StatusCode, responseText(r.Body), ErrStatusCode)
	}
}

func responseText(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return fmt.Sprintf("unknown, because of error reading body: %v", err)
	}
	return string(b)
}
