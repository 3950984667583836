package main

import (
	"fmt"

	"9fans.net/go/acme"
	"github.com/adship/mininote"
)

// acmeEditor edits text in an acme window. The edit is over when the user executes Put in the window. The window
// stays open until Cleanup, so if the edited text can't be used it is still there.
type acmeEditor struct {
	title string
	win   *acme.Win

	// Signaled on Put.
	put chan struct{}
}

func newAcmeEditor(title string) *acmeEditor {
	return &acmeEditor{title: title, put: make(chan struct{}, 1)}
}

func (e *acmeEditor) Edit(content string) (string, error) {
	w, err := acme.New()
	if err != nil {
		return "", fmt.Errorf("acme: %v: %w", err, mininote.ErrEditor)
	}
	e.win = w
	w.SetErrorPrefix(e.title)
	_ = w.Name(e.title)
	_ = w.Ctl("cleartag")
	_ = w.Fprintf("tag", " Put ")
	if _, err := w.Write("body", []byte(content)); err != nil {
		return "", fmt.Errorf("acme: %v: %w", err, mininote.ErrEditor)
	}
	_ = w.Ctl("clean")
	_ = w.Addr("0")
	_ = w.Ctl("dot=addr")
	_ = w.Ctl("show")

	closed := make(chan struct{})
	go func() {
		w.EventLoop(e)
		close(closed)
	}()
	select {
	case <-e.put:
		body, err := w.ReadAll("body")
		if err != nil {
			return "", fmt.Errorf("acme: read body: %w", err)
		}
		_ = w.Ctl("clean")
		return string(body), nil
	case <-closed:
		e.win = nil
		return "", mininote.ErrEditAborted
	}
}

// Execute is triggered by button-2 click in acme.
func (e *acmeEditor) Execute(cmd string) bool {
	if cmd != "Put" {
		return false
	}
	select {
	case e.put <- struct{}{}:
	default:
	}
	return true
}

// Look is triggered by button-3 click in acme. Let acme handle it.
func (e *acmeEditor) Look(string) bool {
	return false
}

// Path returns the window name.
func (e *acmeEditor) Path() string {
	return e.title
}

func (e *acmeEditor) Cleanup() error {
	if e.win == nil {
		return nil
	}
	err := e.win.Del(true)
	e.win = nil
	return err
}
