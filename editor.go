package mininote

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrEditor is returned when the text editor can't be run.
var ErrEditor = errors.New("could not run text editor")

// ErrEditAborted is returned when the user leaves the editor without saving.
var ErrEditAborted = errors.New("edit aborted")

// Editor lets the user edit a piece of text.
type Editor interface {
	// Edit shows content to the user and returns the edited version.
	Edit(content string) (string, error)

	// Path tells the user where the edit session can be recovered from until Cleanup is called.
	Path() string

	// Cleanup discards the edit session.
	Cleanup() error
}

// ProcessEditor edits text in a temporary file with an external program.
type ProcessEditor struct {
	command []string
	path    string
}

// DefaultEditorCommand returns $VISUAL, $EDITOR or vi, in that order of preference.
func DefaultEditorCommand() string {
	for _, v := range []string{"VISUAL", "EDITOR"} {
		if cmd := os.Getenv(v); cmd != "" {
			return cmd
		}
	}
	return "vi"
}

// NewProcessEditor creates an editor running command, split on white space, with the file name as last argument.
func NewProcessEditor(command string) *ProcessEditor {
	return &ProcessEditor{command: strings.Fields(command)}
}

func (e *ProcessEditor) Edit(content string) (string, error) {
	if len(e.command) == 0 {
		return "", fmt.Errorf("no command: %w", ErrEditor)
	}
	f, err := os.CreateTemp("", "mininote-*.txt")
	if err != nil {
		return "", err
	}
	e.path = f.Name()
	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	args := append(append([]string(nil), e.command[1:]...), e.path)
	cmd := exec.Command(e.command[0], args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %v: %w", e.command[0], err, ErrEditor)
	}
	b, err := os.ReadFile(e.path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Path returns the temporary file, empty before Edit is called.
func (e *ProcessEditor) Path() string {
	return e.path
}

func (e *ProcessEditor) Cleanup() error {
	if e.path == "" {
		return nil
	}
	err := os.Remove(e.path)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	e.path = ""
	return err
}
