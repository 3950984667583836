package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adship/mininote"
	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add a note",
	RunE:  runAdd,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List notes matching the query",
	Long: `List notes matching the query, followed by the number of matching notes per tag.

Query terms are separated by white space and all must match: "#tag" matches notes with the tag, "-term" negates
term, anything else matches notes containing the text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var editCmd = &cobra.Command{
	Use:   "edit <query>",
	Short: "Edit notes matching the query in a text editor",
	Long: `Edit notes matching the query in a text editor, one note per line.

Change a line to change a note, delete it to delete the note, add "<date>: <text>" lines to add notes. With the
text editor set to "acme", the notes are edited in an acme window and the edit is over on Put.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEdit,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the notes service",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var setEditorCmd = &cobra.Command{
	Use:   "set-editor <editor>",
	Short: `Set the text editor used by "mn edit"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(func(cfg *mininote.Config) {
			cfg.TextEditor = args[0]
		})
	},
}

var setNotebookCmd = &cobra.Command{
	Use:   "set-notebook <guid>",
	Short: "Restrict all commands to a notebook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(func(cfg *mininote.Config) {
			cfg.NotebookGUID = args[0]
		})
	},
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		var err error
		if text, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	if text == "" {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	client.QueueNoteAdd(mininote.NewNotePatch("").WithContent(text).WithCreated(time.Now().Unix()))
	if err := client.Push(); err != nil {
		return err
	}
	dump(client)
	return nil
}

func prompt(r io.Reader, w io.Writer) (string, error) {
	_, _ = fmt.Fprint(w, promptStyle.Render("mn> "))
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := client.Pull(); err != nil {
		return err
	}
	notes := client.SearchNotes().WithQuery(strings.Join(args, " ")).Results()
	log.WithFields(log.Fields{
		"notes":   len(notes),
		"elapsed": time.Since(start),
	}).Debug("Search done")
	printNotes(cmd.OutOrStdout(), notes)
	printTagCounts(cmd.OutOrStdout(), notes)
	dump(client)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	if err := client.Pull(); err != nil {
		return err
	}
	query := strings.Join(args, " ")
	notes := client.SearchNotes().WithQuery(query).Results()
	original := mininote.RenderNotes(notes)

	editor := newEditor(cfg.TextEditor, query)
	edited, err := editor.Edit(original)
	if errors.Is(err, mininote.ErrEditAborted) {
		log.Debug("Edit aborted")
		return editor.Cleanup()
	}
	if err != nil {
		return err
	}
	plan, err := mininote.PlanEdits(notes, edited)
	if err != nil {
		// Leave the session around so the work isn't lost.
		return fmt.Errorf("%w (session is saved in %s)", err, editor.Path())
	}
	if err := editor.Cleanup(); err != nil {
		log.WithFields(log.Fields{
			"path":  editor.Path(),
			"cause": err,
		}).Warning("Could not clean up edit session")
	}
	log.WithFields(log.Fields{
		"added":   len(plan.Added),
		"updated": len(plan.Updated),
		"deleted": len(plan.Deleted),
	}).Debug("Edit plan")
	if plan.Empty() {
		return nil
	}
	client.QueueEdits(plan)
	if err := client.Push(); err != nil {
		return err
	}
	if err := client.Pull(); err != nil {
		return err
	}
	dump(client)
	return nil
}

func newEditor(textEditor string, query string) mininote.Editor {
	switch textEditor {
	case "acme":
		return newAcmeEditor("/mn/edit/" + query)
	case "":
		return mininote.NewProcessEditor(mininote.DefaultEditorCommand())
	default:
		return mininote.NewProcessEditor(textEditor)
	}
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadRawConfig()
	if err != nil {
		return err
	}
	cfg.DeleteAuth()
	if err := cfg.Save(path); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	token, err := mininote.Login(cmd.Context(), cfg.Expanded().OAuth, func(authURL string) error {
		_, _ = fmt.Fprintf(out, "Opening %s\n", authURL)
		browser.Stdout, browser.Stderr = io.Discard, io.Discard
		if err := browser.OpenURL(authURL); err != nil {
			log.WithField("cause", err).Debug("Could not open browser")
			_, _ = fmt.Fprintln(out, "Please open the link above in a browser")
		}
		return nil
	})
	if err != nil {
		return err
	}
	cfg.AuthToken = token
	if err := cfg.Save(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Logged in")
	return nil
}

func updateConfig(update func(*mininote.Config)) error {
	cfg, path, err := loadRawConfig()
	if err != nil {
		return err
	}
	update(cfg)
	return cfg.Save(path)
}
