// The mn program takes short notes from the command line and keeps them in a notes sync service.
//
// Notes are plain lines of text, annotated with #hashtags. "mn some text #tag" saves a note, "mn search #tag"
// lists notes with the tag and how many of them carry each tag, "mn edit #tag" opens the matching notes in a
// text editor, one "<created>: <text>" line each. Changing, deleting and adding lines changes, deletes and adds
// notes when the editor exits. Lines are matched back to notes by creation time and text similarity, so both the
// date and the text of a note can be changed in the same edit, one of the two at a time.
//
// Search and edit queries are white space separated terms that must all match: "#tag" matches notes with the
// tag, "-term" negates term, anything else matches notes containing the text.
//
// Configuration lives in ~/.mininote/config.yaml, or the file named by $MININOTE_CONFIG, and must not be
// readable by others. Values may reference environment variables, which are also loaded from a .env file in
// the working directory. "mn login" stores the auth token there, "mn set-editor" the text editor ("acme" edits
// in an acme window, finishing on Put).
package main // import "github.com/adship/mininote/cmd/mn"
