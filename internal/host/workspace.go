package host

import (
	"fmt"
	"log/slog"
	"slices"
)

// Workspace is the set of open documents together with the environment and
// prompter they share. It is not safe for concurrent use.
type Workspace struct {
	env      Environment
	prompter Prompter
	log      *slog.Logger

	docs   []*Document
	temps  []*Document
	active *Document
}

func NewWorkspace(prompter Prompter, log *slog.Logger) *Workspace {
	if prompter == nil {
		prompter = SilentPrompter{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Workspace{env: DefaultEnvironment(), prompter: prompter, log: log}
}

func (w *Workspace) Environment() *Environment { return &w.env }

func (w *Workspace) Prompter() Prompter { return w.prompter }

// Documents returns the live list of visible documents. The slice is owned
// by the workspace and changes as documents are closed.
func (w *Workspace) Documents() []*Document { return w.docs }

// Temporaries returns the hidden duplicates that are still open.
func (w *Workspace) Temporaries() []*Document { return slices.Clone(w.temps) }

func (w *Workspace) Active() *Document { return w.active }

// Add opens d in the workspace and makes it the active document.
func (w *Workspace) Add(d *Document) {
	d.host = w
	d.closed = false
	d.hidden = false
	w.docs = append(w.docs, d)
	w.active = d
}

func (w *Workspace) Activate(d *Document) error {
	if d.closed || d.host != w {
		return fmt.Errorf("activate %s: %w", d.name, ErrClosed)
	}
	w.active = d
	return nil
}

// Duplicate copies the active document into a hidden document that does not
// appear in Documents. Edits to either side never affect the other.
func (w *Workspace) Duplicate(d *Document, name string) (*Document, error) {
	if d.closed || d.host != w {
		return nil, fmt.Errorf("duplicate %s: %w", d.name, ErrClosed)
	}
	if w.active != d {
		return nil, fmt.Errorf("duplicate %s: %w", d.name, ErrNotActive)
	}
	dup := d.duplicate(name)
	dup.host = w
	dup.hidden = true
	w.temps = append(w.temps, dup)
	w.log.Debug("duplicated document", slog.String("doc", d.name), slog.String("id", dup.ID.String()))
	return dup, nil
}

// Close closes d applying the given policy to unsaved changes. With
// PromptToSaveChanges the operator is asked only when d is dirty.
func (w *Workspace) Close(d *Document, mode SaveMode) error {
	if d.closed || d.host != w {
		return fmt.Errorf("close %s: %w", d.name, ErrClosed)
	}

	save := false
	switch mode {
	case SaveChanges:
		save = d.dirty
	case PromptToSaveChanges:
		save = d.dirty && w.prompter.Confirm(fmt.Sprintf("Save changes to %s before closing?", d.name))
	}
	if save {
		if err := d.Save(); err != nil {
			return fmt.Errorf("close %s: %w", d.name, err)
		}
	}

	if d.hidden {
		w.temps = slices.DeleteFunc(w.temps, func(o *Document) bool { return o == d })
	} else {
		w.docs = slices.DeleteFunc(w.docs, func(o *Document) bool { return o == d })
	}
	d.closed = true
	if w.active == d {
		w.active = nil
		if n := len(w.docs); n > 0 {
			w.active = w.docs[n-1]
		}
	}
	return nil
}

// warn reports a host warning. The operator only sees it when the
// environment shows all dialogs.
func (w *Workspace) warn(msg string) {
	w.log.Warn(msg)
	if w.env.DialogMode == DialogsAll {
		w.prompter.Alert(msg)
	}
}
