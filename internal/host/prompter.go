package host

// Prompter shows modal dialogs. Every call blocks until the operator answers.
type Prompter interface {
	Alert(msg string)
	Confirm(msg string) bool
	// ChooseFolder returns the selected directory, or ok=false when the
	// operator cancelled.
	ChooseFolder(title, initial string) (dir string, ok bool)
}

// SilentPrompter answers every question without asking: confirmations get
// Answer, folder requests are cancelled and alerts are dropped.
type SilentPrompter struct {
	Answer bool
}

func (SilentPrompter) Alert(string) {}

func (p SilentPrompter) Confirm(string) bool { return p.Answer }

func (SilentPrompter) ChooseFolder(string, string) (string, bool) { return "", false }
