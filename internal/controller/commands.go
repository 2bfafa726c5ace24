// Package controller owns the export settings while the export dialog is
// open. Every operator action is a Command; Apply computes its effect on the
// settings without side effects and Controller.Dispatch performs the actions
// that reach outside (running the batch, saving, closing).
package controller

import (
	"path/filepath"
	"strings"

	"jpegbatch/internal/settings"
)

// Command is one operator action.
type Command interface {
	command()
}

type (
	// SetQuality sets the JPEG quality directly.
	SetQuality struct{ Value int }
	// SlideQuality moves the quality slider; the value snaps to a step.
	SlideQuality struct{ Position float64 }
	// TypeQuality is text typed into the quality box, e.g. "85%".
	TypeQuality struct{ Text string }

	SetMaxSize   struct{ Value int }
	SlideMaxSize struct{ Position float64 }
	TypeMaxSize  struct{ Text string }

	// ChooseFolder sets the export folder to Path.
	ChooseFolder struct{ Path string }
	// BrowseFolder asks the operator for an export folder.
	BrowseFolder struct{}

	SetMatte            struct{ Index int }
	SetCloseAfterExport struct{ On bool }
	SetSilentOverwrite  struct{ On bool }
	SetLetterbox        struct{ On bool }
	SetFlatten          struct{ On bool }

	// Reset restores quality, size and matte to their defaults.
	Reset struct{}
	// Confirm runs the export.
	Confirm struct{}
	// Cancel closes the dialog without exporting or saving.
	Cancel struct{}
)

func (SetQuality) command()          {}
func (SlideQuality) command()        {}
func (TypeQuality) command()         {}
func (SetMaxSize) command()          {}
func (SlideMaxSize) command()        {}
func (TypeMaxSize) command()         {}
func (ChooseFolder) command()        {}
func (BrowseFolder) command()        {}
func (SetMatte) command()            {}
func (SetCloseAfterExport) command() {}
func (SetSilentOverwrite) command()  {}
func (SetLetterbox) command()        {}
func (SetFlatten) command()          {}
func (Reset) command()               {}
func (Confirm) command()             {}
func (Cancel) command()              {}

// Apply returns s updated by cmd. Commands with effects beyond the settings
// (BrowseFolder, Confirm, Cancel) leave s unchanged. Slider and text input
// are limited to the range of their step table; the result is always clamped.
func Apply(s settings.ExportSettings, cmd Command) settings.ExportSettings {
	switch c := cmd.(type) {
	case SetQuality:
		s.JPEGQuality = c.Value
	case SlideQuality:
		s.JPEGQuality = settings.NearestStep(c.Position, settings.QualitySteps)
	case TypeQuality:
		if v, ok := parseLeadingInt(c.Text); ok {
			s.JPEGQuality = settings.ClampToSteps(v, settings.QualitySteps)
		}
	case SetMaxSize:
		s.MaxImageSize = c.Value
	case SlideMaxSize:
		s.MaxImageSize = settings.NearestStep(c.Position, settings.SizeSteps)
	case TypeMaxSize:
		if v, ok := parseLeadingInt(c.Text); ok {
			s.MaxImageSize = settings.ClampToSteps(v, settings.SizeSteps)
		}
	case ChooseFolder:
		if p := strings.TrimSpace(c.Path); p != "" {
			s.ExportFolder = filepath.Clean(p)
		}
	case SetMatte:
		s.MatteIndex = c.Index
	case SetCloseAfterExport:
		s.CloseAfterExport = c.On
	case SetSilentOverwrite:
		s.SilentOverwrite = c.On
	case SetLetterbox:
		s.Letterbox = c.On
	case SetFlatten:
		s.FlattenLayers = c.On
	case Reset:
		d := settings.Defaults(s.ExportFolder)
		s.JPEGQuality = d.JPEGQuality
		s.MaxImageSize = d.MaxImageSize
		s.MatteIndex = d.MatteIndex
	}
	return s.Clamp()
}

// parseLeadingInt reads the integer at the start of text, ignoring
// surrounding blanks and anything after the digits ("85%" is 85).
func parseLeadingInt(text string) (int, bool) {
	t := strings.TrimSpace(text)
	neg := false
	if t != "" && (t[0] == '-' || t[0] == '+') {
		neg = t[0] == '-'
		t = t[1:]
	}
	n, digits := 0, 0
	for _, r := range t {
		if r < '0' || r > '9' {
			break
		}
		if n > 1_000_000 {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
