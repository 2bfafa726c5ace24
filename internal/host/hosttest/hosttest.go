// Package hosttest provides a scripted prompter and synthetic documents for
// tests that drive a host.Workspace.
package hosttest

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"jpegbatch/internal/host"
)

// Prompter records every dialog and answers from a script.
type Prompter struct {
	// Answers are consumed in order by Confirm; when exhausted Default is used.
	Answers []bool
	Default bool
	// Folder is returned by ChooseFolder; empty means cancelled.
	Folder string

	Alerts   []string
	Confirms []string
	Choosers []string
}

func (p *Prompter) Alert(msg string) { p.Alerts = append(p.Alerts, msg) }

func (p *Prompter) Confirm(msg string) bool {
	p.Confirms = append(p.Confirms, msg)
	if len(p.Answers) == 0 {
		return p.Default
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return a
}

func (p *Prompter) ChooseFolder(title, initial string) (string, bool) {
	p.Choosers = append(p.Choosers, title)
	if p.Folder == "" {
		return "", false
	}
	return p.Folder, true
}

// Gradient returns a w×h opaque RGB image whose colour varies across both
// axes, so resampling and orientation changes are observable.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(1, w-1)),
				G: uint8(y * 255 / max(1, h-1)),
				B: 0x80,
				A: 0xff,
			})
		}
	}
	return img
}

// Open writes a w×h PNG named name into dir and opens it in ws.
func Open(t testing.TB, ws *host.Workspace, dir, name string, w, h int) *host.Document {
	t.Helper()
	path := WriteImage(t, dir, name, Gradient(w, h))
	doc, err := ws.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	return doc
}

// WriteImage saves img at dir/name in the format implied by the extension.
func WriteImage(t testing.TB, dir, name string, img image.Image) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
	return path
}
