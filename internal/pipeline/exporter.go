package pipeline

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"jpegbatch/internal/host"
	"jpegbatch/internal/settings"
)

// Exporter runs a batch over every document open in Host.
type Exporter struct {
	Host     Host
	Prompter host.Prompter
	Log      *slog.Logger
	// KeepTemporaries leaves each working duplicate open after its export.
	KeepTemporaries bool
	// Observer, when set, receives an event as each document progresses.
	Observer func(Event)
}

// Destination is the JPEG path for a document called name: the name's last
// extension is replaced by .jpg. Names without an extension, or whose only
// dot is the first character, keep the full name.
func Destination(folder, name string) string {
	base := name
	if i := strings.LastIndex(name, "."); i > 0 {
		base = name[:i]
	}
	return filepath.Join(folder, base+".jpg")
}

// Run exports the documents open when it is called, in order. It stops at
// the first document whose destination is its own source or whose overwrite
// is declined (StatusRetry), and at the first processing error
// (StatusFailed). Documents before the stopping point stay written. The
// environment is restored on every exit path. ctx is only checked between
// documents.
func (e *Exporter) Run(ctx context.Context, s settings.ExportSettings) Result {
	log := e.Log
	if log == nil {
		log = slog.Default()
	}
	s = s.Clamp()
	env := e.Host.Environment()
	matte := ResolveMatte(s.MatteIndex, *env)

	if active := e.Host.Active(); active != nil {
		defer func() {
			if !active.Closed() {
				_ = e.Host.Activate(active)
			}
		}()
	}
	defer env.Scope()()
	env.DialogMode = host.DialogsNone
	env.RulerUnits = host.UnitsPixels

	docs := slices.Clone(e.Host.Documents())
	res := Result{Status: StatusOK, Total: len(docs)}
	log.Info("export started",
		slog.Int("documents", len(docs)),
		slog.String("folder", s.ExportFolder),
		slog.Int("quality", s.JPEGQuality),
		slog.Int("max_size", s.MaxImageSize),
	)

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			res.Status, res.Err = StatusFailed, err
			break
		}

		dest := Destination(s.ExportFolder, doc.Name())
		ev := Event{Index: i, Total: len(docs), Name: doc.Name(), Path: dest}
		e.emit(ev, EventStarted)

		if host.SamePath(dest, doc.Path()) {
			e.prompter().Alert(fmt.Sprintf("Cannot overwrite the original image file: %s\nPlease choose a different export folder.", doc.Name()))
			res.Status, res.Err = StatusRetry, fmt.Errorf("%s: %w", doc.Name(), ErrSameFile)
			ev.Err = res.Err
			e.emit(ev, EventSkipped)
			break
		}
		if !s.SilentOverwrite && host.Exists(dest) {
			if !e.prompter().Confirm(fmt.Sprintf("%s already exists.\nDo you want to replace it?", dest)) {
				res.Status, res.Err = StatusRetry, fmt.Errorf("%s: %w", dest, ErrOverwriteDeclined)
				ev.Err = res.Err
				e.emit(ev, EventSkipped)
				break
			}
		}

		res.Attempted++
		written, plan, err := e.exportOne(doc, dest, s, matte)
		if err != nil {
			log.Error("export failed", slog.String("doc", doc.Name()), slog.Any("err", err))
			e.prompter().Alert(fmt.Sprintf("Exporting %s failed:\n%v", doc.Name(), err))
			res.Status, res.Err = StatusFailed, fmt.Errorf("%s: %w", doc.Name(), err)
			ev.Err = err
			e.emit(ev, EventFailed)
			break
		}
		res.Written = append(res.Written, written)
		ev.Path, ev.Width, ev.Height = written, plan.Width, plan.Height
		if s.Letterbox {
			ev.Width, ev.Height = s.MaxImageSize, s.MaxImageSize
		}
		e.emit(ev, EventExported)
		log.Debug("exported", slog.String("doc", doc.Name()), slog.String("path", written))

		if s.CloseAfterExport {
			if err := e.Host.Close(doc, host.PromptToSaveChanges); err != nil {
				e.prompter().Alert(fmt.Sprintf("Error closing %s:\n%v", doc.Name(), err))
			}
		}
	}

	log.Info("export finished",
		slog.String("status", res.Status.String()),
		slog.Int("written", len(res.Written)),
		slog.Int("host_quality", BuildOptions(s.JPEGQuality, matte).HostQualityLevel()),
	)
	return res
}

// exportOne runs the pipeline on a duplicate of doc. The duplicate is closed
// on every path unless KeepTemporaries is set; a failure to close it is
// reported without failing the document.
func (e *Exporter) exportOne(doc *host.Document, dest string, s settings.ExportSettings, matte color.NRGBA) (written string, plan Plan, err error) {
	if err := e.Host.Activate(doc); err != nil {
		return "", plan, err
	}
	dup, err := e.Host.Duplicate(doc, "")
	if err != nil {
		return "", plan, fmt.Errorf("duplicate: %w", err)
	}
	defer func() {
		if e.KeepTemporaries {
			return
		}
		if cerr := e.Host.Close(dup, host.DoNotSaveChanges); cerr != nil {
			e.prompter().Alert(fmt.Sprintf("Error closing temporary document:\n%v", cerr))
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	if err := Normalize(dup, s.FlattenLayers); err != nil {
		return "", plan, err
	}
	if plan, err = Resize(dup, s.MaxImageSize); err != nil {
		return "", plan, err
	}
	if s.Letterbox {
		if err := Letterbox(dup, e.Host.Environment(), s.MaxImageSize, matte); err != nil {
			return "", plan, err
		}
	}
	written, err = Write(dup, dest, BuildOptions(s.JPEGQuality, matte))
	return written, plan, err
}

func (e *Exporter) prompter() host.Prompter {
	if e.Prompter == nil {
		return host.SilentPrompter{}
	}
	return e.Prompter
}

func (e *Exporter) emit(ev Event, kind EventKind) {
	if e.Observer == nil {
		return
	}
	ev.Kind = kind
	e.Observer(ev)
}
