package controller

import (
	"context"
	"fmt"
	"log/slog"

	"jpegbatch/internal/host"
	"jpegbatch/internal/pipeline"
	"jpegbatch/internal/settings"
)

// Runner exports the open documents with the given settings.
type Runner interface {
	Run(ctx context.Context, s settings.ExportSettings) pipeline.Result
}

// Outcome reports what a dispatched command did.
type Outcome struct {
	// Closed is true once the dialog is finished: after Cancel, or after a
	// Confirm whose batch did not ask for a retry.
	Closed bool
	// Ran is true when the command started a batch.
	Ran    bool
	Result pipeline.Result
	// SaveErr is the error from persisting the settings, if any.
	SaveErr error
}

type Controller struct {
	settings settings.ExportSettings
	store    settings.Store
	runner   Runner
	prompter host.Prompter
	log      *slog.Logger
	closed   bool
}

func New(s settings.ExportSettings, store settings.Store, runner Runner, prompter host.Prompter, log *slog.Logger) *Controller {
	if prompter == nil {
		prompter = host.SilentPrompter{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{settings: s.Clamp(), store: store, runner: runner, prompter: prompter, log: log}
}

func (c *Controller) Settings() settings.ExportSettings { return c.settings }

func (c *Controller) Closed() bool { return c.closed }

// Dispatch applies cmd. Confirm runs the batch and, unless it ends in
// StatusRetry, saves the settings and closes the dialog. Cancel closes
// without saving. Commands after the dialog closed are ignored.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) Outcome {
	if c.closed {
		return Outcome{Closed: true}
	}

	switch cmd.(type) {
	case BrowseFolder:
		if dir, ok := c.prompter.ChooseFolder("Choose Export Folder", c.settings.ExportFolder); ok {
			c.settings = Apply(c.settings, ChooseFolder{Path: dir})
		}
		return Outcome{}
	case Cancel:
		c.closed = true
		c.log.Debug("export dialog cancelled")
		return Outcome{Closed: true}
	case Confirm:
		return c.confirm(ctx)
	default:
		c.settings = Apply(c.settings, cmd)
		return Outcome{}
	}
}

func (c *Controller) confirm(ctx context.Context) Outcome {
	out := Outcome{Ran: true, Result: c.run(ctx)}
	if out.Result.Status == pipeline.StatusRetry {
		return out
	}

	if c.store != nil {
		if err := settings.Save(c.store, c.settings); err != nil {
			c.log.Error("saving settings failed", slog.Any("err", err))
			c.prompter.Alert(fmt.Sprintf("Error saving settings:\n%v", err))
			out.SaveErr = err
		}
	}
	c.closed = true
	out.Closed = true
	return out
}

func (c *Controller) run(ctx context.Context) (res pipeline.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.prompter.Alert(fmt.Sprintf("Export failed:\n%v", r))
			res = pipeline.Result{Status: pipeline.StatusFailed, Err: fmt.Errorf("%w: %v", pipeline.ErrPanic, r)}
		}
	}()
	return c.runner.Run(ctx, c.settings)
}
