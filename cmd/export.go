package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"jpegbatch/internal/controller"
	"jpegbatch/internal/log"
	"jpegbatch/internal/pipeline"
	"jpegbatch/internal/settings"
	"jpegbatch/internal/tui"
)

var (
	exportFlags    settingFlags
	exportYes      bool
	exportKeepTemp bool
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] <file|dir>...",
	Short: "Export images as JPEGs using the saved settings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		logger := log.WithComponent("export")
		term := tui.NewTerminal(exportYes)

		overrides, err := exportFlags.commands(cmd)
		if err != nil {
			return err
		}
		ws, err := openDocuments(args, term, log.WithComponent("host"))
		if err != nil {
			return err
		}
		store, release, err := openStore(appCfg)
		if err != nil {
			return err
		}
		defer release()

		exp := &pipeline.Exporter{
			Host:            ws,
			Prompter:        term,
			Log:             log.WithComponent("pipeline"),
			KeepTemporaries: exportKeepTemp || appCfg.Debug.KeepTemporaries,
			Observer:        tui.NewProgress(os.Stderr).Observe,
		}
		ctrl := controller.New(settings.Load(store, fallbackFolder(ws), logger), store, exp, term, logger)
		for _, c := range overrides {
			ctrl.Dispatch(ctx, c)
		}

		return runDialog(ctx, ctrl, term)
	},
}

// runDialog confirms the export and, while the batch asks for a retry,
// lets the operator pick another folder. Keeping the same folder cancels.
// Non-interactive sessions cannot answer and fail instead.
func runDialog(ctx context.Context, ctrl *controller.Controller, term *tui.Terminal) error {
	for {
		out := ctrl.Dispatch(ctx, controller.Confirm{})
		fmt.Fprintln(os.Stdout, tui.RenderSummary(tui.ResultRows(out.Result, ctrl.Settings())))

		if out.Closed {
			if out.Result.Status == pipeline.StatusFailed {
				return fmt.Errorf("export failed: %w", out.Result.Err)
			}
			return nil
		}

		if !term.Interactive || errors.Is(ctx.Err(), context.Canceled) {
			ctrl.Dispatch(ctx, controller.Cancel{})
			return fmt.Errorf("export not completed: %w", out.Result.Err)
		}
		before := ctrl.Settings().ExportFolder
		ctrl.Dispatch(ctx, controller.BrowseFolder{})
		if ctrl.Settings().ExportFolder == before {
			ctrl.Dispatch(ctx, controller.Cancel{})
			return fmt.Errorf("export cancelled: %w", out.Result.Err)
		}
	}
}

func init() {
	exportFlags.register(exportCmd)
	exportCmd.Flags().BoolVarP(&exportYes, "yes", "y", false, "answer yes to every confirmation")
	exportCmd.Flags().BoolVar(&exportKeepTemp, "keep-temp", false, "leave working duplicates open (debug)")

	rootCmd.AddCommand(exportCmd)
}
