package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jpegbatch/internal/controller"
	"jpegbatch/internal/log"
	"jpegbatch/internal/settings"
	"jpegbatch/internal/tui"
)

var setFlags settingFlags

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved export settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved export settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, release, err := openStore(appCfg)
		if err != nil {
			return err
		}
		defer release()

		_, getErr := store.Get(settings.RecordName)
		s := settings.Load(store, ".", log.WithComponent("settings"))
		path, _ := appCfg.SettingsPath()
		source := path
		if errors.Is(getErr, settings.ErrRecordNotFound) {
			source = "defaults (nothing saved yet)"
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(settingsRows(s, source)))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [flags]",
	Short: "Change saved export settings without exporting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := setFlags.commands(cmd)
		if err != nil {
			return err
		}
		if len(overrides) == 0 {
			return fmt.Errorf("nothing to set; see --help for the available flags")
		}
		store, release, err := openStore(appCfg)
		if err != nil {
			return err
		}
		defer release()

		cwd, _ := os.Getwd()
		s := settings.Load(store, cwd, log.WithComponent("settings"))
		for _, c := range overrides {
			s = controller.Apply(s, c)
		}
		if err := settings.Save(store, s); err != nil {
			return err
		}
		path, _ := appCfg.SettingsPath()
		fmt.Fprintln(os.Stdout, tui.RenderSummary(settingsRows(s, path)))
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved export settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, release, err := openStore(appCfg)
		if err != nil {
			return err
		}
		defer release()

		if err := store.Erase(settings.RecordName); err != nil && !errors.Is(err, settings.ErrRecordNotFound) {
			return fmt.Errorf("reset settings: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Saved export settings removed; defaults apply on the next export.")
		return nil
	},
}

func settingsRows(s settings.ExportSettings, source string) []tui.SummaryRow {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return []tui.SummaryRow{
		{Label: "Source", Value: tui.TruncatePath(source)},
		{Label: "Export folder", Value: tui.TruncatePath(s.ExportFolder)},
		{Label: "JPEG quality", Value: fmt.Sprintf("%d", s.JPEGQuality)},
		{Label: "Max image size", Value: fmt.Sprintf("%dpx", s.MaxImageSize)},
		{Label: "Matte", Value: s.MatteName()},
		{Label: "Close after export", Value: onOff(s.CloseAfterExport)},
		{Label: "Overwrite silently", Value: onOff(s.SilentOverwrite)},
		{Label: "Letterbox", Value: onOff(s.Letterbox)},
		{Label: "Flatten layers", Value: onOff(s.FlattenLayers)},
	}
}

func init() {
	setFlags.register(settingsSetCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
