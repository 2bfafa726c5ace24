package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jpegbatch/internal/config"
	"jpegbatch/internal/log"
	"jpegbatch/internal/settings"
)

var (
	verbose bool
	appCfg  config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:           "jpegbatch",
	Short:         "jpegbatch - export every open image as a web-ready JPEG",
	Long:          "jpegbatch converts a batch of images to size-limited, sRGB, 8-bit baseline JPEGs, remembering your export settings between runs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		appCfg = cfg
		opts := log.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.Source,
			File:      cfg.Logging.File,
		}
		if verbose {
			opts.Level = "debug"
		}
		log.Init(opts)
		if err != nil {
			log.L().Warn("config unavailable, using defaults", "err", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the settings store selected in the config. The returned
// func releases it.
func openStore(cfg config.AppConfig) (settings.Store, func(), error) {
	path, err := cfg.SettingsPath()
	if err != nil {
		return nil, nil, fmt.Errorf("locate settings: %w", err)
	}
	if cfg.Settings.Backend == config.BackendSQLite {
		st, err := settings.OpenSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	}
	return settings.NewFileStore(path), func() {}, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
