package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"jpegbatch/internal/controller"
	"jpegbatch/internal/host"
	"jpegbatch/internal/settings"
)

// settingFlags are the export settings that can be overridden on the
// command line. Only flags the user set are turned into commands.
type settingFlags struct {
	folder    string
	quality   int
	maxSize   int
	matte     string
	close     bool
	overwrite bool
	letterbox bool
	flatten   bool
}

func (f *settingFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.folder, "folder", "o", "", "export folder")
	fs.IntVarP(&f.quality, "quality", "q", settings.DefaultJPEGQuality, "JPEG quality (30-100)")
	fs.IntVarP(&f.maxSize, "max-size", "s", settings.DefaultMaxImageSize, "longest side of the exported image in pixels")
	fs.StringVar(&f.matte, "matte", "", "matte for transparent areas: "+strings.ToLower(strings.Join(settings.MatteNames, "|")))
	fs.BoolVar(&f.close, "close", false, "close each original after it is exported")
	fs.BoolVar(&f.overwrite, "overwrite", false, "replace existing files without asking")
	fs.BoolVar(&f.letterbox, "letterbox", false, "pad to a square canvas of max-size")
	fs.BoolVar(&f.flatten, "flatten", false, "flatten layers before converting")
}

func (f *settingFlags) commands(cmd *cobra.Command) ([]controller.Command, error) {
	fs := cmd.Flags()
	var out []controller.Command
	if fs.Changed("folder") {
		abs, err := filepath.Abs(f.folder)
		if err != nil {
			return nil, fmt.Errorf("resolve --folder: %w", err)
		}
		out = append(out, controller.ChooseFolder{Path: abs})
	}
	if fs.Changed("quality") {
		out = append(out, controller.SetQuality{Value: f.quality})
	}
	if fs.Changed("max-size") {
		out = append(out, controller.SetMaxSize{Value: f.maxSize})
	}
	if fs.Changed("matte") {
		idx, err := parseMatte(f.matte)
		if err != nil {
			return nil, err
		}
		out = append(out, controller.SetMatte{Index: idx})
	}
	if fs.Changed("close") {
		out = append(out, controller.SetCloseAfterExport{On: f.close})
	}
	if fs.Changed("overwrite") {
		out = append(out, controller.SetSilentOverwrite{On: f.overwrite})
	}
	if fs.Changed("letterbox") {
		out = append(out, controller.SetLetterbox{On: f.letterbox})
	}
	if fs.Changed("flatten") {
		out = append(out, controller.SetFlatten{On: f.flatten})
	}
	return out, nil
}

// parseMatte accepts a matte name in any case or its index.
func parseMatte(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	for i, name := range settings.MatteNames {
		if strings.EqualFold(name, v) {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(v); err == nil && i >= 0 && i < len(settings.MatteNames) {
		return i, nil
	}
	return 0, fmt.Errorf("unknown matte %q (want one of %s)", raw, strings.Join(settings.MatteNames, ", "))
}

// openDocuments opens every image under paths into a new workspace. Files
// that fail to decode are reported and skipped.
func openDocuments(paths []string, prompter host.Prompter, logger *slog.Logger) (*host.Workspace, error) {
	files, err := host.Collect(paths)
	if err != nil {
		return nil, err
	}
	ws := host.NewWorkspace(prompter, logger)
	for _, file := range files {
		if _, err := ws.Open(file); err != nil {
			logger.Warn("skipping unreadable image", slog.String("path", file), slog.Any("err", err))
		}
	}
	if len(ws.Documents()) == 0 {
		return nil, fmt.Errorf("no images to export in %s", strings.Join(paths, ", "))
	}
	return ws, nil
}

// fallbackFolder is the directory of the active document, used when no
// export folder has been saved yet.
func fallbackFolder(ws *host.Workspace) string {
	if doc := ws.Active(); doc != nil && doc.Path() != "" {
		return filepath.Dir(doc.Path())
	}
	return "."
}
