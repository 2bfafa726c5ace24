package settings

import (
	"fmt"
	"log/slog"
)

// RecordName is the name the export settings are stored under.
const RecordName = "simpleJPEGExporter"

const (
	KeyExportFolder     = "exportFolder"
	KeyJPEGQuality      = "jpegQuality"
	KeyMaxImageSize     = "maxImageSize"
	KeyMatteIndex       = "matteIndex"
	KeyCloseAfterExport = "closeAfterExport"
	KeySilentOverwrite  = "silentOverwrite"
	KeyLetterbox        = "letterbox"
	KeyFlattenLayers    = "flattenLayers"
)

const (
	DefaultJPEGQuality  = 75
	DefaultMaxImageSize = 1920

	MinJPEGQuality  = 30
	MaxJPEGQuality  = 100
	MinMaxImageSize = 1
	MaxMaxImageSize = 30000
)

// MatteNames lists the selectable matte colours, indexed by MatteIndex.
var MatteNames = []string{"Black", "White", "Background", "Foreground"}

// ExportSettings is the persisted state of the export dialog.
type ExportSettings struct {
	ExportFolder     string
	JPEGQuality      int
	MaxImageSize     int
	MatteIndex       int
	CloseAfterExport bool
	SilentOverwrite  bool
	Letterbox        bool
	FlattenLayers    bool
}

// Defaults returns the settings used when nothing has been persisted.
// folder is normally the directory of the active document.
func Defaults(folder string) ExportSettings {
	return ExportSettings{
		ExportFolder: folder,
		JPEGQuality:  DefaultJPEGQuality,
		MaxImageSize: DefaultMaxImageSize,
	}
}

// Clamp forces every numeric field into its valid range.
func (s ExportSettings) Clamp() ExportSettings {
	s.JPEGQuality = clampInt(s.JPEGQuality, MinJPEGQuality, MaxJPEGQuality)
	s.MaxImageSize = clampInt(s.MaxImageSize, MinMaxImageSize, MaxMaxImageSize)
	s.MatteIndex = clampInt(s.MatteIndex, 0, len(MatteNames)-1)
	return s
}

// MatteName returns the display name of the selected matte.
func (s ExportSettings) MatteName() string {
	return MatteNames[clampInt(s.MatteIndex, 0, len(MatteNames)-1)]
}

// Load returns the persisted settings merged over the defaults. Each key
// present with the expected type overrides its default on its own; missing,
// mistyped and unknown keys are skipped. Read failures are never surfaced:
// they are expected on first use and simply yield the defaults.
func Load(store Store, fallbackFolder string, log *slog.Logger) ExportSettings {
	s := Defaults(fallbackFolder)
	if store == nil {
		return s
	}
	rec, err := store.Get(RecordName)
	if err != nil {
		if log != nil {
			log.Debug("using default settings", slog.Any("err", err))
		}
		return s
	}

	if v, ok := rec.String(KeyExportFolder); ok && v != "" {
		s.ExportFolder = v
	}
	if v, ok := rec.Int(KeyJPEGQuality); ok {
		s.JPEGQuality = v
	}
	if v, ok := rec.Int(KeyMaxImageSize); ok {
		s.MaxImageSize = v
	}
	if v, ok := rec.Int(KeyMatteIndex); ok {
		s.MatteIndex = v
	}
	if v, ok := rec.Bool(KeyCloseAfterExport); ok {
		s.CloseAfterExport = v
	}
	if v, ok := rec.Bool(KeySilentOverwrite); ok {
		s.SilentOverwrite = v
	}
	if v, ok := rec.Bool(KeyLetterbox); ok {
		s.Letterbox = v
	}
	if v, ok := rec.Bool(KeyFlattenLayers); ok {
		s.FlattenLayers = v
	}
	return s.Clamp()
}

// Save writes the full key set of s.
func Save(store Store, s ExportSettings) error {
	s = s.Clamp()
	rec := Record{}
	rec.PutString(KeyExportFolder, s.ExportFolder)
	rec.PutInt(KeyJPEGQuality, s.JPEGQuality)
	rec.PutInt(KeyMaxImageSize, s.MaxImageSize)
	rec.PutInt(KeyMatteIndex, s.MatteIndex)
	rec.PutBool(KeyCloseAfterExport, s.CloseAfterExport)
	rec.PutBool(KeySilentOverwrite, s.SilentOverwrite)
	rec.PutBool(KeyLetterbox, s.Letterbox)
	rec.PutBool(KeyFlattenLayers, s.FlattenLayers)
	if err := store.Put(RecordName, rec); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
