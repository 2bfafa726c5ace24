package host

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	_ "golang.org/x/image/webp"

	"jpegbatch/pkg/imgutil"
)

// exifInfo is the subset of EXIF the workspace needs to open a file faithfully.
type exifInfo struct {
	Orientation int
	Profile     string
	DPI         float64
	Meta        Metadata
}

// Open decodes the image at path and adds it to the workspace as the active
// document. EXIF orientation is applied to the pixels; the EXIF colour space
// and resolution become the document's profile and resolution.
func (w *Workspace) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	kind, err := imgutil.SniffReader(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if kind == imgutil.KindUnknown {
		return nil, fmt.Errorf("open %s: %w", path, ErrUnsupportedFormat)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	info := exifInfo{Orientation: 1}
	if kind.HasExif() {
		info, err = readExif(file)
		if err != nil {
			w.warn(fmt.Sprintf("%s: ignoring unreadable EXIF: %v", filepath.Base(abs), err))
			info = exifInfo{Orientation: 1}
		}
	}

	doc := NewDocument(filepath.Base(abs), img)
	doc.applyOrientation(info.Orientation)
	doc.path = abs
	if info.Profile != "" && doc.mode == ModeRGB {
		doc.profile = info.Profile
	}
	if info.DPI > 0 {
		doc.resolution = info.DPI
	}
	doc.metadata = info.Meta
	w.Add(doc)
	w.log.Debug("opened document",
		slog.String("path", abs),
		slog.String("kind", kind.String()),
		slog.String("mode", doc.mode.String()),
		slog.String("profile", doc.profile),
		slog.Int("width", doc.width),
		slog.Int("height", doc.height),
		slog.Int("exif_tags", info.Meta.Tags),
	)
	return doc, nil
}

// Collect expands paths into the image files they name. Directories are
// walked recursively; files whose signature is not a supported image are
// skipped when found inside a directory and rejected when named directly.
func Collect(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			kind, err := imgutil.SniffFile(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			if kind == imgutil.KindUnknown {
				return nil, fmt.Errorf("%s: %w", p, ErrUnsupportedFormat)
			}
			out = append(out, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			kind, err := imgutil.SniffFile(path)
			if err != nil || kind == imgutil.KindUnknown {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readExif(rs io.ReadSeeker) (exifInfo, error) {
	info := exifInfo{Orientation: 1}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return info, err
	}

	raw, err := exif.SearchAndExtractExifWithReader(rs)
	if err != nil {
		if isNoExif(err) {
			return info, nil
		}
		return info, err
	}
	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return info, err
	}

	var xres float64
	unit := 2
	interop := ""
	colorSpace := 0
	for _, tag := range tags {
		info.Meta.observe(tag.TagName, tag.IfdPath)
		switch tag.TagName {
		case "Orientation":
			if v, ok := firstShort(tag.Value); ok && v >= 1 && v <= 8 {
				info.Orientation = v
			}
		case "ColorSpace":
			if v, ok := firstShort(tag.Value); ok {
				colorSpace = v
			}
		case "InteroperabilityIndex":
			if s, ok := tag.Value.(string); ok {
				interop = strings.TrimSpace(s)
			}
		case "XResolution":
			if tag.IfdPath != "IFD" {
				continue
			}
			if rats, ok := tag.Value.([]exifcommon.Rational); ok && len(rats) > 0 && rats[0].Denominator != 0 {
				xres = float64(rats[0].Numerator) / float64(rats[0].Denominator)
			}
		case "ResolutionUnit":
			if v, ok := firstShort(tag.Value); ok {
				unit = v
			}
		}
	}

	switch {
	case colorSpace == 1:
		info.Profile = ProfileSRGB
	case interop == "R03":
		info.Profile = ProfileAdobeRGB
	}
	if xres > 0 {
		if unit == 3 {
			xres *= 2.54
		}
		info.DPI = xres
	}
	return info, nil
}

func firstShort(v any) (int, bool) {
	s, ok := v.([]uint16)
	if !ok || len(s) == 0 {
		return 0, false
	}
	return int(s[0]), true
}

func isNoExif(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exif.ErrNoExif) || strings.Contains(strings.ToLower(err.Error()), "no exif")
}

func (d *Document) applyOrientation(orientation int) {
	if orientation <= 1 || orientation > 8 {
		return
	}
	l := &d.layers[0]
	l.Image = d.conform(orient(l.Image, orientation))
	b := l.Image.Bounds()
	d.width, d.height = b.Dx(), b.Dy()
}

// orient applies an EXIF orientation so the pixels are upright.
func orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
