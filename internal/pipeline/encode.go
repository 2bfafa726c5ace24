package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"jpegbatch/internal/host"
)

// EncoderOptions describes how a document is written as JPEG.
type EncoderOptions struct {
	// Quality is the encoder quality, 1 to 100.
	Quality int
	// Matte is the colour transparent pixels are composited over.
	Matte color.NRGBA
	// Baseline requests sequential rather than progressive encoding.
	Baseline bool
	// EmbedProfile tags the file as sRGB.
	EmbedProfile bool
	// Transparency is always false: JPEG has no alpha channel.
	Transparency bool
	DPI          int
}

// BuildOptions returns baseline sRGB options at OutputDPI with quality clamped to 1..100.
func BuildOptions(quality int, matte color.NRGBA) EncoderOptions {
	return EncoderOptions{
		Quality:      min(100, max(1, quality)),
		Matte:        matte,
		Baseline:     true,
		EmbedProfile: true,
		DPI:          OutputDPI,
	}
}

// HostQualityLevel maps Quality onto the 0 to 12 scale some image editors use.
// It is informational; the encoder uses Quality.
func (o EncoderOptions) HostQualityLevel() int {
	return int(math.Round(12 * float64(o.Quality) / 100))
}

// Write encodes doc as a JPEG at dest. The extension of dest is lower-cased.
// The file is written to a temporary sibling first and renamed into place.
func Write(doc *host.Document, dest string, opts EncoderOptions) (string, error) {
	dest = lowerExt(dest)
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return "", fmt.Errorf("write %s: destination is a directory", dest)
	}

	img := flattenOver(doc.Composite(), opts.Matte)
	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return "", fmt.Errorf("encode %s: %w", doc.Name(), err)
	}

	var insert []segment
	if opts.DPI > 0 {
		insert = append(insert, jfifSegment(opts.DPI))
	}
	if opts.EmbedProfile {
		seg, err := exifSegment(max(1, opts.DPI))
		if err != nil {
			return "", err
		}
		insert = append(insert, seg)
	}

	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	tmpFile, err := os.CreateTemp(destDir, "jpegbatch-*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpFile.Name())

	if err := spliceJPEG(&encoded, tmpFile, insert...); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return "", err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}
	if err := replaceFile(tmpFile.Name(), dest); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

func flattenOver(img image.Image, matte color.NRGBA) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), matte)
	return imaging.Overlay(bg, img, image.Point{}, 1)
}

func lowerExt(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + strings.ToLower(ext)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
