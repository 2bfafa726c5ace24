package pipeline

import (
	"fmt"
	"image/color"
	"math"

	"jpegbatch/internal/host"
)

// OutputDPI is the resolution written into every exported file.
const OutputDPI = 72

// Plan is the outcome of fitting an image into a square size cap.
type Plan struct {
	Width  int
	Height int
	Factor float64
	Method host.ResampleMethod
}

// Fit scales w×h so that its longer side becomes maxSize. Portrait images are
// fitted by height; landscape and square ones by width. Enlargement uses the
// smoother kernel and reduction the sharper one.
func Fit(w, h, maxSize int) Plan {
	p := Plan{Width: maxSize, Height: maxSize}
	if float64(w)/float64(h) < 1 {
		p.Factor = float64(maxSize) / float64(h)
		p.Width = max(1, int(math.Round(float64(w)*p.Factor)))
	} else {
		p.Factor = float64(maxSize) / float64(w)
		p.Height = max(1, int(math.Round(float64(h)*p.Factor)))
	}
	p.Method = host.ResampleSharper
	if p.Factor > 1 {
		p.Method = host.ResampleSmoother
	}
	return p
}

// Resize fits doc into maxSize×maxSize at OutputDPI. Lengths are passed in
// pixels, so the environment's ruler units must be pixels.
func Resize(doc *host.Document, maxSize int) (Plan, error) {
	if maxSize < 1 {
		return Plan{}, fmt.Errorf("resize: max size %d must be positive", maxSize)
	}
	p := Fit(doc.Width(), doc.Height(), maxSize)
	if err := doc.ResizeImage(float64(p.Width), float64(p.Height), OutputDPI, p.Method); err != nil {
		return p, fmt.Errorf("resize to %dx%d: %w", p.Width, p.Height, err)
	}
	return p, nil
}

// Letterbox pads doc to a maxSize square, centred, filled with fill. The fill
// is installed as the environment background, which the caller restores.
func Letterbox(doc *host.Document, env *host.Environment, maxSize int, fill color.NRGBA) error {
	env.Background = fill
	if err := doc.ResizeCanvas(float64(maxSize), float64(maxSize)); err != nil {
		return fmt.Errorf("letterbox to %dx%d: %w", maxSize, maxSize, err)
	}
	return nil
}

// ResolveMatte maps a matte index (Black, White, Background, Foreground) to
// a colour, reading the environment for the last two.
func ResolveMatte(index int, env host.Environment) color.NRGBA {
	switch index {
	case 1:
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	case 2:
		return env.Background
	case 3:
		return env.Foreground
	default:
		return color.NRGBA{A: 0xff}
	}
}
