package host

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

// Layer is one stacked raster. Layers are composited bottom first.
type Layer struct {
	Name    string
	Image   image.Image
	Offset  image.Point
	Visible bool
	Opacity float64
}

// Document is an open image: a canvas of layers plus colour metadata. Pixel
// storage always matches the mode and bit depth (NRGBA or NRGBA64 for RGB,
// Gray or Gray16 for grayscale, CMYK for CMYK).
type Document struct {
	ID uuid.UUID

	name       string
	path       string
	width      int
	height     int
	mode       Mode
	profile    string
	depth      int
	resolution float64
	layers     []Layer
	metadata   Metadata

	dirty    bool
	revision int
	hidden   bool
	closed   bool
	host     *Workspace
}

// NewDocument wraps img as a single-layer document. Mode and bit depth are
// taken from the pixel type; RGB documents are tagged sRGB.
func NewDocument(name string, img image.Image) *Document {
	b := img.Bounds()
	d := &Document{
		ID:         uuid.New(),
		name:       name,
		width:      b.Dx(),
		height:     b.Dy(),
		depth:      8,
		resolution: 72,
	}
	switch img.(type) {
	case *image.Gray:
		d.mode = ModeGrayscale
	case *image.Gray16:
		d.mode, d.depth = ModeGrayscale, 16
	case *image.CMYK:
		d.mode = ModeCMYK
	case *image.Paletted:
		d.mode = ModeIndexed
	case *image.NRGBA64, *image.RGBA64:
		d.mode, d.depth = ModeRGB, 16
		d.profile = ProfileSRGB
	default:
		d.mode = ModeRGB
		d.profile = ProfileSRGB
	}
	if b.Min != (image.Point{}) {
		img = imaging.Crop(img, b)
	}
	d.layers = []Layer{{Name: "Background", Image: d.conform(img), Visible: true, Opacity: 1}}
	return d
}

func (d *Document) Name() string { return d.name }
func (d *Document) Path() string { return d.path }
func (d *Document) Width() int { return d.width }
func (d *Document) Height() int { return d.height }
func (d *Document) Mode() Mode { return d.mode }
func (d *Document) Profile() string { return d.profile }
func (d *Document) BitsPerChannel() int { return d.depth }
func (d *Document) Resolution() float64 { return d.resolution }
func (d *Document) Dirty() bool { return d.dirty }
func (d *Document) Revision() int { return d.revision }
func (d *Document) Hidden() bool { return d.hidden }
func (d *Document) Closed() bool { return d.closed }

// SourceMetadata describes the EXIF of the file the document was opened from.
func (d *Document) SourceMetadata() Metadata { return d.metadata }
func (d *Document) Layers() []Layer { return slices.Clone(d.layers) }
func (d *Document) SetPath(path string) { d.path = path }
func (d *Document) SetResolution(dpi float64) { d.resolution = dpi }

// AssignProfile tags the document with a profile without touching pixels.
func (d *Document) AssignProfile(name string) { d.profile = name }

// AddLayer stacks l on top of the existing layers.
func (d *Document) AddLayer(l Layer) {
	l.Image = d.conform(l.Image)
	d.layers = append(d.layers, l)
	d.mutate()
}

// Composite renders the visible layers onto a transparent canvas.
func (d *Document) Composite() *image.NRGBA {
	dst := imaging.New(d.width, d.height, color.Transparent)
	for _, l := range d.layers {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		dst = imaging.Overlay(dst, l.Image, l.Offset, l.Opacity)
	}
	return dst
}

// Flatten merges every layer into one opaque background layer. Transparent
// areas become white. A document that already is a single opaque background
// is left untouched.
func (d *Document) Flatten() {
	if d.isFlat() {
		return
	}
	bg := imaging.New(d.width, d.height, color.White)
	flat := imaging.Overlay(bg, d.Composite(), image.Point{}, 1)
	d.layers = []Layer{{Name: "Background", Image: d.conform(flat), Visible: true, Opacity: 1}}
	d.mutate()
}

// ChangeMode converts the pixel data to mode m. Leaving a non-RGB mode for
// RGB tags the document with the sRGB working space.
func (d *Document) ChangeMode(m Mode) error {
	if d.mode == m {
		return nil
	}
	if m == ModeIndexed {
		return fmt.Errorf("change mode to %s: %w", m, errors.ErrUnsupported)
	}
	prev := d.mode
	d.mode = m
	switch {
	case m == ModeRGB && prev != ModeRGB:
		d.profile = ProfileSRGB
	case m != ModeRGB:
		d.profile = ""
	}
	if m == ModeCMYK {
		d.depth = 8
	}
	d.conformLayers()
	d.mutate()
	return nil
}

// ConvertProfile converts RGB pixel data into the named profile. Colours
// outside the destination gamut are clipped whatever the intent. Black point
// compensation and dithering are not available.
func (d *Document) ConvertProfile(name string, intent Intent, blackPointCompensation, dither bool) error {
	if blackPointCompensation || dither {
		return fmt.Errorf("convert profile to %q: black point compensation and dithering: %w", name, errors.ErrUnsupported)
	}
	dst, ok := LookupProfile(name)
	if !ok {
		return fmt.Errorf("convert profile: %w: %q", ErrUnknownProfile, name)
	}
	if d.mode != ModeRGB {
		return fmt.Errorf("convert profile to %q: document mode is %s, not RGB", name, d.mode)
	}
	if d.profile == dst.Name {
		return nil
	}
	src, ok := LookupProfile(d.profile)
	if !ok {
		d.warn(fmt.Sprintf("%s: unknown profile %q, treating as sRGB", d.name, d.profile))
		src = sRGB
	}
	if src.Name != dst.Name {
		for i := range d.layers {
			d.layers[i].Image = d.conform(convertPixels(d.layers[i].Image, src, dst))
		}
	}
	d.profile = dst.Name
	d.mutate()
	return nil
}

// SetBitsPerChannel changes the channel depth to 8 or 16 bits.
func (d *Document) SetBitsPerChannel(bits int) error {
	if bits != 8 && bits != 16 {
		return fmt.Errorf("set bit depth %d: %w", bits, errors.ErrUnsupported)
	}
	if d.depth == bits {
		return nil
	}
	if d.mode == ModeCMYK && bits == 16 {
		return fmt.Errorf("set bit depth 16 in CMYK: %w", errors.ErrUnsupported)
	}
	d.depth = bits
	d.conformLayers()
	d.mutate()
	return nil
}

// ResizeImage resamples every layer so the canvas becomes width×height,
// both given in the environment's ruler units. dpi > 0 replaces the
// resolution.
func (d *Document) ResizeImage(width, height, dpi float64, method ResampleMethod) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize image to %vx%v: dimensions must be positive", width, height)
	}
	w := d.toPixels(width, d.width)
	h := d.toPixels(height, d.height)
	if w == d.width && h == d.height && (dpi <= 0 || dpi == d.resolution) {
		return nil
	}

	sx := float64(w) / float64(d.width)
	sy := float64(h) / float64(d.height)
	for i, l := range d.layers {
		b := l.Image.Bounds()
		lw := max(1, int(math.Round(float64(b.Dx())*sx)))
		lh := max(1, int(math.Round(float64(b.Dy())*sy)))
		img := l.Image
		if lw != b.Dx() || lh != b.Dy() {
			img = imaging.Resize(l.Image, lw, lh, method.Filter())
		}
		d.layers[i].Image = d.conform(img)
		d.layers[i].Offset = image.Pt(
			int(math.Round(float64(l.Offset.X)*sx)),
			int(math.Round(float64(l.Offset.Y)*sy)),
		)
	}
	d.width, d.height = w, h
	if dpi > 0 {
		d.resolution = dpi
	}
	d.mutate()
	return nil
}

// ResizeCanvas changes the canvas to width×height (ruler units) keeping the
// content centred. Area added to the bottom layer is filled with the
// environment background colour.
func (d *Document) ResizeCanvas(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize canvas to %vx%v: dimensions must be positive", width, height)
	}
	w := d.toPixels(width, d.width)
	h := d.toPixels(height, d.height)
	if w == d.width && h == d.height {
		return nil
	}

	shift := image.Pt((w-d.width)/2, (h-d.height)/2)
	for i := range d.layers {
		d.layers[i].Offset = d.layers[i].Offset.Add(shift)
	}
	// Only the added border takes the background; the old canvas keeps the
	// bottom layer's own pixels and opacity.
	bottom := d.layers[0]
	canvas := imaging.New(w, h, d.environment().Background)
	old := image.Rect(0, 0, d.width, d.height).Add(shift)
	xdraw.Draw(canvas, old, image.Transparent, image.Point{}, xdraw.Src)
	canvas = imaging.Overlay(canvas, bottom.Image, bottom.Offset, bottom.Opacity)
	d.layers[0] = Layer{Name: bottom.Name, Image: d.conform(canvas), Visible: bottom.Visible, Opacity: 1}

	d.width, d.height = w, h
	d.mutate()
	return nil
}

// Save writes the composite back to the document's own path, in the format
// implied by its extension.
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("save %s: %w", d.name, ErrNeverSaved)
	}
	if err := imaging.Save(d.Composite(), d.path); err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	d.dirty = false
	return nil
}

func (d *Document) duplicate(name string) *Document {
	c := *d
	c.ID = uuid.New()
	if name != "" {
		c.name = name
	}
	c.path = ""
	c.dirty = true
	c.revision = 0
	c.layers = make([]Layer, len(d.layers))
	for i, l := range d.layers {
		l.Image = cloneImage(l.Image)
		c.layers[i] = l
	}
	return &c
}

func (d *Document) mutate() {
	d.dirty = true
	d.revision++
}

func (d *Document) environment() Environment {
	if d.host != nil {
		return d.host.env
	}
	return DefaultEnvironment()
}

func (d *Document) warn(msg string) {
	if d.host != nil {
		d.host.warn(msg)
	}
}

func (d *Document) toPixels(v float64, current int) int {
	px := v
	switch d.environment().RulerUnits {
	case UnitsInches:
		px = v * d.resolution
	case UnitsCentimeters:
		px = v * d.resolution / 2.54
	case UnitsPercent:
		px = v * float64(current) / 100
	}
	return max(1, int(math.Round(px)))
}

func (d *Document) isFlat() bool {
	if len(d.layers) != 1 {
		return false
	}
	l := d.layers[0]
	b := l.Image.Bounds()
	if !l.Visible || l.Opacity < 1 || l.Offset != (image.Point{}) || b.Dx() != d.width || b.Dy() != d.height {
		return false
	}
	if o, ok := l.Image.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func (d *Document) conformLayers() {
	for i := range d.layers {
		d.layers[i].Image = d.conform(d.layers[i].Image)
	}
}

// conform returns img in the storage type for the current mode and depth.
func (d *Document) conform(img image.Image) image.Image {
	if d.stores(img) {
		return img
	}
	b := img.Bounds()
	var dst xdraw.Image
	switch {
	case d.mode == ModeGrayscale && d.depth == 16:
		dst = image.NewGray16(b)
	case d.mode == ModeGrayscale:
		dst = image.NewGray(b)
	case d.mode == ModeCMYK:
		dst = image.NewCMYK(b)
	case d.mode == ModeRGB && d.depth == 16:
		dst = image.NewNRGBA64(b)
	default:
		dst = image.NewNRGBA(b)
	}
	xdraw.Draw(dst, b, img, b.Min, xdraw.Src)
	return dst
}

func (d *Document) stores(img image.Image) bool {
	switch img.(type) {
	case *image.Gray:
		return d.mode == ModeGrayscale && d.depth == 8
	case *image.Gray16:
		return d.mode == ModeGrayscale && d.depth == 16
	case *image.CMYK:
		return d.mode == ModeCMYK
	case *image.NRGBA:
		return (d.mode == ModeRGB && d.depth == 8) || d.mode == ModeIndexed
	case *image.NRGBA64:
		return d.mode == ModeRGB && d.depth == 16
	case *image.Paletted:
		return d.mode == ModeIndexed
	}
	return false
}

func cloneImage(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.NRGBA:
		c := *src
		c.Pix = slices.Clone(src.Pix)
		return &c
	case *image.NRGBA64:
		c := *src
		c.Pix = slices.Clone(src.Pix)
		return &c
	case *image.Gray:
		c := *src
		c.Pix = slices.Clone(src.Pix)
		return &c
	case *image.Gray16:
		c := *src
		c.Pix = slices.Clone(src.Pix)
		return &c
	case *image.CMYK:
		c := *src
		c.Pix = slices.Clone(src.Pix)
		return &c
	case *image.Paletted:
		c := *src
		c.Pix = slices.Clone(src.Pix)
		c.Palette = slices.Clone(src.Palette)
		return &c
	default:
		return imaging.Clone(img)
	}
}
