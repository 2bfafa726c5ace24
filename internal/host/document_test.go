package host

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 0x40, A: 0xff})
		}
	}
	return img
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewDocumentInfersMode(t *testing.T) {
	cases := []struct {
		img   image.Image
		mode  Mode
		depth int
	}{
		{image.NewNRGBA(image.Rect(0, 0, 2, 2)), ModeRGB, 8},
		{image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420), ModeRGB, 8},
		{image.NewRGBA64(image.Rect(0, 0, 2, 2)), ModeRGB, 16},
		{image.NewGray(image.Rect(0, 0, 2, 2)), ModeGrayscale, 8},
		{image.NewGray16(image.Rect(0, 0, 2, 2)), ModeGrayscale, 16},
		{image.NewCMYK(image.Rect(0, 0, 2, 2)), ModeCMYK, 8},
	}
	for _, tc := range cases {
		d := NewDocument("x", tc.img)
		if d.Mode() != tc.mode || d.BitsPerChannel() != tc.depth {
			t.Fatalf("%T: got %s/%d, want %s/%d", tc.img, d.Mode(), d.BitsPerChannel(), tc.mode, tc.depth)
		}
		if d.Revision() != 0 || d.Dirty() {
			t.Fatalf("%T: new document should be clean", tc.img)
		}
	}
}

func TestChangeModeConvertsPixels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = 0x60
	}
	d := NewDocument("gray", gray)
	if d.Profile() != "" {
		t.Fatalf("grayscale profile = %q", d.Profile())
	}

	if err := d.ChangeMode(ModeRGB); err != nil {
		t.Fatalf("change mode: %v", err)
	}
	img, ok := d.Layers()[0].Image.(*image.NRGBA)
	if !ok {
		t.Fatalf("RGB layer stored as %T", d.Layers()[0].Image)
	}
	if c := img.NRGBAAt(1, 1); c.R != 0x60 || c.G != 0x60 || c.B != 0x60 || c.A != 0xff {
		t.Fatalf("pixel = %+v", c)
	}
	if d.Profile() != ProfileSRGB {
		t.Fatalf("profile = %q, want sRGB working space", d.Profile())
	}

	rev := d.Revision()
	if err := d.ChangeMode(ModeRGB); err != nil {
		t.Fatal(err)
	}
	if d.Revision() != rev {
		t.Fatal("second ChangeMode mutated the document")
	}

	if err := d.ChangeMode(ModeIndexed); !errors.Is(err, errors.ErrUnsupported) {
		t.Fatalf("indexed conversion err = %v", err)
	}
}

func TestCMYKToRGB(t *testing.T) {
	cmyk := image.NewCMYK(image.Rect(0, 0, 2, 2))
	cmyk.SetCMYK(0, 0, color.CMYK{C: 0xff})
	d := NewDocument("print", cmyk)
	if err := d.ChangeMode(ModeRGB); err != nil {
		t.Fatal(err)
	}
	c := d.Composite().NRGBAAt(0, 0)
	if c.R != 0 || c.G != 0xff || c.B != 0xff {
		t.Fatalf("cyan converted to %+v", c)
	}
}

func TestConvertProfile(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff})
	img.SetNRGBA(2, 0, color.NRGBA{R: 0xff, A: 0x80})
	d := NewDocument("adobe", img)
	d.AssignProfile(ProfileAdobeRGB)

	if err := d.ConvertProfile(ProfileSRGB, IntentPerceptual, false, false); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if d.Profile() != ProfileSRGB {
		t.Fatalf("profile = %q", d.Profile())
	}
	out := d.Layers()[0].Image.(*image.NRGBA)

	white := out.NRGBAAt(0, 0)
	if white.R < 0xfe || white.G < 0xfe || white.B < 0xfe {
		t.Fatalf("white drifted to %+v", white)
	}
	grey := out.NRGBAAt(1, 0)
	if absDiff(grey.R, grey.G) > 1 || absDiff(grey.G, grey.B) > 1 || absDiff(grey.R, 0x80) > 3 {
		t.Fatalf("neutral grey drifted to %+v", grey)
	}
	red := out.NRGBAAt(2, 0)
	if red.R != 0xff || red.G > 2 || red.B > 2 || red.A != 0x80 {
		t.Fatalf("out-of-gamut red = %+v, want clipped with alpha kept", red)
	}

	rev := d.Revision()
	if err := d.ConvertProfile("srgb", IntentPerceptual, false, false); err != nil {
		t.Fatal(err)
	}
	if d.Revision() != rev {
		t.Fatal("converting to the current profile mutated the document")
	}
}

func TestConvertProfileRejects(t *testing.T) {
	d := NewDocument("x", gradient(2, 2))
	if err := d.ConvertProfile(ProfileSRGB, IntentPerceptual, true, false); !errors.Is(err, errors.ErrUnsupported) {
		t.Fatalf("bpc err = %v", err)
	}
	if err := d.ConvertProfile("ProPhoto RGB", IntentPerceptual, false, false); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("unknown target err = %v", err)
	}
	g := NewDocument("g", image.NewGray(image.Rect(0, 0, 2, 2)))
	if err := g.ConvertProfile(ProfileSRGB, IntentPerceptual, false, false); err == nil {
		t.Fatal("expected error converting a grayscale document")
	}
}

func TestUnknownSourceProfileWarns(t *testing.T) {
	p := &recordingPrompter{}
	ws := NewWorkspace(p, nil)
	d := NewDocument("odd", gradient(2, 2))
	ws.Add(d)
	d.AssignProfile("Camera RGB")

	if err := d.ConvertProfile(ProfileSRGB, IntentPerceptual, false, false); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if d.Profile() != ProfileSRGB || len(p.alerts) != 1 {
		t.Fatalf("profile=%q alerts=%v", d.Profile(), p.alerts)
	}

	ws.Environment().DialogMode = DialogsNone
	d.AssignProfile("Camera RGB")
	_ = d.ConvertProfile(ProfileSRGB, IntentPerceptual, false, false)
	if len(p.alerts) != 1 {
		t.Fatalf("warning shown with dialogs suppressed: %v", p.alerts)
	}
}

func TestSetBitsPerChannel(t *testing.T) {
	d := NewDocument("deep", image.NewNRGBA64(image.Rect(0, 0, 2, 2)))
	if err := d.SetBitsPerChannel(8); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Layers()[0].Image.(*image.NRGBA); !ok || d.BitsPerChannel() != 8 {
		t.Fatalf("8-bit layer stored as %T", d.Layers()[0].Image)
	}
	rev := d.Revision()
	if err := d.SetBitsPerChannel(8); err != nil || d.Revision() != rev {
		t.Fatalf("no-op depth change: err=%v revision %d -> %d", err, rev, d.Revision())
	}
	if err := d.SetBitsPerChannel(32); err == nil {
		t.Fatal("expected error for 32-bit")
	}
}

func TestFlatten(t *testing.T) {
	d := NewDocument("layers", solid(4, 4, color.NRGBA{R: 0xff, A: 0xff}))
	d.AddLayer(Layer{Name: "patch", Image: solid(2, 2, color.NRGBA{B: 0xff, A: 0xff}), Offset: image.Pt(1, 1), Visible: true, Opacity: 1})
	d.AddLayer(Layer{Name: "hidden", Image: solid(4, 4, color.NRGBA{G: 0xff, A: 0xff}), Visible: false, Opacity: 1})

	d.Flatten()
	layers := d.Layers()
	if len(layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(layers))
	}
	img := layers[0].Image.(*image.NRGBA)
	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("corner = %+v", c)
	}
	if c := img.NRGBAAt(2, 2); c != (color.NRGBA{B: 0xff, A: 0xff}) {
		t.Fatalf("patch = %+v", c)
	}

	rev := d.Revision()
	d.Flatten()
	if d.Revision() != rev {
		t.Fatal("flattening a flat document mutated it")
	}
}

func TestFlattenFillsTransparencyWithWhite(t *testing.T) {
	d := NewDocument("clear", image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	d.Flatten()
	if c := d.Composite().NRGBAAt(0, 0); c != (color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Fatalf("flattened transparent pixel = %+v", c)
	}
}

func TestResizeImageUsesRulerUnits(t *testing.T) {
	ws := NewWorkspace(nil, nil)
	d := NewDocument("doc", gradient(40, 20))
	ws.Add(d)

	ws.Environment().RulerUnits = UnitsInches
	if err := d.ResizeImage(2, 1, 0, ResampleSharper); err != nil {
		t.Fatal(err)
	}
	if d.Width() != 144 || d.Height() != 72 {
		t.Fatalf("inches: got %dx%d, want 144x72", d.Width(), d.Height())
	}

	ws.Environment().RulerUnits = UnitsPercent
	if err := d.ResizeImage(50, 50, 0, ResampleSharper); err != nil {
		t.Fatal(err)
	}
	if d.Width() != 72 || d.Height() != 36 {
		t.Fatalf("percent: got %dx%d, want 72x36", d.Width(), d.Height())
	}

	ws.Environment().RulerUnits = UnitsPixels
	if err := d.ResizeImage(10, 5, 300, ResampleSmoother); err != nil {
		t.Fatal(err)
	}
	if d.Width() != 10 || d.Height() != 5 || d.Resolution() != 300 {
		t.Fatalf("pixels: got %dx%d @%v", d.Width(), d.Height(), d.Resolution())
	}
	if b := d.Layers()[0].Image.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Fatalf("layer bounds %v", b)
	}

	rev := d.Revision()
	if err := d.ResizeImage(10, 5, 300, ResampleSmoother); err != nil || d.Revision() != rev {
		t.Fatalf("same-size resize mutated: err=%v", err)
	}
	if err := d.ResizeImage(0, 5, 0, ResampleSmoother); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestResizeCanvasCentresAndFills(t *testing.T) {
	ws := NewWorkspace(nil, nil)
	ws.Environment().RulerUnits = UnitsPixels
	ws.Environment().Background = color.NRGBA{G: 0xff, A: 0xff}
	d := NewDocument("doc", solid(4, 2, color.NRGBA{R: 0xff, A: 0xff}))
	ws.Add(d)

	if err := d.ResizeCanvas(4, 4); err != nil {
		t.Fatal(err)
	}
	out := d.Composite()
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
		t.Fatalf("canvas %v", out.Bounds())
	}
	if c := out.NRGBAAt(0, 0); c != (color.NRGBA{G: 0xff, A: 0xff}) {
		t.Fatalf("top band = %+v", c)
	}
	if c := out.NRGBAAt(0, 1); c != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("content row = %+v", c)
	}
	if c := out.NRGBAAt(3, 3); c != (color.NRGBA{G: 0xff, A: 0xff}) {
		t.Fatalf("bottom band = %+v", c)
	}
}

func TestResizeCanvasFillsOnlyTheBorder(t *testing.T) {
	ws := NewWorkspace(nil, nil)
	ws.Environment().RulerUnits = UnitsPixels
	fill := color.NRGBA{G: 0xff, A: 0xff}
	ws.Environment().Background = fill

	img := solid(4, 2, color.NRGBA{R: 0xff, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{})
	d := NewDocument("doc", img)
	ws.Add(d)
	d.layers[0].Opacity = 0.5

	if err := d.ResizeCanvas(4, 4); err != nil {
		t.Fatal(err)
	}
	if op := d.Layers()[0].Opacity; op != 1 {
		t.Fatalf("bottom layer opacity = %v, want 1 after baking", op)
	}
	out := d.Composite()
	if c := out.NRGBAAt(0, 0); c != fill {
		t.Fatalf("border = %+v, want opaque fill", c)
	}
	if c := out.NRGBAAt(1, 1); c.A != 0 {
		t.Fatalf("transparent pixel filled: %+v", c)
	}
	if c := out.NRGBAAt(0, 1); c.R != 0xff || c.G != 0 || absDiff(c.A, 0x80) > 2 {
		t.Fatalf("content = %+v, want half-opaque red", c)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

type recordingPrompter struct {
	alerts   []string
	confirms []string
	answer   bool
}

func (p *recordingPrompter) Alert(msg string) { p.alerts = append(p.alerts, msg) }

func (p *recordingPrompter) Confirm(msg string) bool {
	p.confirms = append(p.confirms, msg)
	return p.answer
}

func (p *recordingPrompter) ChooseFolder(string, string) (string, bool) { return "", false }
