package pipeline

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"jpegbatch/internal/host"
	"jpegbatch/internal/host/hosttest"
)

func TestFitExamples(t *testing.T) {
	cases := []struct {
		w, h, max    int
		wantW, wantH int
		method       host.ResampleMethod
	}{
		{1600, 1200, 1000, 1000, 750, host.ResampleSharper},
		{400, 800, 1000, 500, 1000, host.ResampleSmoother},
		{500, 500, 1000, 1000, 1000, host.ResampleSmoother},
		{1000, 1000, 1000, 1000, 1000, host.ResampleSharper},
		{3000, 10, 100, 100, 1, host.ResampleSharper},
	}
	for _, tc := range cases {
		p := Fit(tc.w, tc.h, tc.max)
		if p.Width != tc.wantW || p.Height != tc.wantH || p.Method != tc.method {
			t.Fatalf("Fit(%d,%d,%d) = %dx%d %s, want %dx%d %s",
				tc.w, tc.h, tc.max, p.Width, p.Height, p.Method, tc.wantW, tc.wantH, tc.method)
		}
	}
}

func TestFitKeepsLongestSideAndAspect(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		w := 1 + rng.Intn(4000)
		h := 1 + rng.Intn(4000)
		maxSize := 1 + rng.Intn(3000)
		if float64(min(w, h))*float64(maxSize)/float64(max(w, h)) < 1 {
			continue
		}

		p := Fit(w, h, maxSize)
		if max(p.Width, p.Height) != maxSize {
			t.Fatalf("Fit(%d,%d,%d) = %dx%d: longest side != max", w, h, maxSize, p.Width, p.Height)
		}
		// Rounding one side by at most half a pixel bounds the cross-product error.
		cross := p.Width*h - p.Height*w
		if cross < 0 {
			cross = -cross
		}
		if float64(cross) > 0.5*float64(max(w, h))+1e-9 {
			t.Fatalf("Fit(%d,%d,%d) = %dx%d distorts aspect (cross=%d)", w, h, maxSize, p.Width, p.Height, cross)
		}
		wantSmooth := p.Factor > 1
		if (p.Method == host.ResampleSmoother) != wantSmooth {
			t.Fatalf("Fit(%d,%d,%d) factor %.3f used %s", w, h, maxSize, p.Factor, p.Method)
		}
	}
}

func TestResizeDocument(t *testing.T) {
	ws := host.NewWorkspace(nil, nil)
	ws.Environment().RulerUnits = host.UnitsPixels
	doc := host.NewDocument("wide", hosttest.Gradient(1600, 1200))
	ws.Add(doc)
	doc.SetResolution(300)

	p, err := Resize(doc, 1000)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if doc.Width() != 1000 || doc.Height() != 750 || p.Method != host.ResampleSharper {
		t.Fatalf("got %dx%d %s", doc.Width(), doc.Height(), p.Method)
	}
	if doc.Resolution() != OutputDPI {
		t.Fatalf("resolution = %v, want %d", doc.Resolution(), OutputDPI)
	}
	if _, err := Resize(doc, 0); err == nil {
		t.Fatal("expected error for max size 0")
	}
}

func TestLetterbox(t *testing.T) {
	ws := host.NewWorkspace(nil, nil)
	env := ws.Environment()
	env.RulerUnits = host.UnitsPixels
	doc := host.NewDocument("tall", hosttest.Gradient(400, 800))
	ws.Add(doc)

	if _, err := Resize(doc, 100); err != nil {
		t.Fatal(err)
	}
	fill := color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}
	if err := Letterbox(doc, env, 100, fill); err != nil {
		t.Fatal(err)
	}
	if doc.Width() != 100 || doc.Height() != 100 {
		t.Fatalf("canvas = %dx%d", doc.Width(), doc.Height())
	}
	out := doc.Composite()
	if c := out.NRGBAAt(0, 50); c != fill {
		t.Fatalf("left pad = %+v, want %+v", c, fill)
	}
	if c := out.NRGBAAt(99, 50); c != fill {
		t.Fatalf("right pad = %+v", c)
	}
	if c := out.NRGBAAt(50, 50); c == fill {
		t.Fatal("content replaced by fill")
	}
}

func TestResolveMatte(t *testing.T) {
	env := host.DefaultEnvironment()
	env.Background = color.NRGBA{R: 1, A: 0xff}
	env.Foreground = color.NRGBA{G: 2, A: 0xff}

	want := []color.NRGBA{
		{A: 0xff},
		{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		env.Background,
		env.Foreground,
	}
	for i, w := range want {
		if got := ResolveMatte(i, env); got != w {
			t.Fatalf("matte %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	ws := host.NewWorkspace(nil, nil)
	deep := image.NewNRGBA64(image.Rect(0, 0, 8, 6))
	for i := range deep.Pix {
		deep.Pix[i] = 0xc0
	}
	doc := host.NewDocument("deep", deep)
	ws.Add(doc)
	doc.AssignProfile(host.ProfileAdobeRGB)
	doc.AddLayer(host.Layer{Name: "note", Image: hosttest.Gradient(3, 3), Offset: image.Pt(2, 2), Visible: true, Opacity: 0.5})

	if err := Normalize(doc, true); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if doc.Mode() != host.ModeRGB || doc.Profile() != host.ProfileSRGB || doc.BitsPerChannel() != 8 || len(doc.Layers()) != 1 {
		t.Fatalf("not normalized: %s %q %d-bit %d layers", doc.Mode(), doc.Profile(), doc.BitsPerChannel(), len(doc.Layers()))
	}

	rev := doc.Revision()
	before := doc.Composite()
	if err := Normalize(doc, true); err != nil {
		t.Fatalf("second normalize: %v", err)
	}
	if doc.Revision() != rev {
		t.Fatalf("second normalize changed the document (revision %d -> %d)", rev, doc.Revision())
	}
	after := doc.Composite()
	for i := range before.Pix {
		if before.Pix[i] != after.Pix[i] {
			t.Fatal("second normalize changed pixels")
		}
	}
}

func TestNormalizeGrayscaleAndCMYK(t *testing.T) {
	ws := host.NewWorkspace(nil, nil)
	for _, img := range []image.Image{
		image.NewGray16(image.Rect(0, 0, 4, 4)),
		image.NewCMYK(image.Rect(0, 0, 4, 4)),
		image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White}),
	} {
		doc := host.NewDocument("src", img)
		ws.Add(doc)
		if err := Normalize(doc, false); err != nil {
			t.Fatalf("%T: %v", img, err)
		}
		if doc.Mode() != host.ModeRGB || doc.Profile() != host.ProfileSRGB || doc.BitsPerChannel() != 8 {
			t.Fatalf("%T: got %s %q %d-bit", img, doc.Mode(), doc.Profile(), doc.BitsPerChannel())
		}
		if _, ok := doc.Layers()[0].Image.(*image.NRGBA); !ok {
			t.Fatalf("%T: layer stored as %T", img, doc.Layers()[0].Image)
		}
	}
}
