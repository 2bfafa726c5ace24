package host

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
)

const (
	ProfileSRGB       = "sRGB IEC61966-2.1"
	ProfileAdobeRGB   = "Adobe RGB (1998)"
	ProfileDisplayP3  = "Display P3"
	ProfileLinearSRGB = "Linear sRGB"
)

var ErrUnknownProfile = errors.New("unknown colour profile")

type mat3 [3][3]float64

// Profile is an RGB colour space defined by its primaries (as an RGB to XYZ
// matrix, D65 white) and its transfer curve.
type Profile struct {
	Name   string
	toXYZ  mat3
	decode func(float64) float64
	encode func(float64) float64
}

var (
	sRGB = Profile{
		Name: ProfileSRGB,
		toXYZ: mat3{
			{0.4124564, 0.3575761, 0.1804375},
			{0.2126729, 0.7151522, 0.0721750},
			{0.0193339, 0.1191920, 0.9503041},
		},
		decode: srgbDecode,
		encode: srgbEncode,
	}
	adobeRGB = Profile{
		Name: ProfileAdobeRGB,
		toXYZ: mat3{
			{0.5767309, 0.1855540, 0.1881852},
			{0.2973769, 0.6273491, 0.0752741},
			{0.0270343, 0.0706872, 0.9911085},
		},
		decode: gammaDecode(563.0 / 256.0),
		encode: gammaEncode(563.0 / 256.0),
	}
	displayP3 = Profile{
		Name: ProfileDisplayP3,
		toXYZ: mat3{
			{0.4865709, 0.2656677, 0.1982173},
			{0.2289746, 0.6917385, 0.0792869},
			{0.0000000, 0.0451134, 1.0439444},
		},
		decode: srgbDecode,
		encode: srgbEncode,
	}
	linearSRGB = Profile{
		Name:   ProfileLinearSRGB,
		toXYZ:  sRGB.toXYZ,
		decode: func(v float64) float64 { return v },
		encode: func(v float64) float64 { return v },
	}

	profiles = []Profile{sRGB, adobeRGB, displayP3, linearSRGB}
)

// LookupProfile finds a known profile by name. Matching ignores case and
// accepts the short names "srgb", "adobe rgb", "p3" and "linear".
func LookupProfile(name string) (Profile, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "srgb":
		return sRGB, true
	case "adobe rgb", "adobergb":
		return adobeRGB, true
	case "p3":
		return displayP3, true
	case "linear":
		return linearSRGB, true
	}
	for _, p := range profiles {
		if strings.ToLower(p.Name) == n {
			return p, true
		}
	}
	return Profile{}, false
}

// convertPixels maps every pixel of img from src into dst, returning a
// 16-bit image. Alpha is carried through unchanged.
func convertPixels(img image.Image, src, dst Profile) *image.NRGBA64 {
	m := dst.fromXYZ().mul(src.toXYZ)
	b := img.Bounds()
	out := image.NewNRGBA64(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			lin := [3]float64{
				src.decode(float64(c.R) / 0xffff),
				src.decode(float64(c.G) / 0xffff),
				src.decode(float64(c.B) / 0xffff),
			}
			v := m.apply(lin)
			out.SetNRGBA64(x, y, color.NRGBA64{
				R: quantize16(dst.encode(clamp01(v[0]))),
				G: quantize16(dst.encode(clamp01(v[1]))),
				B: quantize16(dst.encode(clamp01(v[2]))),
				A: c.A,
			})
		}
	}
	return out
}

func (p Profile) fromXYZ() mat3 { return p.toXYZ.inverse() }

func (m mat3) mul(n mat3) mat3 {
	var r mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return r
}

func (m mat3) apply(v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func (m mat3) inverse() mat3 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]
	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	return mat3{
		{(e*i - f*h) / det, (c*h - b*i) / det, (b*f - c*e) / det},
		{(f*g - d*i) / det, (a*i - c*g) / det, (c*d - a*f) / det},
		{(d*h - e*g) / det, (b*g - a*h) / det, (a*e - b*d) / det},
	}
}

func srgbDecode(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func srgbEncode(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func gammaDecode(g float64) func(float64) float64 {
	return func(v float64) float64 { return math.Pow(v, g) }
}

func gammaEncode(g float64) func(float64) float64 {
	return func(v float64) float64 { return math.Pow(v, 1/g) }
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func quantize16(v float64) uint16 {
	return uint16(math.Round(v * 0xffff))
}
