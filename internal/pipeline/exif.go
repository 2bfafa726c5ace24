package pipeline

import (
	"fmt"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// exifSegment builds an APP1 EXIF block that declares the sRGB colour space
// and the output resolution.
func exifSegment(dpi int) (segment, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return segment{}, fmt.Errorf("exif mapping: %w", err)
	}
	ti := exif.NewTagIndex()
	ib := exif.NewIfdBuilder(im, ti, exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)

	res := []exifcommon.Rational{{Numerator: uint32(dpi), Denominator: 1}}
	root := []struct {
		name  string
		value any
	}{
		{"XResolution", res},
		{"YResolution", res},
		{"ResolutionUnit", []uint16{2}},
		{"Software", "jpegbatch"},
	}
	for _, tag := range root {
		if err := ib.AddStandardWithName(tag.name, tag.value); err != nil {
			return segment{}, fmt.Errorf("exif %s: %w", tag.name, err)
		}
	}

	exifIb, err := exif.GetOrCreateIbFromRootIb(ib, "IFD/Exif")
	if err != nil {
		return segment{}, fmt.Errorf("exif sub-IFD: %w", err)
	}
	if err := exifIb.AddStandardWithName("ColorSpace", []uint16{1}); err != nil {
		return segment{}, fmt.Errorf("exif ColorSpace: %w", err)
	}

	data, err := exif.NewIfdByteEncoder().EncodeToExif(ib)
	if err != nil {
		return segment{}, fmt.Errorf("encode exif: %w", err)
	}
	payload := make([]byte, 0, len(exifHeader)+len(data))
	payload = append(payload, exifHeader...)
	payload = append(payload, data...)
	return segment{marker: 0xe1, payload: payload}, nil
}
