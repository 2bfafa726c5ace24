package pipeline

import (
	"fmt"

	"jpegbatch/internal/host"
)

// Normalize makes doc exportable as a baseline JPEG: RGB mode, sRGB profile
// and 8 bits per channel. With flatten set the layers are merged first, before
// any colour conversion. Running it on a normalized document changes nothing.
func Normalize(doc *host.Document, flatten bool) error {
	if flatten {
		doc.Flatten()
	}
	if err := doc.ChangeMode(host.ModeRGB); err != nil {
		return fmt.Errorf("convert to RGB: %w", err)
	}
	if err := doc.ConvertProfile(host.ProfileSRGB, host.IntentPerceptual, false, false); err != nil {
		return fmt.Errorf("convert to sRGB: %w", err)
	}
	if err := doc.SetBitsPerChannel(8); err != nil {
		return fmt.Errorf("convert to 8 bits: %w", err)
	}
	return nil
}
