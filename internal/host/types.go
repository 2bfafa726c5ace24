// Package host models the image application the exporter drives: a workspace
// of open documents, the ambient environment shared by every operation and
// the dialogs used to ask the operator questions.
package host

import (
	"errors"

	"github.com/disintegration/imaging"
)

var (
	ErrNotActive         = errors.New("document is not the active document")
	ErrClosed            = errors.New("document is closed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrNeverSaved        = errors.New("document has never been saved")
)

type Mode int

const (
	ModeRGB Mode = iota
	ModeGrayscale
	ModeCMYK
	ModeIndexed
)

func (m Mode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeGrayscale:
		return "Grayscale"
	case ModeCMYK:
		return "CMYK"
	case ModeIndexed:
		return "Indexed"
	default:
		return "Unknown"
	}
}

// Intent is the rendering intent of a profile conversion.
type Intent int

const (
	IntentPerceptual Intent = iota
	IntentRelativeColorimetric
	IntentAbsoluteColorimetric
	IntentSaturation
)

// ResampleMethod selects the interpolation kernel used by ResizeImage.
type ResampleMethod int

const (
	// ResampleSmoother suits enlargement.
	ResampleSmoother ResampleMethod = iota
	// ResampleSharper suits reduction.
	ResampleSharper
	ResampleNearest
)

func (m ResampleMethod) String() string {
	switch m {
	case ResampleSmoother:
		return "bicubic-smoother"
	case ResampleSharper:
		return "bicubic-sharper"
	case ResampleNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// Filter returns the imaging kernel backing the method.
func (m ResampleMethod) Filter() imaging.ResampleFilter {
	switch m {
	case ResampleSharper:
		return imaging.CatmullRom
	case ResampleNearest:
		return imaging.NearestNeighbor
	default:
		return imaging.MitchellNetravali
	}
}

// Units is the unit lengths passed to resize operations are expressed in.
type Units int

const (
	UnitsPixels Units = iota
	UnitsInches
	UnitsCentimeters
	UnitsPercent
)

func (u Units) String() string {
	switch u {
	case UnitsPixels:
		return "px"
	case UnitsInches:
		return "in"
	case UnitsCentimeters:
		return "cm"
	case UnitsPercent:
		return "%"
	default:
		return "?"
	}
}

// DialogMode controls whether host warnings interrupt the operator.
type DialogMode int

const (
	DialogsAll DialogMode = iota
	DialogsErrors
	DialogsNone
)

// SaveMode is the policy applied to unsaved changes when a document closes.
type SaveMode int

const (
	DoNotSaveChanges SaveMode = iota
	PromptToSaveChanges
	SaveChanges
)
