package host

import "strings"

// Metadata summarises the identifying EXIF a source file carried. Exported
// JPEGs are written from pixels, so none of it reaches the output.
type Metadata struct {
	Tags      int
	GPS       int
	Camera    bool
	Timestamp bool
	Serials   int
}

func (m *Metadata) observe(name, ifdPath string) {
	m.Tags++
	if strings.HasPrefix(name, "GPS") || strings.Contains(ifdPath, "GPS") {
		m.GPS++
	}
	switch name {
	case "Make", "Model", "LensModel", "CameraOwnerName":
		m.Camera = true
	case "DateTime", "DateTimeOriginal", "DateTimeDigitized":
		m.Timestamp = true
	}
	if strings.Contains(strings.ToLower(name), "serial") {
		m.Serials++
	}
}

// Sensitive lists the kinds of identifying metadata present, for display.
func (m Metadata) Sensitive() []string {
	var out []string
	if m.GPS > 0 {
		out = append(out, "location")
	}
	if m.Camera {
		out = append(out, "camera")
	}
	if m.Timestamp {
		out = append(out, "capture time")
	}
	if m.Serials > 0 {
		out = append(out, "serial numbers")
	}
	return out
}
