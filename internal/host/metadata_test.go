package host

import (
	"slices"
	"testing"
)

func TestMetadataSensitive(t *testing.T) {
	var m Metadata
	for _, tag := range [][2]string{
		{"Orientation", "IFD"},
		{"GPSLatitude", "IFD/GPSInfo"},
		{"GPSLongitude", "IFD/GPSInfo"},
		{"Model", "IFD"},
		{"DateTimeOriginal", "IFD/Exif"},
		{"BodySerialNumber", "IFD/Exif"},
	} {
		m.observe(tag[0], tag[1])
	}
	if m.Tags != 6 || m.GPS != 2 || m.Serials != 1 {
		t.Fatalf("counts = %+v", m)
	}
	want := []string{"location", "camera", "capture time", "serial numbers"}
	if got := m.Sensitive(); !slices.Equal(got, want) {
		t.Fatalf("Sensitive() = %v, want %v", got, want)
	}

	var plain Metadata
	plain.observe("Orientation", "IFD")
	if len(plain.Sensitive()) != 0 {
		t.Fatalf("orientation flagged as sensitive: %v", plain.Sensitive())
	}
}
