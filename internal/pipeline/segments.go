package pipeline

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var (
	jfifHeader = []byte("JFIF\x00")
	exifHeader = []byte("Exif\x00\x00")
)

// spliceJPEG copies a JPEG stream from r to w, inserting the given APPn
// segments right after SOI. Existing JFIF and EXIF segments are dropped so
// the inserted ones are the only copies.
func spliceJPEG(r io.Reader, w io.Writer, insert ...segment) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return err
	}
	if soi[0] != 0xff || soi[1] != 0xd8 {
		return fmt.Errorf("invalid JPEG SOI")
	}
	if _, err := bw.Write(soi); err != nil {
		return err
	}
	for _, seg := range insert {
		if err := seg.writeTo(bw); err != nil {
			return err
		}
	}

	for {
		marker, err := nextMarker(br)
		if err != nil {
			return err
		}

		if marker == 0xd9 { // EOI
			if _, err := bw.Write([]byte{0xff, 0xd9}); err != nil {
				return err
			}
			break
		}

		if marker == 0xda { // SOS
			if _, err := bw.Write([]byte{0xff, marker}); err != nil {
				return err
			}
			if _, err := io.Copy(bw, br); err != nil {
				return err
			}
			break
		}

		if marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7) {
			if _, err := bw.Write([]byte{0xff, marker}); err != nil {
				return err
			}
			continue
		}

		lenBuf := make([]byte, 2)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			return err
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf))
		if segLen < 2 {
			return fmt.Errorf("invalid JPEG segment length")
		}
		payload := make([]byte, segLen-2)
		if _, err := io.ReadFull(br, payload); err != nil {
			return err
		}
		if (marker == 0xe0 && bytes.HasPrefix(payload, jfifHeader)) ||
			(marker == 0xe1 && bytes.HasPrefix(payload, exifHeader)) {
			continue
		}
		if err := (segment{marker: marker, payload: payload}).writeTo(bw); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func nextMarker(br *bufio.Reader) (byte, error) {
	b, err := br.ReadByte()
	if err != nil {
		return 0, err
	}
	for b != 0xff {
		if b, err = br.ReadByte(); err != nil {
			return 0, err
		}
	}
	for b == 0xff {
		if b, err = br.ReadByte(); err != nil {
			return 0, err
		}
	}
	return b, nil
}

type segment struct {
	marker  byte
	payload []byte
}

func (s segment) writeTo(w io.Writer) error {
	if len(s.payload)+2 > 0xffff {
		return fmt.Errorf("JPEG segment 0x%02x too large: %d bytes", s.marker, len(s.payload))
	}
	head := []byte{0xff, s.marker, 0, 0}
	binary.BigEndian.PutUint16(head[2:], uint16(len(s.payload)+2))
	if _, err := w.Write(head); err != nil {
		return err
	}
	_, err := w.Write(s.payload)
	return err
}

// jfifSegment builds an APP0 JFIF 1.01 header declaring dpi in both axes.
func jfifSegment(dpi int) segment {
	p := make([]byte, 0, 14)
	p = append(p, jfifHeader...)
	p = append(p, 1, 1, 1) // version 1.01, density in dots per inch
	p = binary.BigEndian.AppendUint16(p, uint16(dpi))
	p = binary.BigEndian.AppendUint16(p, uint16(dpi))
	p = append(p, 0, 0) // no thumbnail
	return segment{marker: 0xe0, payload: p}
}
