// Package exifcodec decodes and re-encodes the TIFF/Exif stream carried in
// a JP2 Exif UUID box, using the IFD tree model from
// github.com/garyhouston/tiff66.
package exifcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/garyhouston/tiff66"

	"github.com/jp2meta/jp2meta/internal/jp2err"
)

// marker is the literal 6-byte prefix some non-standard encoders write
// before the TIFF header even inside a UUID box, where the JP2 grammar has
// no place for it.
var marker = []byte("Exif\x00\x00")

// Store holds a decoded Exif/TIFF IFD tree together with the byte order it
// was read in, so a later Encode reproduces the same field widths.
type Store struct {
	Order binary.ByteOrder
	Root  *tiff66.IFDNode
}

// Decode locates and parses a TIFF/Exif stream within data. It first checks
// for a TIFF byte-order marker ("II" or "MM") at the very start; failing
// that, it scans the stream for a literal "Exif\0\0" marker and decodes
// from just past it. NonStandard reports whether the scan path was taken,
// so a caller can surface a diagnostic the way the byte-exact marker case
// never needs to.
func Decode(data []byte) (store Store, nonStandard bool, err error) {
	pos := -1
	if len(data) > 8 && data[0] == data[1] && (data[0] == 'I' || data[0] == 'M') {
		pos = 0
	}
	if pos < 0 {
		for i := 0; i+len(marker) <= len(data); i++ {
			if bytes.Equal(data[i:i+len(marker)], marker) {
				pos = i + len(marker)
				nonStandard = true
				break
			}
		}
	}
	if pos < 0 {
		return Store{}, false, fmt.Errorf("%w: no TIFF header or Exif marker found", jp2err.CorruptedMetadata)
	}
	body := data[pos:]
	if len(body) < 8 {
		return Store{}, nonStandard, fmt.Errorf("%w: Exif stream too short for a TIFF header", jp2err.CorruptedMetadata)
	}
	ok, order, ifdPos := tiff66.GetHeader(body)
	if !ok {
		return Store{}, nonStandard, fmt.Errorf("%w: not a valid TIFF header", jp2err.CorruptedMetadata)
	}
	root, err := tiff66.GetIFDTree(body, order, ifdPos, tiff66.TIFFSpace)
	if err != nil {
		return Store{}, nonStandard, fmt.Errorf("%w: decoding Exif IFD tree: %v", jp2err.CorruptedMetadata, err)
	}
	return Store{Order: order, Root: root}, nonStandard, nil
}

// Encode serializes s into a plain TIFF stream with the 0th IFD placed
// immediately after the 8-byte header. It never reproduces the non-standard
// "Exif\0\0" prefix Decode tolerates on read.
func Encode(s Store) ([]byte, error) {
	s.Root.Fix(s.Order)
	size := s.Root.TreeSize(s.Order) + 8
	buf := make([]byte, size)
	tiff66.PutHeader(buf, s.Order, 8)
	if _, err := s.Root.PutIFDTree(buf, 8, s.Order); err != nil {
		return nil, fmt.Errorf("%w: encoding Exif IFD tree: %v", jp2err.ImageWriteFailed, err)
	}
	return buf, nil
}
