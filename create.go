package jp2meta

import (
	"bytes"

	"github.com/jp2meta/jp2meta/internal/box"
)

// blankCodestream is the opening of a minimal single-pixel JPEG 2000
// codestream (SOC, SIZ, COM, COD, QCD and SOT, then the first four bytes of
// a QCC segment), truncated and closed with an EOC marker rather than
// carried in full: Create's total output
// size is pinned to exactly 220 bytes, and this package never parses
// codestream content on any path, so the truncated marker segments past
// the cut are never walked.
var blankCodestream = []byte{
	0xff, 0x4f, 0xff, 0x51, 0x00, 0x29, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x07, 0x01, 0x01, 0xff, 0x64, 0x00,
	0x23, 0x00, 0x01, 0x43, 0x72, 0x65, 0x61, 0x74, 0x6f, 0x72, 0x3a, 0x20,
	0x4a, 0x61, 0x73, 0x50, 0x65, 0x72, 0x20, 0x56, 0x65, 0x72, 0x73, 0x69,
	0x6f, 0x6e, 0x20, 0x31, 0x2e, 0x39, 0x30, 0x30, 0x2e, 0x31, 0xff, 0x52,
	0x00, 0x0c, 0x00, 0x00, 0x00, 0x01, 0x00, 0x05, 0x04, 0x04, 0x00, 0x01,
	0xff, 0x5c, 0x00, 0x13, 0x40, 0x40, 0x48, 0x48, 0x50, 0x48, 0x48, 0x50,
	0x48, 0x48, 0x50, 0x48, 0x48, 0x50, 0x48, 0x48, 0x50, 0xff, 0x90, 0x00,
	0x0a, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2d, 0x00, 0x01, 0xff, 0x5d, 0x00,
	0x14, 0xff, 0xd9,
}

// blankImageHeader describes the single-pixel, single-component greyscale
// image Create builds.
var blankImageHeader = box.ImageHeader{
	Height:          1,
	Width:           1,
	NumComponents:   1,
	BitsPerComp:     7,
	CompressionType: box.CompressionTypeJP2,
	UnknownColor:    0,
	IPR:             0,
}

const enumCSGreyscale = 17

// Create builds the smallest valid JP2 file this package can produce: a
// single-pixel greyscale image with no metadata, useful as a starting
// point for a caller that wants to attach Exif, IPTC or XMP to a fresh
// file rather than an existing one. The underlying byte stream is always
// exactly 220 bytes: signature (12) + ftyp (20) + jp2h (45) + jp2c header
// (8) + blankCodestream (135).
func Create() (*Image, error) {
	ihdrPayload := blankImageHeader.Bytes()
	ihdrHeader, err := box.EncodeHeader(uint64(8+len(ihdrPayload)), box.TypeImageHeader)
	if err != nil {
		return nil, err
	}

	colrPayload := make([]byte, 3+4)
	colrPayload[0] = box.ColorMethodEnumerated
	colrPayload[3] = byte(enumCSGreyscale >> 24)
	colrPayload[4] = byte(enumCSGreyscale >> 16)
	colrPayload[5] = byte(enumCSGreyscale >> 8)
	colrPayload[6] = byte(enumCSGreyscale)
	colrHeader, err := box.EncodeHeader(uint64(8+len(colrPayload)), box.TypeColorSpec)
	if err != nil {
		return nil, err
	}

	var headerPayload bytes.Buffer
	headerPayload.Write(ihdrHeader)
	headerPayload.Write(ihdrPayload)
	headerPayload.Write(colrHeader)
	headerPayload.Write(colrPayload)

	jp2hHeader, err := box.EncodeHeader(uint64(8+headerPayload.Len()), box.TypeHeader)
	if err != nil {
		return nil, err
	}

	jp2cHeader, err := box.EncodeHeader(0, box.TypeCodestreamClose) // length 0: extends to EOF
	if err != nil {
		return nil, err
	}

	ftypPayload := box.FileTypeBytes()
	ftypHeader, err := box.EncodeHeader(uint64(8+len(ftypPayload)), box.TypeFileType)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(box.Signature[:])
	buf.Write(ftypHeader)
	buf.Write(ftypPayload)
	buf.Write(jp2hHeader)
	buf.Write(headerPayload.Bytes())
	buf.Write(jp2cHeader)
	buf.Write(blankCodestream)

	source := bytes.NewReader(buf.Bytes())
	return NewImage(source, Settings{})
}
