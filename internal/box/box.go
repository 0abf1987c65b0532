// Package box implements the ISO-BMFF-style box grammar of a JP2 file:
// the 8/16-byte header codec, the signature and file-type checks, and the
// Image Header / Color Specification sub-box shapes that live inside the
// JP2 Header superbox.
//
// Every length on the wire is attacker-controlled, so every arithmetic
// step here is performed in uint64 and checked for overflow or envelope
// containment before it is trusted — see internal/envelope for the
// checked-arithmetic helpers this package builds on.
package box

import (
	"encoding/binary"
	"fmt"

	"github.com/jp2meta/jp2meta/internal/envelope"
	"github.com/jp2meta/jp2meta/internal/jp2err"
	"github.com/mixcode/binarystruct"
)

// Type is a 4-byte big-endian box type code.
type Type uint32

// Well-known box type codes (ISO/IEC 15444-1).
const (
	TypeSignature       Type = 0x6A502020 // "jP  "
	TypeFileType        Type = 0x66747970 // "ftyp"
	TypeHeader          Type = 0x6A703268 // "jp2h"
	TypeImageHeader     Type = 0x69686472 // "ihdr"
	TypeColorSpec       Type = 0x636F6C72 // "colr"
	TypeUUID            Type = 0x75756964 // "uuid"
	TypeCodestreamClose Type = 0x6A703263 // "jp2c"
)

// String returns the 4-character type code.
func (t Type) String() string {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(t))
	return string(b)
}

// Kind tags a box by the role it plays in the JP2 grammar.
type Kind int

const (
	KindSignature Kind = iota
	KindFileType
	KindHeader
	KindImageHeader
	KindColorSpec
	KindUUID
	KindCodestreamClose
	KindOther
)

// KindOf classifies a box type code.
func KindOf(t Type) Kind {
	switch t {
	case TypeSignature:
		return KindSignature
	case TypeFileType:
		return KindFileType
	case TypeHeader:
		return KindHeader
	case TypeImageHeader:
		return KindImageHeader
	case TypeColorSpec:
		return KindColorSpec
	case TypeUUID:
		return KindUUID
	case TypeCodestreamClose:
		return KindCodestreamClose
	default:
		return KindOther
	}
}

// Header is a decoded box header. Length is the total box size including
// the header itself; HeaderSize is 8 for the ordinary form and 16 when an
// XLBox extended length was present.
type Header struct {
	Length     uint64
	Type       Type
	HeaderSize uint8
}

// PayloadSize returns Length - HeaderSize, or 0 if that would underflow.
func (h Header) PayloadSize() uint64 {
	sz, ok := envelope.SubChecked(h.Length, uint64(h.HeaderSize))
	if !ok {
		return 0
	}
	return sz
}

// DecodeHeader decodes the box header at the reader's current position,
// resolving the length==0 ("to EOF") and length==1 (XLBox) wire sentinels
// and validating header_size <= length <= remaining envelope bytes. It
// returns the box's starting position along with the header.
func DecodeHeader(r *envelope.Reader) (Header, uint64, error) {
	start := r.Position()
	raw, err := r.ReadExact(8)
	if err != nil {
		return Header{}, start, fmt.Errorf("reading box header at %d: %w", start, err)
	}
	length := uint64(binary.BigEndian.Uint32(raw[0:4]))
	typ := Type(binary.BigEndian.Uint32(raw[4:8]))
	headerSize := uint64(8)

	switch length {
	case 1:
		xl, err := r.ReadExact(8)
		if err != nil {
			return Header{}, start, fmt.Errorf("reading XLBox at %d: %w", start, err)
		}
		length = binary.BigEndian.Uint64(xl)
		headerSize = 16
	case 0:
		remaining, ok := envelope.SubChecked(r.Size(), start)
		if !ok {
			return Header{}, start, fmt.Errorf("%w: box start past envelope end", jp2err.CorruptedMetadata)
		}
		length = remaining
	}

	remaining, ok := envelope.SubChecked(r.Size(), start)
	if !ok {
		return Header{}, start, fmt.Errorf("%w: box start past envelope end", jp2err.CorruptedMetadata)
	}
	if length < headerSize {
		return Header{}, start, fmt.Errorf("%w: box length %d shorter than header %d", jp2err.CorruptedMetadata, length, headerSize)
	}
	if length > remaining {
		return Header{}, start, fmt.Errorf("%w: box length %d exceeds remaining %d bytes", jp2err.CorruptedMetadata, length, remaining)
	}
	return Header{Length: length, Type: typ, HeaderSize: uint8(headerSize)}, start, nil
}

// EncodeHeader encodes an 8-byte box header. The rewriter never emits the
// XLBox form, so a length that would require it fails with ImageTooLarge.
func EncodeHeader(length uint64, typ Type) ([]byte, error) {
	if length > 0xFFFFFFFF {
		return nil, fmt.Errorf("%w: box of type %s needs %d bytes", jp2err.ImageTooLarge, typ, length)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(length))
	binary.BigEndian.PutUint32(buf[4:8], uint32(typ))
	return buf, nil
}

// Signature is the literal 12-byte JP2 signature box.
var Signature = [12]byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A}

// IsJP2 reports whether the next 12 bytes of r are the JP2 signature. When
// advance is false, or the signature does not match, the reader position is
// restored to where it started.
func IsJP2(r *envelope.Reader, advance bool) (bool, error) {
	start := r.Position()
	buf, err := r.ReadExact(12)
	if err != nil {
		_ = r.SeekAbsolute(start)
		return false, nil
	}
	match := [12]byte(buf) == Signature
	if !advance || !match {
		if seekErr := r.SeekAbsolute(start); seekErr != nil {
			return false, seekErr
		}
	}
	return match, nil
}

// fileTypeBox is the on-wire shape of the File Type box payload, decoded
// with struct-tag binary decoding the way mixcode/imageicc decodes TIFF
// IFD entries with binarystruct.
type fileTypeBox struct {
	Brand         uint32   `binary:"uint32"`
	MinorVersion  uint32   `binary:"uint32"`
	Compatibility []uint32 `binary:"[]uint32"`
}

// ValidateFileType checks the brand/minor-version/compatibility shape of a
// File Type box payload per the ISO-BMFF rules. The minimum payload is 8
// bytes (brand + minor version); the trailing bytes are decoded as 4-byte
// compatibility entries, and a final partial entry of fewer than 4 bytes is
// ignored rather than rejected.
func ValidateFileType(payload []byte) error {
	if len(payload) < 8 {
		return fmt.Errorf("%w: file type box payload too short (%d bytes)", jp2err.CorruptedMetadata, len(payload))
	}
	n := (len(payload) - 8) / 4
	full := payload[:8+n*4]
	var ft fileTypeBox
	if _, err := binarystruct.Unmarshal(full, binarystruct.BigEndian, &ft); err != nil {
		return fmt.Errorf("%w: decoding file type box: %v", jp2err.CorruptedMetadata, err)
	}
	return nil
}

// FileTypeBytes encodes a JP2 File Type box payload with brand "jp2 ",
// minor version 0 and a single "jp2 " compatibility entry, as written by
// Create for a blank image.
func FileTypeBytes() []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:4], 0x6A703220)  // "jp2 "
	binary.BigEndian.PutUint32(buf[4:8], 0)           // minor version
	binary.BigEndian.PutUint32(buf[8:12], 0x6A703220) // compatibility: "jp2 "
	return buf
}

// imageHeaderBox is the on-wire shape of the ihdr sub-box payload
// (14 bytes): height, width, component count, bpc, compression type,
// unknown-colorspace flag, IPR flag.
type imageHeaderBox struct {
	Height          uint32 `binary:"uint32"`
	Width           uint32 `binary:"uint32"`
	NumComponents   uint16 `binary:"uint16"`
	BPC             uint8  `binary:"byte"`
	CompressionType uint8  `binary:"byte"`
	UnknownColor    uint8  `binary:"byte"`
	IPR             uint8  `binary:"byte"`
}

// ImageHeader holds the decoded contents of an Image Header (ihdr) box.
type ImageHeader struct {
	Height          uint32
	Width           uint32
	NumComponents   uint16
	BitsPerComp     uint8
	CompressionType uint8
	UnknownColor    uint8
	IPR             uint8
}

// CompressionTypeJP2 is the only compression type value invariant 4
// (spec.md §3) allows for an ihdr box: JPEG 2000.
const CompressionTypeJP2 = 7

// ParseImageHeader decodes and validates an Image Header sub-box payload.
// Per invariant 4, the payload must be exactly 14 bytes and the
// compression-type field must equal CompressionTypeJP2.
func ParseImageHeader(payload []byte) (ImageHeader, error) {
	if len(payload) != 14 {
		return ImageHeader{}, fmt.Errorf("%w: image header payload is %d bytes, want 14", jp2err.CorruptedMetadata, len(payload))
	}
	var raw imageHeaderBox
	if _, err := binarystruct.Unmarshal(payload, binarystruct.BigEndian, &raw); err != nil {
		return ImageHeader{}, fmt.Errorf("%w: decoding image header: %v", jp2err.CorruptedMetadata, err)
	}
	if raw.CompressionType != CompressionTypeJP2 {
		return ImageHeader{}, fmt.Errorf("%w: image header compression type %d, want %d", jp2err.CorruptedMetadata, raw.CompressionType, CompressionTypeJP2)
	}
	return ImageHeader{
		Height:          raw.Height,
		Width:           raw.Width,
		NumComponents:   raw.NumComponents,
		BitsPerComp:     raw.BPC,
		CompressionType: raw.CompressionType,
		UnknownColor:    raw.UnknownColor,
		IPR:             raw.IPR,
	}, nil
}

// Bytes encodes an Image Header sub-box payload.
func (h ImageHeader) Bytes() []byte {
	buf := make([]byte, 14)
	binary.BigEndian.PutUint32(buf[0:4], h.Height)
	binary.BigEndian.PutUint32(buf[4:8], h.Width)
	binary.BigEndian.PutUint16(buf[8:10], h.NumComponents)
	buf[10] = h.BitsPerComp
	buf[11] = h.CompressionType
	buf[12] = h.UnknownColor
	buf[13] = h.IPR
	return buf
}

// ColorSpec holds the decoded contents of a Color Specification (colr)
// sub-box.
type ColorSpec struct {
	Method     uint8
	Precedence uint8
	Approx     uint8
	EnumCS     uint32 // valid only when Method == ColorMethodEnumerated
	ICCProfile []byte // valid only when Method == ColorMethodICC
}

const (
	// ColorMethodEnumerated selects one of the fixed enumerated color
	// spaces (Method == 1).
	ColorMethodEnumerated = 1
	// ColorMethodICC selects a restricted ICC profile (Method == 2).
	ColorMethodICC = 2

	// enumCSsRGB and enumCSGray are the only enumerated color spaces this
	// walker accepts, per spec.md's boundary behavior for METH==1.
	enumCSsRGB = 16
	enumCSGray = 17
)

// ParseColorSpec decodes and validates a Color Specification sub-box
// payload. For Method==1 (enumerated), only sRGB (16) and greyscale (17)
// are accepted; for Method==2 (restricted ICC), the ICC length field must
// fit within the remaining payload (invariant 5). Other methods are
// accepted without further interpretation, matching spec.md §4.4.
func ParseColorSpec(payload []byte) (ColorSpec, error) {
	if len(payload) < 3 {
		return ColorSpec{}, fmt.Errorf("%w: color spec payload too short (%d bytes)", jp2err.CorruptedMetadata, len(payload))
	}
	cs := ColorSpec{Method: payload[0], Precedence: payload[1], Approx: payload[2]}
	rest := payload[3:]

	switch cs.Method {
	case ColorMethodEnumerated:
		if len(rest) < 4 {
			return ColorSpec{}, fmt.Errorf("%w: enumerated color spec missing enumCS field", jp2err.CorruptedMetadata)
		}
		cs.EnumCS = binary.BigEndian.Uint32(rest[0:4])
		if cs.EnumCS != enumCSsRGB && cs.EnumCS != enumCSGray {
			return ColorSpec{}, fmt.Errorf("%w: unsupported enumerated color space %d", jp2err.CorruptedMetadata, cs.EnumCS)
		}
	case ColorMethodICC:
		// The ICC profile is self-describing: its own first 4 bytes are
		// its total length, per the ICC Profile Format Specification.
		// Invariant 5 requires 3 (pad) + icc_length <= payload size.
		if len(rest) < 4 {
			return ColorSpec{}, fmt.Errorf("%w: restricted ICC color spec missing length field", jp2err.CorruptedMetadata)
		}
		iccLen := uint64(binary.BigEndian.Uint32(rest[0:4]))
		if iccLen > uint64(len(rest)) {
			return ColorSpec{}, fmt.Errorf("%w: ICC length %d exceeds color spec payload", jp2err.CorruptedMetadata, iccLen)
		}
		cs.ICCProfile = append([]byte(nil), rest[:iccLen]...)
	}
	return cs, nil
}

// DefaultColorSpecPayload is emitted by the header re-encoder when no ICC
// profile is defined for the image: a 15-byte enumerated-sRGB colr payload.
var DefaultColorSpecPayload = []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x05, 0x1c, 0x75, 0x75, 0x69, 0x64}

// ICCColorSpecPayload encodes a restricted-ICC colr payload carrying icc.
func ICCColorSpecPayload(icc []byte) []byte {
	buf := make([]byte, 3+len(icc))
	buf[0] = ColorMethodICC
	// buf[1], buf[2] (precedence, approximation) are left zero.
	copy(buf[3:], icc)
	return buf
}
