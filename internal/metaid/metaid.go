// Package metaid holds the three well-known UUID values that mark a JP2
// UUID box as carrying Exif, IPTC or XMP metadata, and classifies an
// arbitrary UUID box against them.
package metaid

import "github.com/google/uuid"

// Kind identifies which metadata format, if any, a UUID box's identifier
// names.
type Kind int

const (
	KindUnknown Kind = iota
	KindExif
	KindIPTC
	KindXMP
)

// Exif is the UUID identifying a JP2 UUID box carrying an embedded TIFF/Exif
// stream, spelled out as the ASCII string "JpgTiffExif->JP2".
var Exif = uuid.UUID{
	'J', 'p', 'g', 'T', 'i', 'f', 'f', 'E', 'x', 'i', 'f', '-', '>', 'J', 'P', '2',
}

// IPTC is the UUID identifying a JP2 UUID box carrying an IPTC IIM dataset
// stream.
var IPTC = uuid.UUID{0x33, 0xc7, 0xa4, 0xd2, 0xb8, 0x1d, 0x47, 0x23, 0xa0, 0xba, 0xf1, 0xa3, 0xe0, 0x97, 0xad, 0x38}

// XMP is the UUID identifying a JP2 UUID box carrying a raw XMP packet.
var XMP = uuid.UUID{0xbe, 0x7a, 0xcf, 0xcb, 0x97, 0xa9, 0x42, 0xe8, 0x9c, 0x71, 0x99, 0x94, 0x91, 0xe3, 0xaf, 0xac}

// Of classifies id against the three well-known metadata identifiers.
func Of(id uuid.UUID) Kind {
	switch id {
	case Exif:
		return KindExif
	case IPTC:
		return KindIPTC
	case XMP:
		return KindXMP
	default:
		return KindUnknown
	}
}

// String names a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindExif:
		return "Exif"
	case KindIPTC:
		return "IPTC"
	case KindXMP:
		return "XMP"
	default:
		return "unknown"
	}
}
