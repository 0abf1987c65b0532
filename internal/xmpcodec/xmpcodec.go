// Package xmpcodec handles the XMP packet carried in a JP2 XMP UUID box.
// The packet is kept as an opaque byte slice for round-tripping (rewriting
// it is not this package's job), with a best-effort structural decode via
// seehuhn.de/go/xmp exposed for callers that want to inspect it.
package xmpcodec

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/xmp"

	"github.com/jp2meta/jp2meta/internal/jp2err"
)

// leadingAngleBracket is the byte an XMP packet must start with once any
// leading garbage the walker tolerates is stripped.
const leadingAngleBracket = '<'

// Packet holds a raw XMP byte stream plus the number of bytes trimmed off
// its front to reach the leading '<' of the XML declaration or root
// element, per spec.md's boundary behavior for malformed XMP UUID payloads.
type Packet struct {
	Raw     []byte
	Trimmed int
}

// Decode trims any bytes preceding the first '<' from data and wraps the
// remainder as a Packet, warning (via the returned Trimmed count) rather
// than failing outright, matching how the walker treats a stray BOM or
// whitespace prefix elsewhere in the format.
func Decode(data []byte) (Packet, error) {
	idx := bytes.IndexByte(data, leadingAngleBracket)
	if idx < 0 {
		return Packet{}, fmt.Errorf("%w: XMP packet contains no '<'", jp2err.CorruptedMetadata)
	}
	return Packet{Raw: data[idx:], Trimmed: idx}, nil
}

// Tree performs a best-effort structural decode of the packet for callers
// that want to walk properties by namespace and name rather than treat the
// packet as an opaque blob. It is a read-only inspection: the rewriter
// never regenerates XMP content from the returned *xmp.Packet, only from
// the original Raw bytes via Encode.
func (p Packet) Tree() (*xmp.Packet, error) {
	pk, err := xmp.Read(bytes.NewReader(p.Raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing XMP packet: %v", jp2err.CorruptedMetadata, err)
	}
	return pk, nil
}

// Encode returns the packet bytes as they should be written back, which is
// simply the (possibly trimmed) raw packet: the rewriter never regenerates
// XMP content, only relocates it.
func Encode(p Packet) []byte {
	return p.Raw
}
