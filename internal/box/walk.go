package box

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jp2meta/jp2meta/internal/envelope"
	"github.com/jp2meta/jp2meta/internal/jp2err"
)

// Ceiling is the maximum number of boxes accepted at the top level, or
// within a single JP2 Header superbox scan (the two loops share one
// counter, per spec.md §4.4), guarding against pathological streams.
const Ceiling = 1000

// TopBox is one decoded box from the top-level sequence: its header and its
// starting offset. The payload is not part of it; callers read or skip it
// from the reader themselves.
type TopBox struct {
	Header Header
	Start  uint64
}

// End returns the offset immediately after this box.
func (b TopBox) End() (uint64, error) {
	end, ok := envelope.AddChecked(b.Start, b.Header.Length)
	if !ok {
		return 0, fmt.Errorf("%w: box end overflows", jp2err.CorruptedMetadata)
	}
	return end, nil
}

// NextTop decodes the next top-level box header without consuming its
// payload, leaving r positioned at the start of the payload. It returns
// io.EOF when r sits exactly at the envelope end.
func NextTop(r *envelope.Reader) (TopBox, error) {
	if r.Remaining() == 0 {
		return TopBox{}, io.EOF
	}
	hdr, start, err := DecodeHeader(r)
	if err != nil {
		return TopBox{}, err
	}
	return TopBox{Header: hdr, Start: start}, nil
}

// SubBox is one decoded sub-box of a JP2 Header superbox.
type SubBox struct {
	Type    Type
	Payload []byte
	Raw     []byte // header + payload, exactly as it appeared on the wire
}

// bytesReadSeeker adapts a byte slice to io.ReadSeeker so the same envelope
// reader used for the top-level stream can also drive a superbox scan.
func bytesReadSeeker(b []byte) io.ReadSeeker {
	return bytes.NewReader(b)
}

// WalkHeaderSuperbox decodes every sub-box of a captured JP2 Header (jp2h)
// payload. count is shared with the caller's top-level box counter so the
// two loops enforce one combined Ceiling, per spec.md §4.4. A sub-box whose
// wire length is 0 terminates the scan without error, as required by
// spec.md §4.4 and §8's boundary behaviors.
func WalkHeaderSuperbox(payload []byte, count *int, ceiling int) ([]SubBox, error) {
	r, err := envelope.NewReader(bytesReadSeeker(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: opening header superbox: %v", jp2err.CorruptedMetadata, err)
	}
	var subs []SubBox
	for r.Remaining() > 0 {
		*count++
		if *count > ceiling {
			return nil, fmt.Errorf("%w: box count exceeds ceiling of %d", jp2err.CorruptedMetadata, ceiling)
		}
		start := r.Position()
		raw, err := r.ReadExact(8)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sub-box header: %v", jp2err.CorruptedMetadata, err)
		}
		length := uint64(binary.BigEndian.Uint32(raw[0:4]))
		typ := Type(binary.BigEndian.Uint32(raw[4:8]))
		if length == 0 {
			break
		}
		headerSize := uint64(8)
		if length == 1 {
			xl, err := r.ReadExact(8)
			if err != nil {
				return nil, fmt.Errorf("%w: reading sub-box XLBox: %v", jp2err.CorruptedMetadata, err)
			}
			length = binary.BigEndian.Uint64(xl)
			headerSize = 16
		}
		remaining, ok := envelope.SubChecked(r.Size(), start)
		if !ok || length < headerSize || length > remaining {
			return nil, fmt.Errorf("%w: sub-box length %d invalid at offset %d", jp2err.CorruptedMetadata, length, start)
		}
		payloadSize := length - headerSize
		subPayload, err := r.ReadExact(payloadSize)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sub-box payload: %v", jp2err.CorruptedMetadata, err)
		}
		end, ok := envelope.AddChecked(start, length)
		if !ok {
			return nil, fmt.Errorf("%w: sub-box end overflows", jp2err.CorruptedMetadata)
		}
		subs = append(subs, SubBox{Type: typ, Payload: subPayload, Raw: payload[start:end]})
	}
	return subs, nil
}
