package box

import "fmt"

// RebuildHeader re-encodes a JP2 Header (jp2h) box, replacing its Color
// Specification sub-box with either the default enumerated-sRGB payload, or,
// when icc is non-empty, a restricted-ICC payload carrying it. Only the first
// colr sub-box is replaced; every other sub-box, including any later colr
// box, is carried through byte-for-byte in its original order. A header
// with no existing colr box gets one appended after its last sub-box. This
// implements the four-step algorithm of spec.md §4.6.
func RebuildHeader(headerPayload []byte, icc []byte, count *int, ceiling int) ([]byte, error) {
	subs, err := WalkHeaderSuperbox(headerPayload, count, ceiling)
	if err != nil {
		return nil, fmt.Errorf("walking JP2 Header for rebuild: %w", err)
	}

	newColrPayload := DefaultColorSpecPayload
	if len(icc) > 0 {
		newColrPayload = ICCColorSpecPayload(icc)
	}
	colrHeader, err := EncodeHeader(uint64(8+len(newColrPayload)), TypeColorSpec)
	if err != nil {
		return nil, fmt.Errorf("encoding rebuilt color spec header: %w", err)
	}
	newColr := append(append([]byte(nil), colrHeader...), newColrPayload...)

	var out []byte
	replaced := false
	for _, sub := range subs {
		if sub.Type == TypeColorSpec && !replaced {
			// Only the first colr box is replaced; any later one is copied
			// through like every other sub-box.
			out = append(out, newColr...)
			replaced = true
			continue
		}
		out = append(out, sub.Raw...)
	}
	if !replaced {
		out = append(out, newColr...)
	}

	outerHeader, err := EncodeHeader(uint64(8+len(out)), TypeHeader)
	if err != nil {
		return nil, fmt.Errorf("encoding rebuilt JP2 Header: %w", err)
	}
	return append(outerHeader, out...), nil
}
