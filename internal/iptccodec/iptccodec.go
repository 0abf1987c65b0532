// Package iptccodec decodes and re-encodes the IPTC IIM (Information
// Interchange Model) dataset stream carried in a JP2 IPTC UUID box. IIM
// text datasets are conventionally ISO-8859-1, decoded here with
// golang.org/x/text/encoding/charmap the way legacy text encodings are
// handled elsewhere in the pack.
package iptccodec

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/jp2meta/jp2meta/internal/jp2err"
)

// tagMarker is the fixed first byte of every IIM dataset tag.
const tagMarker = 0x1C

// Dataset is one IIM record:dataset pair with its raw value bytes.
type Dataset struct {
	Record  uint8
	DataSet uint8
	Value   []byte
}

// Text decodes Value as ISO-8859-1, the encoding IIM text datasets use in
// practice.
func (d Dataset) Text() (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(d.Value)
	if err != nil {
		return "", fmt.Errorf("decoding IIM dataset %d:%d as ISO-8859-1: %w", d.Record, d.DataSet, err)
	}
	return string(out), nil
}

// TextDataset builds a Dataset carrying text re-encoded as ISO-8859-1.
func TextDataset(record, dataset uint8, text string) (Dataset, error) {
	enc, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return Dataset{}, fmt.Errorf("encoding IIM dataset %d:%d as ISO-8859-1: %w", record, dataset, err)
	}
	return Dataset{Record: record, DataSet: dataset, Value: []byte(enc)}, nil
}

// Decode parses a stream of IIM datasets. Each dataset is a tag marker
// (0x1C), a record number, a dataset number, a 2-byte big-endian length and
// that many value bytes. The extended-length (bit 15 of the length field
// set) form is not produced by any encoder this walker targets and is
// rejected as corrupted, matching the walker's stance on unsupported wire
// extensions elsewhere in the format.
func Decode(data []byte) ([]Dataset, error) {
	var out []Dataset
	for len(data) > 0 {
		if len(data) < 5 {
			return nil, fmt.Errorf("%w: truncated IIM dataset header", jp2err.CorruptedMetadata)
		}
		if data[0] != tagMarker {
			return nil, fmt.Errorf("%w: IIM dataset missing tag marker 0x1C", jp2err.CorruptedMetadata)
		}
		record, dataset := data[1], data[2]
		length := binary.BigEndian.Uint16(data[3:5])
		if length&0x8000 != 0 {
			return nil, fmt.Errorf("%w: IIM extended dataset length not supported", jp2err.CorruptedMetadata)
		}
		data = data[5:]
		if int(length) > len(data) {
			return nil, fmt.Errorf("%w: IIM dataset length %d exceeds remaining stream", jp2err.CorruptedMetadata, length)
		}
		value := append([]byte(nil), data[:length]...)
		data = data[length:]
		out = append(out, Dataset{Record: record, DataSet: dataset, Value: value})
	}
	return out, nil
}

// Encode serializes datasets back into an IIM stream.
func Encode(datasets []Dataset) ([]byte, error) {
	var out []byte
	for _, d := range datasets {
		if len(d.Value) > 0x7FFF {
			return nil, fmt.Errorf("%w: IIM dataset %d:%d value too long for the standard length form", jp2err.ImageTooLarge, d.Record, d.DataSet)
		}
		header := []byte{tagMarker, d.Record, d.DataSet, 0, 0}
		binary.BigEndian.PutUint16(header[3:5], uint16(len(d.Value)))
		out = append(out, header...)
		out = append(out, d.Value...)
	}
	return out, nil
}
