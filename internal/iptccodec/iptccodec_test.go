package iptccodec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jp2meta/jp2meta/internal/jp2err"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	caption, err := TextDataset(2, 120, "a café photo")
	if err != nil {
		t.Fatalf("TextDataset: %v", err)
	}
	encoded, err := Encode([]Dataset{caption})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Record != 2 || decoded[0].DataSet != 120 {
		t.Fatalf("Decode = %+v", decoded)
	}
	if !bytes.Equal(decoded[0].Value, caption.Value) {
		t.Errorf("Value = %x, want %x", decoded[0].Value, caption.Value)
	}
}

func TestDataset_Text_ISO8859_1(t *testing.T) {
	d := Dataset{Record: 2, DataSet: 5, Value: []byte{'c', 'a', 'f', 0xe9}}
	text, err := d.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "café" {
		t.Errorf("Text() = %q, want %q", text, "café")
	}
}

func TestDecode_MissingTagMarker(t *testing.T) {
	if _, err := Decode([]byte{0x00, 2, 5, 0, 0}); !errors.Is(err, jp2err.CorruptedMetadata) {
		t.Errorf("Decode bad marker = %v, want CorruptedMetadata", err)
	}
}

func TestDecode_LengthExceedsStream(t *testing.T) {
	if _, err := Decode([]byte{0x1C, 2, 5, 0, 10}); !errors.Is(err, jp2err.CorruptedMetadata) {
		t.Errorf("Decode oversized length = %v, want CorruptedMetadata", err)
	}
}

func TestDecode_ExtendedLengthUnsupported(t *testing.T) {
	if _, err := Decode([]byte{0x1C, 2, 5, 0x80, 0}); !errors.Is(err, jp2err.CorruptedMetadata) {
		t.Errorf("Decode extended length = %v, want CorruptedMetadata", err)
	}
}

func TestDecode_MultipleDatasets(t *testing.T) {
	d1, _ := TextDataset(2, 5, "keyword one")
	d2, _ := TextDataset(2, 5, "keyword two")
	encoded, err := Encode([]Dataset{d1, d2})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("Decode = %d datasets, want 2", len(decoded))
	}
}
