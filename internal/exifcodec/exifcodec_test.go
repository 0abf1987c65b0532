package exifcodec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/garyhouston/tiff66"
)

func sampleStore() Store {
	desc := []byte("hello\x00")
	root := &tiff66.IFDNode{
		Space: tiff66.TIFFSpace,
		IFD: tiff66.IFD_T{
			Fields: []tiff66.Field{
				{Tag: tiff66.ImageDescription, Type: tiff66.ASCII, Count: uint32(len(desc)), Data: desc},
			},
		},
	}
	return Store{Order: binary.BigEndian, Root: root}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	encoded, err := Encode(sampleStore())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	store, nonStandard, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if nonStandard {
		t.Error("Decode reported a non-standard marker scan for a byte-exact TIFF header")
	}
	if len(store.Root.IFD.Fields) != 1 || store.Root.IFD.Fields[0].Tag != tiff66.ImageDescription {
		t.Fatalf("decoded fields = %+v", store.Root.IFD.Fields)
	}
}

func TestDecode_ScansForExifMarker(t *testing.T) {
	encoded, err := Encode(sampleStore())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	withMarker := append(append([]byte(nil), marker...), encoded...)

	store, nonStandard, err := Decode(withMarker)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !nonStandard {
		t.Error("Decode did not report the non-standard Exif\\0\\0 marker scan")
	}
	if len(store.Root.IFD.Fields) != 1 {
		t.Fatalf("decoded fields = %+v", store.Root.IFD.Fields)
	}
}

func TestEncode_NeverReproducesMarker(t *testing.T) {
	encoded, err := Encode(sampleStore())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bytes.HasPrefix(encoded, marker) {
		t.Error("Encode reproduced the non-standard Exif\\0\\0 marker")
	}
}

func TestDecode_RejectsNonTIFF(t *testing.T) {
	if _, _, err := Decode([]byte("not a tiff stream at all, no markers here either")); err == nil {
		t.Error("Decode on non-TIFF data: want error")
	}
}

func TestDecode_RejectsTooShort(t *testing.T) {
	if _, _, err := Decode([]byte{0x4d, 0x4d}); err == nil {
		t.Error("Decode on truncated header: want error")
	}
}

func TestDecode_ShortIIPrefixFallsThroughToMarkerScan(t *testing.T) {
	// "II" alone is too short to be a real TIFF header (needs > 8 bytes),
	// so it should fall to the marker scan rather than being treated as
	// a truncated TIFF header.
	_, _, err := Decode([]byte("II\x00\x00"))
	if err == nil {
		t.Fatal("Decode on a bare short II prefix: want error")
	}
	const wantMsg = "no TIFF header or Exif marker found"
	if got := err.Error(); !bytes.Contains([]byte(got), []byte(wantMsg)) {
		t.Errorf("Decode error = %q, want it to mention %q (marker-scan path, not the TIFF-header-too-short path)", got, wantMsg)
	}
}
