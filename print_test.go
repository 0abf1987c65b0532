package jp2meta

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jp2meta/jp2meta/internal/iptccodec"
)

func TestPrintStructure_Basic(t *testing.T) {
	img, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	var buf bytes.Buffer
	if err := img.PrintStructure(&buf, PrintBasic); err != nil {
		t.Fatalf("PrintStructure: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ftyp", "jp2h", "jp2c"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintStructure output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStructure_IPTCErase(t *testing.T) {
	img, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ds, err := iptccodec.TextDataset(2, 5, "caption")
	if err != nil {
		t.Fatalf("TextDataset: %v", err)
	}
	img.SetIptc([]iptccodec.Dataset{ds})

	var buf bytes.Buffer
	if err := img.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	reread, err := NewImage(bytes.NewReader(buf.Bytes()), Settings{})
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}

	var out bytes.Buffer
	if err := reread.PrintStructure(&out, PrintIPTCErase); err != nil {
		t.Fatalf("PrintStructure: %v", err)
	}
	if !strings.Contains(out.String(), "would be erased") {
		t.Errorf("PrintStructure(PrintIPTCErase) output missing erase flag:\n%s", out.String())
	}
}

func TestPrintStructure_ICCOnly_NoProfile(t *testing.T) {
	img, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	var buf bytes.Buffer
	if err := img.PrintStructure(&buf, PrintICCProfile); err != nil {
		t.Fatalf("PrintStructure: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("PrintStructure(PrintICCProfile) on an image with no ICC profile wrote %d bytes, want 0", buf.Len())
	}
}
