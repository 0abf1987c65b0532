package jp2meta

import (
	"bytes"
	"io"
	"testing"
)

func TestCreate_IsGoodAndMinimal(t *testing.T) {
	img, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !img.Good() {
		t.Fatal("Create returned an image that failed its own read-back")
	}
	ih := img.ImageHeader()
	if ih.Width != 1 || ih.Height != 1 || ih.NumComponents != 1 {
		t.Errorf("ImageHeader = %+v, want a 1x1 single-component image", ih)
	}
	if _, present := img.Exif(); present {
		t.Error("a freshly created image should carry no Exif metadata")
	}
}

func TestCreate_WriteRoundTrip(t *testing.T) {
	img, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	var buf bytes.Buffer
	if err := img.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	reread, err := NewImage(bytes.NewReader(buf.Bytes()), Settings{})
	if err != nil {
		t.Fatalf("NewImage on written bytes: %v", err)
	}
	if !reread.Good() {
		t.Fatal("re-read of a freshly created and written image was not good")
	}
	if reread.ImageHeader() != img.ImageHeader() {
		t.Errorf("ImageHeader changed across write/re-read: got %+v, want %+v", reread.ImageHeader(), img.ImageHeader())
	}
}

func TestCreate_ExactBlankLayout(t *testing.T) {
	img, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Read back the bytes Create built, not a rewrite of them: Write
	// normalizes the colr sub-box, which changes the jp2h box's size.
	if _, err := img.source.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	out, err := io.ReadAll(img.source)
	if err != nil {
		t.Fatalf("reading Create's bytes: %v", err)
	}

	if len(out) != 220 {
		t.Fatalf("Create produced %d bytes, want exactly 220", len(out))
	}

	wantFtyp := []byte{
		0x00, 0x00, 0x00, 0x14, // box length: 20
		'f', 't', 'y', 'p',
		'j', 'p', '2', ' ', // brand
		0x00, 0x00, 0x00, 0x00, // minor version
		'j', 'p', '2', ' ', // compatibility
	}
	if !bytes.Equal(out[12:32], wantFtyp) {
		t.Errorf("ftyp box at bytes 12..31 = % x, want % x", out[12:32], wantFtyp)
	}

	if tail := out[len(out)-2:]; !bytes.Equal(tail, []byte{0xff, 0xd9}) {
		t.Errorf("file does not end in the codestream's EOC marker: last bytes = % x, want ff d9", tail)
	}
}
