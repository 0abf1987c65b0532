package xmpcodec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jp2meta/jp2meta/internal/jp2err"
)

const sampleXMP = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?><x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description rdf:about=""><dc:title>hello</dc:title></rdf:Description></rdf:RDF></x:xmpmeta><?xpacket end="w"?>`

func TestDecode_NoLeadingGarbage(t *testing.T) {
	p, err := Decode([]byte(sampleXMP))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Trimmed != 0 {
		t.Errorf("Trimmed = %d, want 0", p.Trimmed)
	}
	if !bytes.Equal(p.Raw, []byte(sampleXMP)) {
		t.Error("Raw does not match input")
	}
}

func TestDecode_TrimsLeadingGarbage(t *testing.T) {
	garbage := []byte{0xEF, 0xBB, 0xBF} // stray UTF-8 BOM
	data := append(append([]byte(nil), garbage...), sampleXMP...)
	p, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Trimmed != len(garbage) {
		t.Errorf("Trimmed = %d, want %d", p.Trimmed, len(garbage))
	}
	if !bytes.Equal(p.Raw, []byte(sampleXMP)) {
		t.Error("Raw does not match input after trimming")
	}
}

func TestDecode_NoAngleBracket(t *testing.T) {
	if _, err := Decode([]byte("not xml at all")); !errors.Is(err, jp2err.CorruptedMetadata) {
		t.Errorf("Decode = %v, want CorruptedMetadata", err)
	}
}

func TestPacket_Tree(t *testing.T) {
	p, err := Decode([]byte(sampleXMP))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := p.Tree(); err != nil {
		t.Fatalf("Tree: %v", err)
	}
}

func TestEncode_ReturnsRawUnchanged(t *testing.T) {
	p, err := Decode([]byte(sampleXMP))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(Encode(p), p.Raw) {
		t.Error("Encode did not return Raw unchanged")
	}
}
