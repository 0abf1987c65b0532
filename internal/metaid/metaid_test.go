package metaid

import "testing"

func TestExif_IsAsciiLiteral(t *testing.T) {
	if got := string(Exif[:]); got != "JpgTiffExif->JP2" {
		t.Errorf("Exif = %q, want %q", got, "JpgTiffExif->JP2")
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		id   [16]byte
		want Kind
	}{
		{"exif", Exif, KindExif},
		{"iptc", IPTC, KindIPTC},
		{"xmp", XMP, KindXMP},
		{"unknown", [16]byte{1, 2, 3}, KindUnknown},
	}
	for _, tt := range tests {
		if got := Of(tt.id); got != tt.want {
			t.Errorf("Of(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindExif.String() != "Exif" {
		t.Errorf("KindExif.String() = %q", KindExif.String())
	}
	if KindUnknown.String() != "unknown" {
		t.Errorf("KindUnknown.String() = %q", KindUnknown.String())
	}
}
