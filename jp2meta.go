// Package jp2meta reads and rewrites the Exif, IPTC IIM and XMP metadata
// carried in a JPEG 2000 (JP2) file's box structure, along with the ICC
// profile referenced from its JP2 Header box. It never touches the
// contiguous codestream beyond copying it through unchanged.
package jp2meta

import (
	"io"

	"github.com/jp2meta/jp2meta/internal/box"
	"github.com/jp2meta/jp2meta/internal/envelope"
	"github.com/jp2meta/jp2meta/internal/exifcodec"
	"github.com/jp2meta/jp2meta/internal/iptccodec"
	"github.com/jp2meta/jp2meta/internal/xmpcodec"
)

// Settings configures how an Image reads and validates its source.
type Settings struct {
	// Diagnostics receives non-fatal warnings encountered while walking
	// the box grammar. A nil value discards them.
	Diagnostics DiagnosticSink
	// BoxCeiling overrides the default 1000-box guard shared between the
	// top-level walk and any JP2 Header superbox scan. Zero means use
	// the default.
	BoxCeiling int
}

func (s Settings) boxCeiling() int {
	if s.BoxCeiling > 0 {
		return s.BoxCeiling
	}
	return box.Ceiling
}

// Image is a decoded JP2 file's metadata surface: the Image Header and
// Color Specification of its JP2 Header box, and whichever of Exif, IPTC
// and XMP metadata its UUID boxes carried.
type Image struct {
	settings Settings
	diag     DiagnosticSink

	source io.ReadSeeker
	reader *envelope.Reader
	good   bool

	imageHeader   box.ImageHeader
	colorSpec     box.ColorSpec
	headerPayload []byte

	exif            exifcodec.Store
	exifPresent     bool
	exifNonStandard bool

	iptc        []iptccodec.Dataset
	iptcPresent bool

	xmp        xmpcodec.Packet
	xmpPresent bool

	boxes []recordedBox
}

// NewImage opens source as a JP2 file and reads its box structure,
// returning an Image populated with whatever metadata it carries. A
// caller should still check Good before trusting the result: a source
// that isn't a JP2 file at all still comes back with a non-nil error.
func NewImage(source io.ReadSeeker, settings Settings) (*Image, error) {
	diag := settings.Diagnostics
	if diag == nil {
		diag = discardSink{}
	}
	img := &Image{settings: settings, diag: diag, source: source}
	if err := readImage(img); err != nil {
		return img, err
	}
	return img, nil
}

// Good reports whether the box walk completed without a fatal error. A
// false value means the walk stopped early: the accessors below hold only
// what was decoded before the failure.
func (img *Image) Good() bool {
	return img.good
}

// MimeType returns the MIME type this package always writes: "image/jp2".
func (img *Image) MimeType() string {
	return "image/jp2"
}

// SetComment always fails: the JP2 box grammar has no home for a free-text
// comment, the way the original decoder rejects it too.
func (img *Image) SetComment(string) error {
	return ErrInvalidSettingForImage
}

// ImageHeader returns the decoded Image Header (ihdr) sub-box.
func (img *Image) ImageHeader() box.ImageHeader {
	return img.imageHeader
}

// ColorSpec returns the decoded Color Specification (colr) sub-box.
func (img *Image) ColorSpec() box.ColorSpec {
	return img.colorSpec
}

// ICCProfile returns the embedded ICC profile bytes, if the color
// specification method was restricted-ICC. The second return value is
// false when the image uses an enumerated color space instead.
func (img *Image) ICCProfile() ([]byte, bool) {
	if img.colorSpec.Method != box.ColorMethodICC {
		return nil, false
	}
	return img.colorSpec.ICCProfile, true
}

// SetICCProfile replaces the color specification with a restricted-ICC
// entry carrying icc. Passing an empty slice reverts the image to the
// default enumerated-sRGB color specification on the next Write.
func (img *Image) SetICCProfile(icc []byte) {
	if len(icc) == 0 {
		img.colorSpec = box.ColorSpec{Method: box.ColorMethodEnumerated, EnumCS: 16}
		return
	}
	img.colorSpec = box.ColorSpec{Method: box.ColorMethodICC, ICCProfile: append([]byte(nil), icc...)}
}

// Exif returns the decoded Exif/TIFF store and whether an Exif UUID box
// was present at all.
func (img *Image) Exif() (exifcodec.Store, bool) {
	return img.exif, img.exifPresent
}

// SetExif replaces the image's Exif metadata.
func (img *Image) SetExif(store exifcodec.Store) {
	img.exif = store
	img.exifPresent = true
}

// ClearExif removes any Exif metadata from the image.
func (img *Image) ClearExif() {
	img.exif = exifcodec.Store{}
	img.exifPresent = false
	img.exifNonStandard = false
}

// Iptc returns the decoded IPTC IIM datasets and whether an IPTC UUID box
// was present at all.
func (img *Image) Iptc() ([]iptccodec.Dataset, bool) {
	return img.iptc, img.iptcPresent
}

// SetIptc replaces the image's IPTC metadata.
func (img *Image) SetIptc(datasets []iptccodec.Dataset) {
	img.iptc = datasets
	img.iptcPresent = true
}

// ClearIptc removes any IPTC metadata from the image.
func (img *Image) ClearIptc() {
	img.iptc = nil
	img.iptcPresent = false
}

// Xmp returns the decoded XMP packet and whether an XMP UUID box was
// present at all.
func (img *Image) Xmp() (xmpcodec.Packet, bool) {
	return img.xmp, img.xmpPresent
}

// SetXmp replaces the image's XMP metadata.
func (img *Image) SetXmp(packet xmpcodec.Packet) {
	img.xmp = packet
	img.xmpPresent = true
}

// ClearXmp removes any XMP metadata from the image.
func (img *Image) ClearXmp() {
	img.xmp = xmpcodec.Packet{}
	img.xmpPresent = false
}
