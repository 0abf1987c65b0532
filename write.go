package jp2meta

import (
	"fmt"
	"io"

	"github.com/jp2meta/jp2meta/internal/box"
	"github.com/jp2meta/jp2meta/internal/envelope"
	"github.com/jp2meta/jp2meta/internal/exifcodec"
	"github.com/jp2meta/jp2meta/internal/iptccodec"
	"github.com/jp2meta/jp2meta/internal/jp2err"
	"github.com/jp2meta/jp2meta/internal/metaid"
	"github.com/jp2meta/jp2meta/internal/xmpcodec"
)

// Write serializes img to w: the signature and every non-metadata box are
// carried through byte-for-byte from the original source; the JP2 Header
// box is rebuilt with the current color specification, and Exif, IPTC and
// XMP UUID boxes are regenerated fresh and reinserted immediately after it
// in that fixed order, regardless of where they originally sat.
func (img *Image) Write(w io.Writer) error {
	if !img.good {
		return fmt.Errorf("%w: image was not read successfully", jp2err.ImageWriteFailed)
	}
	sink := envelope.NewSink(w)
	if err := sink.Write(box.Signature[:]); err != nil {
		return err
	}

	count := 0
	ceiling := img.settings.boxCeiling()

	for _, rec := range img.boxes {
		if rec.metadataKind != metaid.KindUnknown {
			continue // regenerated below, right after the JP2 Header box
		}

		if box.KindOf(rec.top.Header.Type) == box.KindHeader {
			icc, _ := img.ICCProfile()
			rebuilt, err := box.RebuildHeader(img.headerPayload, icc, &count, ceiling)
			if err != nil {
				return err
			}
			if err := sink.Write(rebuilt); err != nil {
				return err
			}
			if err := img.writeMetadataBoxes(sink); err != nil {
				return err
			}
			continue
		}

		if err := img.copyVerbatim(sink, rec.top); err != nil {
			return err
		}
	}

	return nil
}

// copyVerbatim streams a box unchanged from its original position in the
// source, without loading its payload into memory.
func (img *Image) copyVerbatim(sink *envelope.Sink, top box.TopBox) error {
	if err := img.reader.SeekAbsolute(top.Start); err != nil {
		return fmt.Errorf("%w: %v", jp2err.ImageWriteFailed, err)
	}
	if err := img.reader.CopyTo(sink.Writer(), top.Header.Length); err != nil {
		return fmt.Errorf("%w: %v", jp2err.ImageWriteFailed, err)
	}
	return nil
}

// writeMetadataBoxes emits fresh Exif, IPTC and XMP UUID boxes, in that
// fixed order, for whichever kinds of metadata the image currently holds.
func (img *Image) writeMetadataBoxes(sink *envelope.Sink) error {
	if img.exifPresent {
		payload, err := exifcodec.Encode(img.exif)
		if err != nil {
			return err
		}
		if len(payload) > 0 {
			if err := writeUUIDBox(sink, metaid.Exif, payload); err != nil {
				return err
			}
		}
	}
	if img.iptcPresent {
		payload, err := iptccodec.Encode(img.iptc)
		if err != nil {
			return err
		}
		if len(payload) > 0 {
			if err := writeUUIDBox(sink, metaid.IPTC, payload); err != nil {
				return err
			}
		}
	}
	if img.xmpPresent {
		payload := xmpcodec.Encode(img.xmp)
		if len(payload) > 0 {
			if err := writeUUIDBox(sink, metaid.XMP, payload); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeUUIDBox(sink *envelope.Sink, id [16]byte, payload []byte) error {
	hdr, err := box.EncodeHeader(uint64(8+16+len(payload)), box.TypeUUID)
	if err != nil {
		return err
	}
	if err := sink.Write(hdr); err != nil {
		return err
	}
	if err := sink.Write(id[:]); err != nil {
		return err
	}
	return sink.Write(payload)
}
