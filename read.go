package jp2meta

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/jp2meta/jp2meta/internal/box"
	"github.com/jp2meta/jp2meta/internal/envelope"
	"github.com/jp2meta/jp2meta/internal/exifcodec"
	"github.com/jp2meta/jp2meta/internal/iptccodec"
	"github.com/jp2meta/jp2meta/internal/jp2err"
	"github.com/jp2meta/jp2meta/internal/metaid"
	"github.com/jp2meta/jp2meta/internal/xmpcodec"
)

// recordedBox is one top-level box kept for the rewriter: metadataKind ==
// KindUnknown means "copy verbatim from source at write time"; any other
// kind means "regenerated fresh from the decoded store, drop the original."
type recordedBox struct {
	top          box.TopBox
	metadataKind metaid.Kind
}

func readImage(img *Image) error {
	r, err := envelope.NewReader(img.source)
	if err != nil {
		return fmt.Errorf("%w: %v", jp2err.DataSourceOpenFailed, err)
	}
	img.reader = r

	ok, err := box.IsJP2(r, true)
	if err != nil {
		return fmt.Errorf("%w: %v", jp2err.FailedToReadImageData, err)
	}
	if !ok {
		return fmt.Errorf("%w: missing JP2 signature box", jp2err.NotAnImage)
	}

	count := 0
	sawFileType := false
	for {
		top, err := box.NextTop(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", jp2err.CorruptedMetadata, err)
		}
		count++
		if count > img.settings.boxCeiling() {
			return fmt.Errorf("%w: box count exceeds ceiling of %d", jp2err.CorruptedMetadata, img.settings.boxCeiling())
		}

		kind := box.KindOf(top.Header.Type)

		// The Signature box is consumed by box.IsJP2 above and never appears
		// in this loop; a second one here is corrupt. The File Type box must
		// be the very next box after it, matching the original's
		// boxSignatureFound/boxFileTypeFound/lastBoxTypeRead ordering guard.
		if kind == box.KindSignature {
			return fmt.Errorf("%w: duplicate Signature box", jp2err.CorruptedMetadata)
		}
		if count == 1 && kind != box.KindFileType {
			return fmt.Errorf("%w: File Type box must immediately follow the Signature box, found %s", jp2err.CorruptedMetadata, top.Header.Type)
		}

		rec := recordedBox{top: top, metadataKind: metaid.KindUnknown}

		switch kind {
		case box.KindFileType:
			if sawFileType {
				return fmt.Errorf("%w: duplicate File Type box", jp2err.CorruptedMetadata)
			}
			payload, err := r.ReadExact(top.Header.PayloadSize())
			if err != nil {
				return fmt.Errorf("%w: reading file type box: %v", jp2err.CorruptedMetadata, err)
			}
			if err := box.ValidateFileType(payload); err != nil {
				return err
			}
			sawFileType = true

		case box.KindHeader:
			payload, err := r.ReadExact(top.Header.PayloadSize())
			if err != nil {
				return fmt.Errorf("%w: reading JP2 header box: %v", jp2err.CorruptedMetadata, err)
			}
			img.headerPayload = payload
			subs, err := box.WalkHeaderSuperbox(payload, &count, img.settings.boxCeiling())
			if err != nil {
				return err
			}
			for _, sub := range subs {
				switch sub.Type {
				case box.TypeImageHeader:
					ih, err := box.ParseImageHeader(sub.Payload)
					if err != nil {
						return err
					}
					img.imageHeader = ih
				case box.TypeColorSpec:
					cs, err := box.ParseColorSpec(sub.Payload)
					if err != nil {
						return err
					}
					img.colorSpec = cs
				}
			}

		case box.KindUUID:
			payload, err := r.ReadExact(top.Header.PayloadSize())
			if err != nil {
				return fmt.Errorf("%w: reading UUID box: %v", jp2err.CorruptedMetadata, err)
			}
			if len(payload) < 16 {
				img.diag.Warnf("skipping UUID box with payload shorter than a UUID (%d bytes)", len(payload))
				break
			}
			id, err := uuid.FromBytes(payload[:16])
			if err != nil {
				img.diag.Warnf("skipping UUID box with malformed identifier: %v", err)
				break
			}
			body := payload[16:]
			// A UUID match alone drops the box on write, whether or not the
			// codec can actually decode its payload: metadataKind is set here,
			// before the decode attempt below can fail and bail out early.
			rec.metadataKind = metaid.Of(id)
			switch rec.metadataKind {
			case metaid.KindExif:
				store, nonStandard, err := exifcodec.Decode(body)
				if err != nil {
					img.diag.Warnf("dropping Exif UUID box: %v", err)
					break
				}
				if nonStandard {
					img.diag.Warnf("Exif UUID box used a non-standard Exif\\0\\0 prefix instead of a bare TIFF header")
				}
				img.exif = store
				img.exifPresent = true
				img.exifNonStandard = nonStandard
			case metaid.KindIPTC:
				datasets, err := iptccodec.Decode(body)
				if err != nil {
					img.diag.Warnf("dropping IPTC UUID box: %v", err)
					break
				}
				img.iptc = datasets
				img.iptcPresent = true
			case metaid.KindXMP:
				packet, err := xmpcodec.Decode(body)
				if err != nil {
					img.diag.Warnf("dropping XMP UUID box: %v", err)
					break
				}
				if packet.Trimmed > 0 {
					img.diag.Warnf("XMP UUID box had %d bytes of leading garbage before the packet, trimmed", packet.Trimmed)
				}
				img.xmp = packet
				img.xmpPresent = true
			default:
				img.diag.Warnf("skipping UUID box with unrecognized identifier %s", id)
			}

		default:
			// Codestream and other opaque boxes are never loaded into memory;
			// skip straight to the next box's header.
			end, err := top.End()
			if err != nil {
				return err
			}
			if err := r.SeekAbsolute(end); err != nil {
				return fmt.Errorf("%w: %v", jp2err.CorruptedMetadata, err)
			}
		}

		img.boxes = append(img.boxes, rec)
	}

	if !sawFileType {
		return fmt.Errorf("%w: missing File Type box", jp2err.CorruptedMetadata)
	}

	img.good = true
	return nil
}
