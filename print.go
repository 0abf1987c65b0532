package jp2meta

import (
	"fmt"
	"io"

	"github.com/jp2meta/jp2meta/internal/box"
	"github.com/jp2meta/jp2meta/internal/metaid"
)

// PrintOption selects what PrintStructure writes.
type PrintOption int

const (
	// PrintBasic lists every top-level box's address, length and type.
	PrintBasic PrintOption = iota
	// PrintRecursive additionally summarizes the JP2 Header's ihdr and
	// colr sub-boxes and lists the fields of any Exif UUID box. IPTC UUID
	// boxes show only their dataset count, as in PrintBasic.
	PrintRecursive
	// PrintICCProfile writes the raw ICC profile bytes only, or nothing
	// if the color specification is not a restricted ICC profile.
	PrintICCProfile
	// PrintXMP writes the raw XMP packet only, or nothing if none is
	// present.
	PrintXMP
	// PrintIPTCErase behaves like PrintBasic but additionally flags any
	// IPTC UUID box as one write_metadata would drop if IPTC were
	// cleared, without actually mutating the image.
	PrintIPTCErase
)

// PrintStructure writes a description of img's box layout to out, in the
// style and detail level selected by option. For an image whose source does
// not start with the JP2 signature it returns ErrNotAnImage.
func (img *Image) PrintStructure(out io.Writer, option PrintOption) error {
	if !img.good {
		if img.reader != nil && img.reader.SeekAbsolute(0) == nil {
			if isJP2, err := box.IsJP2(img.reader, false); err == nil && !isJP2 {
				return fmt.Errorf("%w: JPEG-2000", ErrNotAnImage)
			}
		}
		return fmt.Errorf("%w: image was not read successfully", ErrFailedToReadImageData)
	}

	switch option {
	case PrintICCProfile:
		icc, ok := img.ICCProfile()
		if !ok {
			return nil
		}
		_, err := out.Write(icc)
		return err

	case PrintXMP:
		packet, ok := img.Xmp()
		if !ok {
			return nil
		}
		_, err := out.Write(packet.Raw)
		return err
	}

	if _, err := fmt.Fprintln(out, "STRUCTURE OF JPEG2000 FILE"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, " address |   length | box       | data"); err != nil {
		return err
	}

	for _, rec := range img.boxes {
		if _, err := fmt.Fprintf(out, "%8d | %8d | %s      | ", rec.top.Start, rec.top.Header.Length, rec.top.Header.Type); err != nil {
			return err
		}
		if err := img.printBoxDetail(out, rec, option); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		// The codestream marks the end of the box structure worth walking;
		// stop here rather than continuing past it like the read path does.
		if box.KindOf(rec.top.Header.Type) == box.KindCodestreamClose {
			break
		}
	}
	return nil
}

func (img *Image) printBoxDetail(out io.Writer, rec recordedBox, option PrintOption) error {
	switch box.KindOf(rec.top.Header.Type) {
	case box.KindHeader:
		if option != PrintRecursive {
			return nil
		}
		_, err := fmt.Fprintf(out, "ihdr %dx%d, %d component(s) | colr method %d",
			img.imageHeader.Width, img.imageHeader.Height, img.imageHeader.NumComponents, img.colorSpec.Method)
		return err

	case box.KindUUID:
		switch rec.metadataKind {
		case metaid.KindExif:
			if _, err := fmt.Fprintf(out, "Exif: %d field(s)", len(img.exif.Root.IFD.Fields)); err != nil {
				return err
			}
			if option != PrintRecursive {
				return nil
			}
			for _, f := range img.exif.Root.IFD.Fields {
				if _, err := fmt.Fprintf(out, "\n           tag %d, type %d, count %d", f.Tag, f.Type, f.Count); err != nil {
					return err
				}
			}
			return nil
		case metaid.KindIPTC:
			if option == PrintIPTCErase {
				_, err := fmt.Fprintf(out, "IPTC: %d dataset(s) [would be erased]", len(img.iptc))
				return err
			}
			_, err := fmt.Fprintf(out, "IPTC: %d dataset(s)", len(img.iptc))
			return err
		case metaid.KindXMP:
			_, err := fmt.Fprintf(out, "XMP : %d byte(s)", len(img.xmp.Raw))
			return err
		default:
			_, err := fmt.Fprint(out, "????")
			return err
		}

	default:
		return nil
	}
}
