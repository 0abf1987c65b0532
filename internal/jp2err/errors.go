// Package jp2err defines the error taxonomy shared by the box walker, the
// rewriter and the public facade, so that every layer can wrap the same
// sentinel values with fmt.Errorf("...: %w", ...) and callers can still
// use errors.Is against the taxonomy rather than a message string.
package jp2err

import "errors"

var (
	// DataSourceOpenFailed indicates the reader could not be opened.
	DataSourceOpenFailed = errors.New("data source open failed")

	// NotAnImage indicates the first 12 bytes are not the JP2 signature.
	NotAnImage = errors.New("not an image")

	// CorruptedMetadata indicates a length or invariant check failed.
	CorruptedMetadata = errors.New("corrupted metadata")

	// FailedToReadImageData indicates the reader returned an I/O error
	// mid-box.
	FailedToReadImageData = errors.New("failed to read image data")

	// InputDataReadFailed indicates a short read where a full read was
	// required.
	InputDataReadFailed = errors.New("input data read failed")

	// ImageWriteFailed indicates the sink refused bytes.
	ImageWriteFailed = errors.New("image write failed")

	// InvalidSettingForImage indicates an unsupported setter was called
	// for this image kind (e.g. set_comment on JP2).
	InvalidSettingForImage = errors.New("invalid setting for image")

	// ImageTooLarge indicates a write would require the XLBox form,
	// which the rewriter never emits.
	ImageTooLarge = errors.New("image too large")
)
