package jp2meta

import "github.com/jp2meta/jp2meta/internal/jp2err"

// The sentinel errors below are the public error taxonomy: every error this
// package returns wraps one of them, so callers can branch with errors.Is
// regardless of the specific message attached.
var (
	// ErrDataSourceOpenFailed indicates the reader could not be opened.
	ErrDataSourceOpenFailed = jp2err.DataSourceOpenFailed
	// ErrNotAnImage indicates the first 12 bytes are not the JP2 signature.
	ErrNotAnImage = jp2err.NotAnImage
	// ErrCorruptedMetadata indicates a length or invariant check failed
	// while walking the box grammar.
	ErrCorruptedMetadata = jp2err.CorruptedMetadata
	// ErrFailedToReadImageData indicates the reader returned an I/O error
	// mid-box.
	ErrFailedToReadImageData = jp2err.FailedToReadImageData
	// ErrInputDataReadFailed indicates a short read where a full read was
	// required.
	ErrInputDataReadFailed = jp2err.InputDataReadFailed
	// ErrImageWriteFailed indicates the sink refused bytes during a write.
	ErrImageWriteFailed = jp2err.ImageWriteFailed
	// ErrInvalidSettingForImage indicates a setter was called that this
	// image kind does not support.
	ErrInvalidSettingForImage = jp2err.InvalidSettingForImage
	// ErrImageTooLarge indicates a write would require the XLBox form,
	// which the rewriter never emits.
	ErrImageTooLarge = jp2err.ImageTooLarge
)
