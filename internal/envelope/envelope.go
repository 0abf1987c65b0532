// Package envelope provides a bounded byte-stream reader and sink for the
// JP2 box walker. Every read is checked against the declared file envelope
// so that an attacker-controlled length can never cross it.
package envelope

import (
	"errors"
	"fmt"
	"io"
)

// ErrShort is returned when a read would cross the end of the envelope.
var ErrShort = errors.New("short read: past end of envelope")

// ErrOutOfRange is returned when a seek would land outside the envelope.
var ErrOutOfRange = errors.New("seek out of range")

// Reader is a bounded, seekable view over a byte stream. All size
// arithmetic is performed in uint64 and checked for overflow before any
// comparison, so a corrupted length can never trigger an unbounded read.
type Reader struct {
	rs   io.ReadSeeker
	size uint64
}

// NewReader wraps rs, measuring its total size up front and leaving the
// stream positioned at the start.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measuring envelope size: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding envelope: %w", err)
	}
	return &Reader{rs: rs, size: uint64(end)}, nil
}

// Size returns the total size of the envelope.
func (r *Reader) Size() uint64 {
	return r.size
}

// Position returns the current offset within the envelope.
func (r *Reader) Position() uint64 {
	pos, err := r.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	return uint64(pos)
}

// Remaining returns the number of bytes left before the envelope ends.
func (r *Reader) Remaining() uint64 {
	pos := r.Position()
	if pos >= r.size {
		return 0
	}
	return r.size - pos
}

// ReadExact reads exactly n bytes, failing with ErrShort if that would
// cross the envelope boundary.
func (r *Reader) ReadExact(n uint64) ([]byte, error) {
	if n > r.Remaining() {
		return nil, ErrShort
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.rs, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShort, err)
	}
	return buf, nil
}

// Peek reads n bytes without advancing the logical position, restoring it
// afterwards regardless of outcome.
func (r *Reader) Peek(n uint64) ([]byte, error) {
	start := r.Position()
	buf, err := r.ReadExact(n)
	if seekErr := r.SeekAbsolute(start); seekErr != nil && err == nil {
		err = seekErr
	}
	return buf, err
}

// SeekAbsolute moves to an absolute offset within the envelope.
func (r *Reader) SeekAbsolute(pos uint64) error {
	if pos > r.size {
		return ErrOutOfRange
	}
	if _, err := r.rs.Seek(int64(pos), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return nil
}

// SeekRelative moves by delta bytes relative to the current position.
func (r *Reader) SeekRelative(delta int64) error {
	cur := int64(r.Position())
	next := cur + delta
	if next < 0 || uint64(next) > r.size {
		return ErrOutOfRange
	}
	return r.SeekAbsolute(uint64(next))
}

// CopyTo streams exactly n bytes from the current position to w without
// buffering them in memory, for verbatim passthrough of large boxes such as
// the contiguous codestream.
func (r *Reader) CopyTo(w io.Writer, n uint64) error {
	if n > r.Remaining() {
		return ErrShort
	}
	copied, err := io.CopyN(w, r.rs, int64(n))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShort, err)
	}
	if uint64(copied) != n {
		return fmt.Errorf("%w: copied %d of %d bytes", ErrShort, copied, n)
	}
	return nil
}

// Sink is a write-only, append-only view over an output stream, used by
// the rewriter to stream boxes to a fresh file.
type Sink struct {
	w io.Writer
}

// NewSink wraps w for box-oriented writes.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Writer returns the sink's underlying io.Writer, for callers that need to
// stream bytes directly (Reader.CopyTo) rather than buffer them first.
func (s *Sink) Writer() io.Writer {
	return s.w
}

// Write copies b to the sink in full or returns an error.
func (s *Sink) Write(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	n, err := s.w.Write(b)
	if err != nil {
		return fmt.Errorf("writing to sink: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("writing to sink: short write %d of %d bytes", n, len(b))
	}
	return nil
}

// AddChecked adds a and b, reporting overflow rather than wrapping.
func AddChecked(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// SubChecked subtracts b from a, reporting underflow rather than wrapping.
func SubChecked(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
