// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xzip

import "errors"

// Sentinel errors identifying each non-recoverable failure kind the engine
// can raise. Wrap these with fmt.Errorf("%w: ...", ErrX, detail) at the
// call site so callers can still errors.Is against the sentinel.
var (
	// ErrMalformedArchive is returned when the end-of-central-dir record
	// cannot be found, a signature mismatches, or the central directory is
	// truncated or internally inconsistent.
	ErrMalformedArchive = errors.New("xzip: malformed archive")

	// ErrUnsupportedCompression is returned when a central directory entry
	// declares a compression method other than stored or LZMA, or when
	// AddBuffer is asked to use one.
	ErrUnsupportedCompression = errors.New("xzip: unsupported compression method")

	// ErrCompressionFailed is returned when the LZMA codec fails to
	// produce a compressed stream.
	ErrCompressionFailed = errors.New("xzip: compression failed")

	// ErrDecompressionFailed is returned when the LZMA codec fails to
	// decode a compressed stream, or produces the wrong byte count.
	ErrDecompressionFailed = errors.New("xzip: decompression failed")

	// ErrIoFailure wraps short reads/writes and OS-level I/O errors
	// surfaced while reading or writing archive bytes.
	ErrIoFailure = errors.New("xzip: i/o failure")

	// ErrNotFound is returned by ReadFile when the requested name is not
	// present in the directory.
	ErrNotFound = errors.New("xzip: entry not found")

	// ErrClosed is returned by operations attempted on an archive whose
	// disk cache has already been released.
	ErrClosed = errors.New("xzip: archive closed")

	// ErrInvalidName is returned when AddBuffer/AddFile is given an empty
	// name.
	ErrInvalidName = errors.New("xzip: invalid entry name")
)
