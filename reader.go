// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xzip

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/intrinsicdev/vxzip/internal/lzmaframe"
	"github.com/intrinsicdev/vxzip/internal/xzfmt"
)

// OpenFromDisk opens the archive at path, parsing its end-of-central-dir,
// comment, and central directory. Entry payloads are left on disk; they
// are fetched lazily by ReadFile using the returned *os.File as the source
// handle.
func OpenFromDisk(path string, opts ...Option) (*Archive, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", ErrIoFailure, path, err)
	}
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: seek %s: %v", ErrIoFailure, path, err)
	}

	a, err := New(opts...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if err := a.openFromReaderAt(f, size, false); err != nil {
		f.Close()
		return nil, nil, err
	}
	return a, f, nil
}

// OpenFromBuffer parses an archive already held in memory. Unlike
// OpenFromDisk, every entry's payload is copied out immediately; no handle
// is retained and ReadFile never blocks on I/O for an archive opened this
// way.
func OpenFromBuffer(data []byte, opts ...Option) (*Archive, error) {
	a, err := New(opts...)
	if err != nil {
		return nil, err
	}
	r := &byteReaderAt{data: data}
	if err := a.openFromReaderAt(r, int64(len(data)), true); err != nil {
		return nil, err
	}
	return a, nil
}

type byteReaderAt struct{ data []byte }

func (b *byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// openFromReaderAt performs the §4.2 EOCD discovery, comment parsing, and
// central directory ingestion against src, which spans exactly [0, size).
// If eager is true, every payload is read into memory immediately.
func (a *Archive) openFromReaderAt(src io.ReaderAt, size int64, eager bool) error {
	if size < xzfmt.EndOfCentralDirSize {
		return fmt.Errorf("%w: archive shorter than end-of-central-dir record", ErrMalformedArchive)
	}

	eocdOff, eocd, err := findEOCD(src, size, a.order)
	if err != nil {
		return err
	}

	if eocd.CommentLength == xzfmt.CommentLength {
		commentBuf := make([]byte, xzfmt.CommentLength)
		if _, err := src.ReadAt(commentBuf, eocdOff+xzfmt.EndOfCentralDirSize); err != nil {
			return fmt.Errorf("%w: read comment: %v", ErrIoFailure, err)
		}
		if version, alignment, ok := xzfmt.ParseComment(commentBuf); ok {
			a.compatibleFormat = version == xzfmt.Compatible
			if !a.forceAlignment {
				a.alignment = alignment
			}
		}
	}

	cdBuf := make([]byte, eocd.CentralDirSize)
	if _, err := src.ReadAt(cdBuf, int64(eocd.StartOfCentralDirOffset)); err != nil {
		return fmt.Errorf("%w: read central directory: %v", ErrIoFailure, err)
	}

	a.dir.clear()

	off := 0
	for i := 0; i < int(eocd.EntriesTotal); i++ {
		if off+xzfmt.CentralDirSize > len(cdBuf) {
			a.dir.clear()
			return fmt.Errorf("%w: truncated central directory", ErrMalformedArchive)
		}
		cd, err := xzfmt.DecodeCentralDirHeader(a.order, cdBuf[off:])
		if err != nil {
			a.dir.clear()
			return fmt.Errorf("%w: %v", ErrMalformedArchive, err)
		}
		off += xzfmt.CentralDirSize

		if cd.CompressionMethod != xzfmt.MethodStored && cd.CompressionMethod != xzfmt.MethodLZMA {
			a.dir.clear()
			return fmt.Errorf("%w: method %d", ErrUnsupportedCompression, cd.CompressionMethod)
		}

		if off+int(cd.FilenameLength) > len(cdBuf) {
			a.dir.clear()
			return fmt.Errorf("%w: truncated filename", ErrMalformedArchive)
		}
		name := lowercaseASCII(string(cdBuf[off : off+int(cd.FilenameLength)]))
		off += int(cd.FilenameLength)

		sourceOff := int64(cd.RelativeOffsetOfLocal) + xzfmt.LocalFileHeaderSize + int64(cd.FilenameLength) + int64(cd.ExtraFieldLength)

		e := &Entry{
			name:             name,
			compressedSize:   cd.CompressedSize,
			uncompressedSize: cd.UncompressedSize,
			crc32:            cd.CRC32,
			compression:      CompressionMethod(cd.CompressionMethod),
			zipOffset:        int64(cd.RelativeOffsetOfLocal),
		}

		if eager {
			if e.compressedSize > 0 {
				buf := make([]byte, e.compressedSize)
				if _, err := src.ReadAt(buf, sourceOff); err != nil {
					a.dir.clear()
					return fmt.Errorf("%w: read payload: %v", ErrIoFailure, err)
				}
				e.kind = payloadInMemory
				e.inMemory = buf
			} else {
				e.kind = payloadEmpty
			}
		} else {
			if e.compressedSize > 0 {
				e.kind = payloadSourceArchive
				e.sourceOff = sourceOff
			} else {
				e.kind = payloadEmpty
			}
		}

		a.dir.insert(e)

		if a.compatibleFormat {
			off += int(cd.ExtraFieldLength) + int(cd.FileCommentLength)
		}
	}

	return nil
}

// findEOCD performs the bounded backward scan for the end-of-central-dir
// signature, immediately followed by the fixed 10-byte XZIP comment. XZIP's
// comment is always fixed-length, so unlike a general ZIP reader permitting
// up to 64 KiB of comment, the search only needs to step back far enough to
// cover the comment field itself.
func findEOCD(src io.ReaderAt, size int64, order binary.ByteOrder) (int64, xzfmt.EndOfCentralDir, error) {
	maxBack := int64(xzfmt.EndOfCentralDirSize + xzfmt.CommentLength)
	start := size - xzfmt.EndOfCentralDirSize
	end := start - maxBack
	if end < 0 {
		end = 0
	}

	buf := make([]byte, xzfmt.EndOfCentralDirSize)
	for o := start; o >= end; o-- {
		if _, err := src.ReadAt(buf, o); err != nil {
			continue
		}
		eocd, err := xzfmt.DecodeEndOfCentralDir(order, buf)
		if err == nil {
			return o, eocd, nil
		}
	}
	return 0, xzfmt.EndOfCentralDir{}, fmt.Errorf("%w: end-of-central-dir record not found", ErrMalformedArchive)
}

// ReadFile fetches name's uncompressed bytes. If the entry's payload lives
// in the opened source archive, source must be the same handle returned by
// OpenFromDisk (or any io.ReaderAt over the same bytes); it is used only
// for the duration of this call and is never retained. If textMode is set,
// the returned bytes have CRLF collapsed back to LF.
func (a *Archive) ReadFile(source io.ReaderAt, name string, textMode bool) ([]byte, error) {
	e, ok := a.dir.lookup(lowercaseASCII(name))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	raw, err := a.fetchPayload(source, e)
	if err != nil {
		return nil, err
	}

	var plain []byte
	switch e.compression {
	case Stored:
		plain = raw
	case LZMA:
		plain, err = lzmaframe.Decompress(raw, e.uncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
		}
	default:
		return nil, fmt.Errorf("%w: method %d", ErrUnsupportedCompression, e.compression)
	}

	if textMode {
		plain = crlfToLF(plain)
	}
	return plain, nil
}

func (a *Archive) fetchPayload(source io.ReaderAt, e *Entry) ([]byte, error) {
	switch e.kind {
	case payloadEmpty:
		return nil, nil
	case payloadInMemory:
		return e.clonePayload(), nil
	case payloadOnDiskCache:
		return a.cache.read(e.diskCacheOff, e.compressedSize)
	case payloadSourceArchive:
		if source == nil {
			return nil, fmt.Errorf("%w: %s has no source handle", ErrIoFailure, e.name)
		}
		buf := make([]byte, e.compressedSize)
		if _, err := source.ReadAt(buf, e.sourceOff); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIoFailure, err)
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("%w: %s payload already consumed", ErrIoFailure, e.name)
	}
}

// crlfToLF collapses CRLF pairs back to LF, the inverse of lfToCRLF.
func crlfToLF(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '\r' && i+1 < len(src) && src[i+1] == '\n' {
			continue
		}
		out = append(out, src[i])
	}
	return out
}
