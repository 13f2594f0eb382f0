// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xzip

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/intrinsicdev/vxzip/internal/xzfmt"
)

// SaveToBuffer serializes the archive and returns the resulting bytes.
// source is consulted only for entries whose payload still lives in a
// previously opened source archive (payloadSourceArchive); pass nil if the
// archive holds no such entries (it was built fresh or has disk-cache
// payloads only).
func (a *Archive) SaveToBuffer(source io.ReaderAt) ([]byte, error) {
	sink := &bufferSink{}
	if err := a.save(sink, source); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// SaveToDisk serializes the archive to the file at path, truncating and
// creating it as needed. See SaveToBuffer for the meaning of source.
func (a *Archive) SaveToDisk(path string, source io.ReaderAt) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIoFailure, path, err)
	}
	sink, err := newFileSink(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	err = a.save(sink, source)
	closeErr := f.Close()
	if err != nil || closeErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrIoFailure, path, errors.Join(err, closeErr))
	}
	return nil
}

// CalculateSize returns the exact byte length SaveToBuffer/SaveToDisk would
// produce for the archive's current contents and configuration.
func (a *Archive) CalculateSize() uint32 {
	var size int64
	type written struct {
		nameLen uint16
		offset  int64
	}
	entries := make([]written, 0, a.dir.len())

	for i := 0; i < a.dir.len(); i++ {
		e := a.dir.at(i)
		if e.compressedSize == 0 {
			continue
		}
		nameLen := uint16(len(e.name))
		padding := xzfmt.CalculatePadding(a.alignment, nameLen, size)
		entries = append(entries, written{nameLen: nameLen, offset: size})
		size += xzfmt.LocalFileHeaderSize + int64(nameLen) + int64(padding) + int64(e.compressedSize)
	}

	size = xzfmt.AlignUp(a.alignment, size)

	for _, w := range entries {
		size += xzfmt.CentralDirSize + int64(w.nameLen)
		if a.compatibleFormat {
			padding := xzfmt.CalculatePadding(a.alignment, w.nameLen, w.offset)
			size += int64(padding)
		}
	}

	size = xzfmt.AlignUp(a.alignment, size)
	size += xzfmt.EndOfCentralDirSize + xzfmt.CommentLength
	return uint32(size)
}

// save drives the three-region serializer described in §4.3: local entries
// with payload, the central directory, then the end-of-central-dir record
// and comment.
func (a *Archive) save(sink writeSink, source io.ReaderAt) error {
	n := a.dir.len()
	written := make([]*Entry, 0, n)

	for i := 0; i < n; i++ {
		e := a.dir.at(i)
		if e.compressedSize == 0 {
			continue
		}

		e.zipOffset = sink.Tell()

		payload, err := a.fetchPayload(source, e)
		if err != nil {
			return err
		}

		padding := xzfmt.CalculatePadding(a.alignment, uint16(len(e.name)), e.zipOffset)

		version := xzfmt.VersionStored
		if e.compression == LZMA {
			version = xzfmt.VersionLZMA
		}

		lfh := xzfmt.LocalFileHeader{
			VersionNeededToExtract: version,
			CompressionMethod:      uint16(e.compression),
			CRC32:                  e.crc32,
			CompressedSize:         e.compressedSize,
			UncompressedSize:       e.uncompressedSize,
			FilenameLength:         uint16(len(e.name)),
			ExtraFieldLength:       padding,
		}

		if err := sink.Put(lfh.Encode(a.order)); err != nil {
			return fmt.Errorf("%w: %v", ErrIoFailure, err)
		}
		if err := sink.Put([]byte(e.name)); err != nil {
			return fmt.Errorf("%w: %v", ErrIoFailure, err)
		}
		if err := sink.Put(make([]byte, padding)); err != nil {
			return fmt.Errorf("%w: %v", ErrIoFailure, err)
		}
		if err := sink.Put(payload); err != nil {
			return fmt.Errorf("%w: %v", ErrIoFailure, err)
		}

		written = append(written, e)
	}

	if err := padTo(sink, xzfmt.AlignUp(a.alignment, sink.Tell())); err != nil {
		return err
	}

	cdStart := sink.Tell()

	for _, e := range written {
		version := xzfmt.VersionStored
		if e.compression == LZMA {
			version = xzfmt.VersionLZMA
		}

		padding := xzfmt.CalculatePadding(a.alignment, uint16(len(e.name)), e.zipOffset)
		extraLen := uint16(0)
		if a.compatibleFormat {
			extraLen = padding
		}

		cd := xzfmt.CentralDirHeader{
			VersionMadeBy:          xzfmt.VersionMadeBy,
			VersionNeededToExtract: version,
			CompressionMethod:      uint16(e.compression),
			CRC32:                  e.crc32,
			CompressedSize:         e.compressedSize,
			UncompressedSize:       e.uncompressedSize,
			FilenameLength:         uint16(len(e.name)),
			ExtraFieldLength:       extraLen,
			RelativeOffsetOfLocal:  uint32(e.zipOffset),
		}

		if err := sink.Put(cd.Encode(a.order)); err != nil {
			return fmt.Errorf("%w: %v", ErrIoFailure, err)
		}
		if err := sink.Put([]byte(e.name)); err != nil {
			return fmt.Errorf("%w: %v", ErrIoFailure, err)
		}
		if a.compatibleFormat {
			if err := sink.Put(make([]byte, padding)); err != nil {
				return fmt.Errorf("%w: %v", ErrIoFailure, err)
			}
		}
	}

	cdEnd := sink.Tell()
	if err := padTo(sink, xzfmt.AlignUp(a.alignment, cdEnd)); err != nil {
		return err
	}

	version := xzfmt.Compatible
	if !a.compatibleFormat {
		version = xzfmt.Compact
	}
	comment := xzfmt.EncodeComment(version, a.alignment)

	eocd := xzfmt.EndOfCentralDir{
		EntriesOnThisDisk:       uint16(len(written)),
		EntriesTotal:            uint16(len(written)),
		CentralDirSize:          uint32(cdEnd - cdStart),
		StartOfCentralDirOffset: uint32(cdStart),
		CommentLength:           xzfmt.CommentLength,
	}
	if err := sink.Put(eocd.Encode(a.order)); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	if err := sink.Put(comment[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	return nil
}

func padTo(sink writeSink, target int64) error {
	n := target - sink.Tell()
	if n <= 0 {
		return nil
	}
	if err := sink.Put(make([]byte, n)); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return nil
}
