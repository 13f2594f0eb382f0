// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xzip

import (
	"fmt"
	"hash/crc32"
	"os"

	"github.com/intrinsicdev/vxzip/internal/lzmaframe"
)

// AddBuffer ingests bytes under name, overwriting any existing entry with
// the same lowercased name. If textMode is set, LF bytes are expanded to
// CRLF before CRC and compression are computed. On failure the directory is
// left unchanged: AddBuffer is atomic on name.
func (a *Archive) AddBuffer(name string, data []byte, textMode bool, compression CompressionMethod) error {
	if a.closed {
		return ErrClosed
	}
	lname := lowercaseASCII(name)
	if lname == "" {
		return ErrInvalidName
	}

	payload := data
	if textMode {
		payload = lfToCRLF(data)
	}

	crc := crc32.ChecksumIEEE(payload)

	var stored []byte
	switch compression {
	case Stored:
		stored = payload
	case LZMA:
		framed, err := lzmaframe.Compress(payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCompressionFailed, err)
		}
		stored = framed
	default:
		return fmt.Errorf("%w: method %d", ErrUnsupportedCompression, compression)
	}

	newEntry := &Entry{
		name:             lname,
		uncompressedSize: uint32(len(payload)),
		compressedSize:   uint32(len(stored)),
		crc32:            crc,
		compression:      compression,
	}
	if err := a.assignPayload(newEntry, stored); err != nil {
		return err
	}

	if old, ok := a.dir.lookup(lname); ok {
		*old = *newEntry
		return nil
	}
	a.dir.insert(newEntry)
	return nil
}

// assignPayload places stored on e according to the archive's disk-cache
// setting, appending to the write-cache temp file when enabled.
func (a *Archive) assignPayload(e *Entry, stored []byte) error {
	if len(stored) == 0 {
		e.kind = payloadEmpty
		return nil
	}
	if a.cache != nil {
		off, err := a.cache.append(stored)
		if err != nil {
			return err
		}
		e.kind = payloadOnDiskCache
		e.diskCacheOff = off
		return nil
	}
	e.kind = payloadInMemory
	e.inMemory = stored
	return nil
}

// AddFile is a convenience wrapper over AddBuffer that reads path whole and
// ingests it under name.
func (a *Archive) AddFile(name, path string, textMode bool, compression CompressionMethod) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrIoFailure, path, err)
	}
	return a.AddBuffer(name, data, textMode, compression)
}
