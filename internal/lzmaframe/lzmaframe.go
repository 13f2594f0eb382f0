// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lzmaframe wraps github.com/ulikunitz/xz/lzma with the ZIP 5.8.8
// entry framing XZIP uses for LZMA-compressed payloads: a 2-byte SDK
// version, a 2-byte little-endian properties length (always 5), the 5-byte
// LZMA properties, and the raw compressed stream with no embedded
// uncompressed-size trailer.
package lzmaframe

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// PropsLength is the size in bytes of the LZMA properties block carried in
// both the classic ".lzma" header and the ZIP framing.
const PropsLength = 5

// SDK version bytes written into every ZIP-framed LZMA entry, matching the
// values the reference LZMA SDK stamps into ZIP archives.
const (
	SDKVersionMajor = 9
	SDKVersionMinor = 20
)

// Compress produces the ZIP-framed LZMA stream for uncompressed, matching
// the §6.2 wire layout. The returned buffer's first 9 bytes are
// {verMajor, verMinor, propsLen (u16 LE) = 5, props[0:5]}.
func Compress(uncompressed []byte) ([]byte, error) {
	var raw bytes.Buffer
	w, err := lzma.NewWriter(&raw)
	if err != nil {
		return nil, fmt.Errorf("lzmaframe: create writer: %w", err)
	}
	if _, err := w.Write(uncompressed); err != nil {
		return nil, fmt.Errorf("lzmaframe: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzmaframe: close writer: %w", err)
	}

	classic := raw.Bytes()
	if len(classic) < lzma.HeaderLen {
		return nil, fmt.Errorf("lzmaframe: compressed output shorter than lzma header")
	}
	props := classic[:PropsLength]
	stream := classic[lzma.HeaderLen:]

	out := make([]byte, 2+2+PropsLength+len(stream))
	out[0] = SDKVersionMajor
	out[1] = SDKVersionMinor
	binary.LittleEndian.PutUint16(out[2:4], PropsLength)
	copy(out[4:4+PropsLength], props)
	copy(out[4+PropsLength:], stream)
	return out, nil
}

// Decompress reverses Compress, given the entry's declared uncompressed
// size (needed because the ZIP framing drops the classic header's
// uncompressed-size trailer, which ulikunitz/xz/lzma's reader requires).
func Decompress(framed []byte, uncompressedSize uint32) ([]byte, error) {
	r := bytes.NewReader(framed)

	var versionInfo uint16
	if err := binary.Read(r, binary.LittleEndian, &versionInfo); err != nil {
		return nil, fmt.Errorf("lzmaframe: read version info: %w", err)
	}

	var propsLen uint16
	if err := binary.Read(r, binary.LittleEndian, &propsLen); err != nil {
		return nil, fmt.Errorf("lzmaframe: read properties length: %w", err)
	}

	props := make([]byte, propsLen)
	if _, err := io.ReadFull(r, props); err != nil {
		return nil, fmt.Errorf("lzmaframe: read properties: %w", err)
	}

	size := make([]byte, 8)
	binary.LittleEndian.PutUint64(size, uint64(uncompressedSize))

	classic := io.MultiReader(bytes.NewReader(props), bytes.NewReader(size), r)

	lr, err := lzma.NewReader(classic)
	if err != nil {
		return nil, fmt.Errorf("lzmaframe: create reader: %w", err)
	}

	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(lr, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("lzmaframe: decompress: %w", err)
	}
	if uint32(n) != uncompressedSize {
		return nil, fmt.Errorf("lzmaframe: decompressed %d bytes, want %d", n, uncompressedSize)
	}
	return out, nil
}
