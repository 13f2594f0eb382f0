// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xzfmt encodes and decodes the fixed-size ZIP records XZIP builds
// its container from: the local file header, the central directory file
// header, and the end-of-central-directory record. Every function here is
// parameterized over byte order so callers can emit and parse both the
// little-endian and big-endian variants of the format.
package xzfmt

import (
	"encoding/binary"
	"fmt"
)

const (
	LocalFileHeaderSignature uint32 = 0x04034b50
	CentralDirSignature      uint32 = 0x02014b50
	EndOfCentralDirSignature uint32 = 0x06054b50

	LocalFileHeaderSize = 30
	CentralDirSize      = 46
	EndOfCentralDirSize = 22

	CommentLength = 10
)

// Compression methods XZIP supports. Anything else read from a central
// directory record is rejected.
const (
	MethodStored uint16 = 0
	MethodLZMA   uint16 = 14
)

// VersionNeededToExtract values XZIP writes.
const (
	VersionStored uint16 = 10
	VersionLZMA   uint16 = 63
)

// VersionMadeBy is the constant value XZIP writes into every central
// directory record.
const VersionMadeBy uint16 = 20

// LocalFileHeader is the 30-byte fixed record preceding each entry's
// filename, padding and payload bytes.
type LocalFileHeader struct {
	VersionNeededToExtract uint16
	Flags                  uint16
	CompressionMethod      uint16
	LastModFileTime        uint16
	LastModFileDate        uint16
	CRC32                  uint32
	CompressedSize         uint32
	UncompressedSize       uint32
	FilenameLength         uint16
	ExtraFieldLength       uint16
}

// Encode serializes h using order, returning the fixed 30-byte record.
func (h LocalFileHeader) Encode(order binary.ByteOrder) []byte {
	buf := make([]byte, LocalFileHeaderSize)
	order.PutUint32(buf[0:4], LocalFileHeaderSignature)
	order.PutUint16(buf[4:6], h.VersionNeededToExtract)
	order.PutUint16(buf[6:8], h.Flags)
	order.PutUint16(buf[8:10], h.CompressionMethod)
	order.PutUint16(buf[10:12], h.LastModFileTime)
	order.PutUint16(buf[12:14], h.LastModFileDate)
	order.PutUint32(buf[14:18], h.CRC32)
	order.PutUint32(buf[18:22], h.CompressedSize)
	order.PutUint32(buf[22:26], h.UncompressedSize)
	order.PutUint16(buf[26:28], h.FilenameLength)
	order.PutUint16(buf[28:30], h.ExtraFieldLength)
	return buf
}

// DecodeLocalFileHeader parses the fixed 30-byte record from buf.
func DecodeLocalFileHeader(order binary.ByteOrder, buf []byte) (LocalFileHeader, error) {
	if len(buf) < LocalFileHeaderSize {
		return LocalFileHeader{}, fmt.Errorf("xzfmt: short local file header: %d bytes", len(buf))
	}
	if sig := order.Uint32(buf[0:4]); sig != LocalFileHeaderSignature {
		return LocalFileHeader{}, fmt.Errorf("xzfmt: bad local file header signature %#x", sig)
	}
	return LocalFileHeader{
		VersionNeededToExtract: order.Uint16(buf[4:6]),
		Flags:                  order.Uint16(buf[6:8]),
		CompressionMethod:      order.Uint16(buf[8:10]),
		LastModFileTime:        order.Uint16(buf[10:12]),
		LastModFileDate:        order.Uint16(buf[12:14]),
		CRC32:                  order.Uint32(buf[14:18]),
		CompressedSize:         order.Uint32(buf[18:22]),
		UncompressedSize:       order.Uint32(buf[22:26]),
		FilenameLength:         order.Uint16(buf[26:28]),
		ExtraFieldLength:       order.Uint16(buf[28:30]),
	}, nil
}

// CentralDirHeader is the 46-byte fixed record preceding each entry's
// filename (and, in compatible format, its padding) within the central
// directory.
type CentralDirHeader struct {
	VersionMadeBy          uint16
	VersionNeededToExtract uint16
	Flags                  uint16
	CompressionMethod      uint16
	LastModFileTime        uint16
	LastModFileDate        uint16
	CRC32                  uint32
	CompressedSize         uint32
	UncompressedSize       uint32
	FilenameLength         uint16
	ExtraFieldLength       uint16
	FileCommentLength      uint16
	DiskNumberStart        uint16
	InternalFileAttribs    uint16
	ExternalFileAttribs    uint32
	RelativeOffsetOfLocal  uint32
}

// Encode serializes d using order, returning the fixed 46-byte record.
func (d CentralDirHeader) Encode(order binary.ByteOrder) []byte {
	buf := make([]byte, CentralDirSize)
	order.PutUint32(buf[0:4], CentralDirSignature)
	order.PutUint16(buf[4:6], d.VersionMadeBy)
	order.PutUint16(buf[6:8], d.VersionNeededToExtract)
	order.PutUint16(buf[8:10], d.Flags)
	order.PutUint16(buf[10:12], d.CompressionMethod)
	order.PutUint16(buf[12:14], d.LastModFileTime)
	order.PutUint16(buf[14:16], d.LastModFileDate)
	order.PutUint32(buf[16:20], d.CRC32)
	order.PutUint32(buf[20:24], d.CompressedSize)
	order.PutUint32(buf[24:28], d.UncompressedSize)
	order.PutUint16(buf[28:30], d.FilenameLength)
	order.PutUint16(buf[30:32], d.ExtraFieldLength)
	order.PutUint16(buf[32:34], d.FileCommentLength)
	order.PutUint16(buf[34:36], d.DiskNumberStart)
	order.PutUint16(buf[36:38], d.InternalFileAttribs)
	order.PutUint32(buf[38:42], d.ExternalFileAttribs)
	order.PutUint32(buf[42:46], d.RelativeOffsetOfLocal)
	return buf
}

// DecodeCentralDirHeader parses the fixed 46-byte record from buf.
func DecodeCentralDirHeader(order binary.ByteOrder, buf []byte) (CentralDirHeader, error) {
	if len(buf) < CentralDirSize {
		return CentralDirHeader{}, fmt.Errorf("xzfmt: short central dir header: %d bytes", len(buf))
	}
	if sig := order.Uint32(buf[0:4]); sig != CentralDirSignature {
		return CentralDirHeader{}, fmt.Errorf("xzfmt: bad central dir header signature %#x", sig)
	}
	return CentralDirHeader{
		VersionMadeBy:          order.Uint16(buf[4:6]),
		VersionNeededToExtract: order.Uint16(buf[6:8]),
		Flags:                  order.Uint16(buf[8:10]),
		CompressionMethod:      order.Uint16(buf[10:12]),
		LastModFileTime:        order.Uint16(buf[12:14]),
		LastModFileDate:        order.Uint16(buf[14:16]),
		CRC32:                  order.Uint32(buf[16:20]),
		CompressedSize:         order.Uint32(buf[20:24]),
		UncompressedSize:       order.Uint32(buf[24:28]),
		FilenameLength:         order.Uint16(buf[28:30]),
		ExtraFieldLength:       order.Uint16(buf[30:32]),
		FileCommentLength:      order.Uint16(buf[32:34]),
		DiskNumberStart:        order.Uint16(buf[34:36]),
		InternalFileAttribs:    order.Uint16(buf[36:38]),
		ExternalFileAttribs:    order.Uint32(buf[38:42]),
		RelativeOffsetOfLocal:  order.Uint32(buf[42:46]),
	}, nil
}

// EndOfCentralDir is the 22-byte fixed trailer record, always immediately
// followed in XZIP by the 10-byte comment.
type EndOfCentralDir struct {
	DiskNumber               uint16
	DiskWithCentralDirStart  uint16
	EntriesOnThisDisk        uint16
	EntriesTotal             uint16
	CentralDirSize           uint32
	StartOfCentralDirOffset  uint32
	CommentLength            uint16
}

// Encode serializes e using order, returning the fixed 22-byte record. The
// comment itself is not included; callers append it separately.
func (e EndOfCentralDir) Encode(order binary.ByteOrder) []byte {
	buf := make([]byte, EndOfCentralDirSize)
	order.PutUint32(buf[0:4], EndOfCentralDirSignature)
	order.PutUint16(buf[4:6], e.DiskNumber)
	order.PutUint16(buf[6:8], e.DiskWithCentralDirStart)
	order.PutUint16(buf[8:10], e.EntriesOnThisDisk)
	order.PutUint16(buf[10:12], e.EntriesTotal)
	order.PutUint32(buf[12:16], e.CentralDirSize)
	order.PutUint32(buf[16:20], e.StartOfCentralDirOffset)
	order.PutUint16(buf[20:22], e.CommentLength)
	return buf
}

// DecodeEndOfCentralDir parses the fixed 22-byte record from buf.
func DecodeEndOfCentralDir(order binary.ByteOrder, buf []byte) (EndOfCentralDir, error) {
	if len(buf) < EndOfCentralDirSize {
		return EndOfCentralDir{}, fmt.Errorf("xzfmt: short end of central dir record: %d bytes", len(buf))
	}
	if sig := order.Uint32(buf[0:4]); sig != EndOfCentralDirSignature {
		return EndOfCentralDir{}, fmt.Errorf("xzfmt: bad end of central dir signature %#x", sig)
	}
	return EndOfCentralDir{
		DiskNumber:              order.Uint16(buf[4:6]),
		DiskWithCentralDirStart: order.Uint16(buf[6:8]),
		EntriesOnThisDisk:       order.Uint16(buf[8:10]),
		EntriesTotal:            order.Uint16(buf[10:12]),
		CentralDirSize:          order.Uint32(buf[12:16]),
		StartOfCentralDirOffset: order.Uint32(buf[16:20]),
		CommentLength:           order.Uint16(buf[20:22]),
	}, nil
}
