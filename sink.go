// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xzip

import (
	"bytes"
	"io"
)

// writeSink is the small capability set the writer needs: append bytes,
// and report the current write offset. It abstracts "write to an in-memory
// buffer" from "write to a file-like handle" so the serializer's logic
// (region layout, alignment, offset bookkeeping) doesn't care which one
// it's driving.
type writeSink interface {
	Put(p []byte) error
	Tell() int64
}

// bufferSink is a writeSink backed by an in-memory buffer.
type bufferSink struct {
	buf bytes.Buffer
}

func (s *bufferSink) Put(p []byte) error {
	_, err := s.buf.Write(p)
	return err
}

func (s *bufferSink) Tell() int64 { return int64(s.buf.Len()) }

func (s *bufferSink) Bytes() []byte { return s.buf.Bytes() }

// fileSink is a writeSink backed by a file-like handle (anything seekable
// and writable). It writes at the handle's current position and tracks
// offset relative to where writing began, so the archive can be appended
// to a larger stream.
type fileSink struct {
	w     io.WriteSeeker
	start int64
	pos   int64
}

func newFileSink(w io.WriteSeeker) (*fileSink, error) {
	start, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &fileSink{w: w, start: start}, nil
}

func (s *fileSink) Put(p []byte) error {
	n, err := s.w.Write(p)
	s.pos += int64(n)
	return err
}

func (s *fileSink) Tell() int64 { return s.pos }
