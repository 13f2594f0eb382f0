// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xzip

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// diskCache is the optional append-only temp file that backs large entry
// payloads between ingest and final write. It has no header and no index;
// payloads are addressed purely by the byte offset recorded on the owning
// entry. It is never read except during final serialization and is
// discarded on Close.
type diskCache struct {
	dir  string
	file *os.File
}

func newDiskCache(dir string) (*diskCache, error) {
	f, err := os.CreateTemp(dir, "xzip-cache-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create disk cache: %v", ErrIoFailure, err)
	}
	return &diskCache{dir: dir, file: f}, nil
}

// append writes p at the cache's current end of file and returns the
// offset it was written at.
func (c *diskCache) append(p []byte) (int64, error) {
	off, err := c.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: seek disk cache: %v", ErrIoFailure, err)
	}
	if _, err := c.file.Write(p); err != nil {
		return 0, fmt.Errorf("%w: write disk cache: %v", ErrIoFailure, err)
	}
	return off, nil
}

// read fetches n bytes at the given offset.
func (c *diskCache) read(off int64, n uint32) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := c.file.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("%w: read disk cache: %v", ErrIoFailure, err)
	}
	return buf, nil
}

// close deletes the backing temp file. It does not error if already
// closed/removed.
func (c *diskCache) close() error {
	if c.file == nil {
		return nil
	}
	name := c.file.Name()
	closeErr := c.file.Close()
	removeErr := os.Remove(name)
	if removeErr != nil && os.IsNotExist(removeErr) {
		removeErr = nil
	}
	c.file = nil
	if closeErr != nil || removeErr != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, errors.Join(closeErr, removeErr))
	}
	return nil
}
