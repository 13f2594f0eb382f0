// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xzip reads and writes the XZIP archive format: a ZIP-compatible
// container carrying a format-version and alignment tag in its trailing
// comment, supporting only stored and LZMA-compressed entries.
package xzip

import (
	"encoding/binary"
)

// Archive is a mutable collection of Entries plus the configuration that
// governs how it is serialized. The zero value is not usable; construct
// one with New.
type Archive struct {
	dir *directory

	alignment        uint32
	forceAlignment   bool
	compatibleFormat bool
	order            binary.ByteOrder

	useDiskCache   bool
	diskCachePath  string
	cache          *diskCache

	closed bool
}

// Option configures an Archive at construction time.
type Option func(*Archive)

// WithAlignment sets the power-of-two payload alignment. A non-power-of-two
// value silently resets alignment to 0, per the format's invariant.
func WithAlignment(alignment uint32) Option {
	return func(a *Archive) {
		if !isPowerOfTwoOrZero(alignment) {
			alignment = 0
		}
		a.alignment = alignment
	}
}

// WithForceAlignment controls whether alignment read from a parsed comment
// overrides the caller's setting (false, the default) or is ignored (true).
func WithForceAlignment(force bool) Option {
	return func(a *Archive) { a.forceAlignment = force }
}

// WithCompatibleFormat selects the header duplication policy: true emits
// padding in both local and central directory headers (XZP1), false omits
// it from the central directory (XZP2).
func WithCompatibleFormat(compatible bool) Option {
	return func(a *Archive) { a.compatibleFormat = compatible }
}

// WithBigEndian selects big-endian wire layout. The default is
// little-endian.
func WithBigEndian(bigEndian bool) Option {
	return func(a *Archive) {
		if bigEndian {
			a.order = binary.BigEndian
		} else {
			a.order = binary.LittleEndian
		}
	}
}

// WithDiskCache enables the disk write-cache, spooling ingested payloads to
// a temp file in dir (the OS default temp directory if dir is empty)
// instead of holding them in memory between ingest and save. Per the
// format's invariants this choice is immutable for the archive's lifetime.
func WithDiskCache(dir string) Option {
	return func(a *Archive) {
		a.useDiskCache = true
		a.diskCachePath = dir
	}
}

// WithOrdering selects the directory's name-comparison predicate. The
// default is ByName.
func WithOrdering(less OrderFunc) Option {
	return func(a *Archive) { a.dir = newDirectory(less) }
}

// New constructs an empty Archive with little-endian, compatible-format,
// unaligned defaults, overridden by opts.
func New(opts ...Option) (*Archive, error) {
	a := &Archive{
		dir:              newDirectory(ByName),
		compatibleFormat: true,
		order:            binary.LittleEndian,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.useDiskCache {
		cache, err := newDiskCache(a.diskCachePath)
		if err != nil {
			return nil, err
		}
		a.cache = cache
	}
	return a, nil
}

func isPowerOfTwoOrZero(n uint32) bool { return n&(n-1) == 0 }

// SetBigEndian selects the wire endianness used by subsequent saves.
func (a *Archive) SetBigEndian(bigEndian bool) {
	if bigEndian {
		a.order = binary.BigEndian
	} else {
		a.order = binary.LittleEndian
	}
}

// ActivateByteSwapping is an alias for SetBigEndian: Go has no implicit
// native struct layout to diverge from, so "swap on read/write" and
// "use big-endian wire order" collapse to the same choice here.
func (a *Archive) ActivateByteSwapping(bigEndian bool) {
	a.SetBigEndian(bigEndian)
}

// ForceAlignment reconfigures alignment enforcement. When compatible is
// true the archive emits XZP1 (central directory duplicates padding);
// otherwise XZP2.
func (a *Archive) ForceAlignment(force, compatible bool, alignment uint32) {
	a.forceAlignment = force
	a.compatibleFormat = compatible
	if !isPowerOfTwoOrZero(alignment) {
		alignment = 0
	}
	a.alignment = alignment
}

// FileExists reports whether name (case-folded the same way ingest folds
// it) is present in the directory.
func (a *Archive) FileExists(name string) bool {
	_, ok := a.dir.lookup(lowercaseASCII(name))
	return ok
}

// RemoveFile deletes name from the directory. It is a silent no-op if the
// name is absent.
func (a *Archive) RemoveFile(name string) {
	a.dir.remove(lowercaseASCII(name))
}

// Next iterates the directory in its defined order. Pass cursor -1 to fetch
// the first entry; Next returns the entry at cursor+1 and the cursor to
// pass on the next call, or nil/-1 at the end.
func (a *Archive) Next(cursor int) (*Entry, int) {
	i := cursor + 1
	e := a.dir.at(i)
	if e == nil {
		return nil, -1
	}
	return e, i
}

// Count returns the number of entries currently in the directory.
func (a *Archive) Count() int { return a.dir.len() }

// Clear frees every entry's in-memory payload and resets the directory to
// empty. If the disk cache is enabled, the old temp file is closed and
// deleted and a fresh one is opened immediately, leaving the archive
// usable.
func (a *Archive) Clear() error {
	a.dir.clear()
	if a.cache != nil {
		if err := a.cache.close(); err != nil {
			return err
		}
		cache, err := newDiskCache(a.diskCachePath)
		if err != nil {
			return err
		}
		a.cache = cache
	}
	return nil
}

// Close releases the archive's disk-cache temp file, if any. An archive
// need not be explicitly closed when it has no disk cache.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.cache != nil {
		return a.cache.close()
	}
	return nil
}
