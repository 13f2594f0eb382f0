// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzmaframe

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty-ish", []byte("x")},
		{"text", []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 200))},
		{"binary", func() []byte {
			b := make([]byte, 65536)
			for i := range b {
				b[i] = byte(i * 31)
			}
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			framed, err := Compress(tt.data)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if len(framed) < 9 {
				t.Fatalf("framed output too short: %d bytes", len(framed))
			}
			if framed[0] != SDKVersionMajor || framed[1] != SDKVersionMinor {
				t.Errorf("framed version bytes = %d.%d, want %d.%d", framed[0], framed[1], SDKVersionMajor, SDKVersionMinor)
			}
			if framed[2] != PropsLength || framed[3] != 0 {
				t.Errorf("framed props length field = %d,%d, want %d,0", framed[2], framed[3], PropsLength)
			}

			got, err := Decompress(framed, uint32(len(tt.data)))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(tt.data))
			}
		})
	}
}

func TestDecompressWrongSizeFails(t *testing.T) {
	framed, err := Compress([]byte("hello world"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if _, err := Decompress(framed, 999999); err == nil {
		t.Fatalf("expected error decompressing with wrong declared size")
	}
}
