// Copyright 2025 Lemon4ksan. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xzfmt

import "testing"

func TestEncodeParseCommentRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		version   FormatVersion
		alignment uint32
	}{
		{"compatible no alignment", Compatible, 0},
		{"compact no alignment", Compact, 0},
		{"compatible 2048", Compatible, 2048},
		{"compact 4096", Compact, 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := EncodeComment(tt.version, tt.alignment)
			if len(buf) != CommentLength {
				t.Fatalf("comment length = %d, want %d", len(buf), CommentLength)
			}

			version, alignment, ok := ParseComment(buf[:])
			if !ok {
				t.Fatalf("ParseComment returned ok=false")
			}
			if version != tt.version {
				t.Errorf("version = %c, want %c", version, tt.version)
			}
			if alignment != tt.alignment {
				t.Errorf("alignment = %d, want %d", alignment, tt.alignment)
			}
		})
	}
}

func TestParseCommentRejectsForeignComment(t *testing.T) {
	_, _, ok := ParseComment([]byte("not-xzip!!"))
	if ok {
		t.Fatalf("ParseComment accepted a non-XZIP comment")
	}
}

func TestParseCommentRejectsNonPowerOfTwoAlignment(t *testing.T) {
	buf := EncodeComment(Compatible, 3)
	_, alignment, ok := ParseComment(buf[:])
	if !ok {
		t.Fatalf("ParseComment returned ok=false")
	}
	if alignment != 0 {
		t.Errorf("alignment = %d, want 0 for non-power-of-two input", alignment)
	}
}

func TestCalculatePaddingZeroAlignment(t *testing.T) {
	if p := CalculatePadding(0, 9, 1234); p != 0 {
		t.Errorf("padding = %d, want 0", p)
	}
}

func TestCalculatePaddingAlignmentOneIsNoOp(t *testing.T) {
	for pos := int64(0); pos < 40; pos++ {
		if p := CalculatePadding(1, 5, pos); p != 0 {
			t.Errorf("pos=%d: padding = %d, want 0", pos, p)
		}
	}
}

func TestCalculatePaddingAligns(t *testing.T) {
	// name "a" (1 byte), alignment 2048: header+name = 31 bytes.
	padding := CalculatePadding(2048, 1, 0)
	if got, want := int64(0)+LocalFileHeaderSize+1+int64(padding), int64(2048); got != want {
		t.Errorf("payload offset = %d, want %d", got, want)
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		alignment uint32
		pos       int64
		want      int64
	}{
		{0, 123, 123},
		{1, 123, 123},
		{2048, 0, 0},
		{2048, 1, 2048},
		{2048, 2048, 2048},
		{2048, 2049, 4096},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.alignment, tt.pos); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.alignment, tt.pos, got, tt.want)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    uint32
		want bool
	}{
		{0, true},
		{1, true},
		{2, true},
		{3, false},
		{4096, true},
		{4097, false},
	}
	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
