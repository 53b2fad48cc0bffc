package donation

import (
	"bytes"
	"testing"
)

// sniffable file prefixes for net/http content detection
var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	gifHeader  = []byte("GIF89a")
)

func paddedFile(header []byte, total int) []byte {
	data := make([]byte, total)
	copy(data, header)
	return data
}

func TestValidateEvidenceImageFormats(t *testing.T) {
	if msg := ValidateEvidenceImage(paddedFile(jpegHeader, 1024)); msg != "" {
		t.Errorf("jpeg rejected: %q", msg)
	}
	if msg := ValidateEvidenceImage(paddedFile(pngHeader, 1024)); msg != "" {
		t.Errorf("png rejected: %q", msg)
	}
	if msg := ValidateEvidenceImage(paddedFile(gifHeader, 1024)); msg != msgBadFormat {
		t.Errorf("gif message = %q, want %q", msg, msgBadFormat)
	}
	if msg := ValidateEvidenceImage(bytes.Repeat([]byte("texto plano "), 100)); msg != msgBadFormat {
		t.Errorf("text file message = %q, want %q", msg, msgBadFormat)
	}
}

func TestValidateEvidenceImageSizeBoundary(t *testing.T) {
	exactly := paddedFile(jpegHeader, 5*1024*1024)
	if msg := ValidateEvidenceImage(exactly); msg != "" {
		t.Errorf("5 MiB exactly rejected: %q", msg)
	}

	oneOver := paddedFile(jpegHeader, 5*1024*1024+1)
	if msg := ValidateEvidenceImage(oneOver); msg != msgTooLarge {
		t.Errorf("5 MiB + 1 message = %q, want %q", msg, msgTooLarge)
	}

	// A huge gif still fails on format, not size.
	hugeGif := paddedFile(gifHeader, 6*1024*1024)
	if msg := ValidateEvidenceImage(hugeGif); msg != msgBadFormat {
		t.Errorf("huge gif message = %q, want %q", msg, msgBadFormat)
	}
}

func TestValidateDescription(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"empty is fine", "", true},
		{"too short", "curta", false},
		{"minimum length", "1234567890", true},
		{"normal", "Duas sacolas de roupas de inverno em bom estado", true},
		{"too long", string(bytes.Repeat([]byte("a"), 241)), false},
		{"maximum length", string(bytes.Repeat([]byte("a"), 240)), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := ValidateDescription(tc.in)
			if tc.ok && msg != "" {
				t.Errorf("rejected: %q", msg)
			}
			if !tc.ok && msg == "" {
				t.Error("expected rejection")
			}
		})
	}
}
