package docmeta

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBinaryHash_Deterministic(t *testing.T) {
	data := []byte("the same bytes every time")
	first := BinaryHash(data)
	second := BinaryHash(data)
	if first != second {
		t.Errorf("expected stable hash, got %d then %d", first, second)
	}
	if other := BinaryHash([]byte("different bytes")); other == first {
		t.Errorf("expected distinct inputs to hash apart, both gave %d", first)
	}
}

func TestNewOrigin_HashesFileContents(t *testing.T) {
	data := []byte("# Title\n\nSome body text.\n")
	path := filepath.Join(t.TempDir(), "sample.md")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	origin, err := NewOrigin(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if origin.Filename != "sample.md" {
		t.Errorf("expected filename %q, got %q", "sample.md", origin.Filename)
	}
	if origin.Mimetype != "text/markdown" {
		t.Errorf("expected mimetype %q, got %q", "text/markdown", origin.Mimetype)
	}
	if want := BinaryHash(data); origin.BinaryHash != want {
		t.Errorf("expected hash %d, got %d", want, origin.BinaryHash)
	}
	if origin.URI != nil {
		t.Errorf("expected nil uri, got %v", *origin.URI)
	}
}

func TestNewOrigin_MissingFile(t *testing.T) {
	if _, err := NewOrigin(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestMimetypeFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"report.pdf", "application/pdf"},
		{"REPORT.PDF", "application/pdf"},
		{"notes.txt", "text/plain"},
		{"readme.md", "text/markdown"},
		{"readme.markdown", "text/markdown"},
		{"page.html", "text/html"},
		{"page.htm", "text/html"},
		{"letter.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"table.csv", "text/csv"},
		{"blob.bin", "application/octet-stream"},
		{"no-extension", "application/octet-stream"},
	}
	for _, tc := range cases {
		if got := MimetypeFor(tc.path); got != tc.want {
			t.Errorf("MimetypeFor(%q): expected %q, got %q", tc.path, tc.want, got)
		}
	}
}
