package ebitenui

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"after-swipe", "after-swipe"},
		{"  ", "unlabeled"},
		{"detail view/1", "detail_view_1"},
		{"v1.2", "v1.2"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 32, 0, 128, // half-alpha
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	if got := img.Pix[0:4]; got[0] != 255 || got[3] != 255 {
		t.Errorf("opaque = %v", got)
	}
	if got := img.Pix[4:8]; got[0] != 127 || got[1] != 63 || got[3] != 128 {
		t.Errorf("half-alpha = %v, want [127 63 0 128]", got)
	}
	if got := img.Pix[8:12]; got[3] != 0 {
		t.Errorf("transparent = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	img := unpremultiply([]byte{1, 2, 3, 255}, 1, 1)
	if err := writePNG(path, img); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("bounds = %v", b)
	}
}

func TestWritePNGBadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "shot.png")
	if err := writePNG(path, unpremultiply(nil, 0, 0)); err == nil {
		t.Error("expected error for missing directory")
	}
}
