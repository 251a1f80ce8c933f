package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestProcessPNGKeepsFormat(t *testing.T) {
	result, err := Process(bytes.NewReader(encodePNG(t, 100, 50)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != MIMEPNG {
		t.Errorf("expected %s, got %s", MIMEPNG, result.MIME)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("small image should not be resized, got %v", img.Bounds())
	}
}

func TestProcessDownscalesLargeImage(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, MaxDimension*2, MaxDimension)), nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}

	result, err := Process(&buf)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != MIMEJPEG {
		t.Errorf("expected %s, got %s", MIMEJPEG, result.MIME)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() > MaxDimension || img.Bounds().Dy() > MaxDimension {
		t.Errorf("image not downscaled: %v", img.Bounds())
	}
}

func TestProcessPDFPassthrough(t *testing.T) {
	pdf := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 64)...)

	result, err := Process(bytes.NewReader(pdf))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != MIMEPDF {
		t.Errorf("expected %s, got %s", MIMEPDF, result.MIME)
	}
	if !bytes.Equal(result.Data, pdf) {
		t.Error("PDF bytes should pass through unmodified")
	}
}

func TestProcessRejectsUnknownType(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("just some text, not a file we accept"))); err == nil {
		t.Error("expected error for unsupported type")
	}
}
