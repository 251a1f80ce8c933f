// Package imaging validates and normalizes uploaded attachments. Formats are
// detected by sniffing bytes, never by trusting client-supplied headers or
// file extensions. Images larger than MaxDimension are downscaled before
// storage; PDFs pass through untouched.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1600

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// MaxPDFSize caps pass-through PDF uploads.
const MaxPDFSize = 16 << 20

// MIME types accepted as attachments.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEPDF  = "application/pdf"
)

// Result contains the processed attachment data.
type Result struct {
	Data []byte
	MIME string
}

// Process reads an uploaded file, sniffs its real type, and prepares it for
// storage: JPEG and PNG are decoded, downscaled if larger than MaxDimension,
// and re-encoded in their own format; PDF is stored as-is up to MaxPDFSize.
// Anything else is rejected.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	switch detected := http.DetectContentType(data); detected {
	case MIMEJPEG, MIMEPNG:
		return processImage(data, detected)
	case MIMEPDF:
		if len(data) > MaxPDFSize {
			return nil, fmt.Errorf("PDF too large: %d bytes (limit %d)", len(data), MaxPDFSize)
		}
		return &Result{Data: data, MIME: MIMEPDF}, nil
	default:
		return nil, fmt.Errorf("unsupported attachment type: %s (only JPEG, PNG and PDF accepted)", detected)
	}
}

func processImage(data []byte, mime string) (*Result, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	switch mime {
	case MIMEPNG:
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	return &Result{Data: buf.Bytes(), MIME: mime}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, using
// Catmull-Rom interpolation. Returns the original if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
