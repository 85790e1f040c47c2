package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
)

// EncodedImage is an image serialised for transport to the presentation layer.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// WritePNG writes img to w as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return imgio.PNGEncoder()(w, img)
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// EncodeBase64PNG encodes r as a base64 PNG.
func EncodeBase64PNG(r *Raster) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, r.Image); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := r.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
