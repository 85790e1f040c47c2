package ocr

import (
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// ErrNotBuilt is returned by Open in binaries built without cgo.
var ErrNotBuilt = errors.New("ocr backend not compiled in (requires cgo and tesseract)")

// Options configures a Detector.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "eng+deu".
	Language string

	// TessdataDir holds the .traineddata files. Empty uses Tesseract's
	// default lookup.
	TessdataDir string

	// Scale enlarges the image before recognition. Values below 1 mean 1.
	Scale float64
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.Scale < 1 {
		o.Scale = 1
	}
	return o
}

// word is one recognised word in the coordinates of the image given to
// Tesseract.
type word struct {
	text       string
	confidence float64 // 0 to 100
	box        image.Rectangle
}

// upscale returns img enlarged by scale, or img itself when scale is 1.
func upscale(img image.Image, scale float64) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	return imaging.Resize(img, int(float64(b.Dx())*scale), 0, imaging.Lanczos)
}

// toDetections maps words back to source coordinates. Word boxes are divided
// by scale and shifted by origin.
func toDetections(words []word, scale float64, origin image.Point) []detection.RawDetection {
	if scale <= 0 {
		scale = 1
	}
	dets := make([]detection.RawDetection, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.text)
		if text == "" {
			continue
		}
		score := w.confidence / 100
		score = max(0, min(1, score))
		dets = append(dets, detection.RawDetection{
			Label: text,
			Score: score,
			Box: detection.Box{
				XMin: float64(w.box.Min.X)/scale + float64(origin.X),
				YMin: float64(w.box.Min.Y)/scale + float64(origin.Y),
				XMax: float64(w.box.Max.X)/scale + float64(origin.X),
				YMax: float64(w.box.Max.Y)/scale + float64(origin.Y),
			},
		})
	}
	return dets
}
