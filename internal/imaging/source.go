package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultFetchTimeout bounds a single remote image download.
const DefaultFetchTimeout = 15 * time.Second

// maxImageBytes caps how much of a response body or file is read.
const maxImageBytes = 64 << 20

var (
	// ErrImageFetch reports that the image bytes could not be obtained.
	ErrImageFetch = errors.New("image fetch failed")

	// ErrImageDecode reports that the obtained bytes are not a decodable image.
	ErrImageDecode = errors.New("image decode failed")

	// ErrNoSource is returned when a Source names no origin at all.
	ErrNoSource = errors.New("no image source given")
)

// Raster is a decoded RGB image together with where it came from.
type Raster struct {
	// Image holds the pixels. Alpha is always 255.
	Image *image.NRGBA

	// Format is the decoder that recognised the data ("png", "jpeg", ...).
	Format string

	// Origin is a short human-readable description of the source.
	Origin string
}

// Bounds returns the raster bounds, which always start at (0,0).
func (r *Raster) Bounds() image.Rectangle {
	return r.Image.Bounds()
}

// Clone returns a deep copy that shares no pixel memory with r.
func (r *Raster) Clone() *Raster {
	if r == nil {
		return nil
	}
	return &Raster{
		Image:  imaging.Clone(r.Image),
		Format: r.Format,
		Origin: r.Origin,
	}
}

// ToRGB converts any image to an opaque NRGBA raster rebased at (0,0).
//
// Transparency and palettes are dropped rather than composited: each pixel
// keeps its straight (non-premultiplied) colour and its alpha becomes 255.
func ToRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Decode decodes an in-memory image and converts it to RGB.
func Decode(data []byte) (*Raster, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrImageDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	return &Raster{Image: ToRGB(img), Format: format}, nil
}

// Fetcher downloads images over HTTP with a bounded timeout.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewFetcher creates a Fetcher. A non-positive timeout selects
// DefaultFetchTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Timeout reports the per-request timeout in effect.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch downloads url and decodes the body.
//
// Transport errors, timeouts and any non-2xx status are reported as
// ErrImageFetch; a body that cannot be decoded is reported as ErrImageDecode.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Raster, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrImageFetch, url, resp.Status)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrImageFetch, err)
	}

	return Decode(data)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}
	return data, nil
}

// Source describes where an image comes from. Exactly one of URL, Data or
// Path should be set; URL wins if several are.
type Source struct {
	// URL is a remote http(s) location.
	URL string

	// Data holds uploaded image bytes.
	Data []byte

	// Path is a local file, read and decoded like an upload.
	Path string

	// Name is an optional display name for uploads (e.g. the original file name).
	Name string
}

// Describe returns the short origin string shown next to results.
func (s Source) Describe() string {
	switch {
	case s.URL != "":
		return "from URL: " + truncate(s.URL, 50)
	case len(s.Data) > 0:
		if s.Name != "" {
			return "from file: " + s.Name
		}
		return fmt.Sprintf("from upload (%d bytes)", len(s.Data))
	case s.Path != "":
		return "from file: " + s.Path
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Loader resolves a Source into a Raster.
type Loader struct {
	fetcher *Fetcher
}

// NewLoader creates a Loader that downloads with the given fetcher. A nil
// fetcher uses NewFetcher(DefaultFetchTimeout).
func NewLoader(fetcher *Fetcher) *Loader {
	if fetcher == nil {
		fetcher = NewFetcher(DefaultFetchTimeout)
	}
	return &Loader{fetcher: fetcher}
}

// Load resolves src. The returned Raster's Origin is src.Describe().
func (l *Loader) Load(ctx context.Context, src Source) (*Raster, error) {
	var (
		r   *Raster
		err error
	)
	switch {
	case src.URL != "":
		r, err = l.fetcher.Fetch(ctx, src.URL)
	case len(src.Data) > 0:
		r, err = Decode(src.Data)
	case src.Path != "":
		r, err = decodeFile(src.Path)
	default:
		return nil, ErrNoSource
	}
	if err != nil {
		return nil, err
	}
	r.Origin = src.Describe()
	return r, nil
}

func decodeFile(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	return Decode(data)
}
