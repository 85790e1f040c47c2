// Package fonts locates a renderable font for label text.
//
// Resolution never fails: when no candidate file can be loaded the resolver
// falls back to fonts compiled into the binary.
package fonts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultSize is the label font size in pixels.
const DefaultSize = 15

// DefaultPaths are tried in order before any system search.
var DefaultPaths = []string{
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"arial.ttf",
}

// Font is a ready-to-use face plus where it came from.
type Font struct {
	Face font.Face

	// Name is the file base name or the built-in font's name.
	Name string

	// Path is the file the face was loaded from; empty for built-ins.
	Path string

	// Size is the requested pixel size, or the fixed size of a bitmap face.
	Size float64

	// Sized is false when the requested size could not be honoured.
	Sized bool
}

// Resolver finds fonts. Parsed font files are kept so repeated resolutions
// only build a new face; faces themselves are not shared because they are
// not safe for concurrent use.
type Resolver struct {
	paths []string

	// SearchSystem enables a lookup of the candidate file names among the
	// fonts installed on the host after the explicit paths fail.
	SearchSystem bool

	logger *slog.Logger

	mu     sync.Mutex
	parsed map[string]*opentype.Font
}

// NewResolver creates a Resolver over paths. A nil paths slice selects
// DefaultPaths; a nil logger selects slog.Default().
func NewResolver(paths []string, logger *slog.Logger) *Resolver {
	if paths == nil {
		paths = DefaultPaths
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		paths:  paths,
		logger: logger,
		parsed: make(map[string]*opentype.Font),
	}
}

// Paths returns the candidate list in resolution order.
func (r *Resolver) Paths() []string {
	return append([]string(nil), r.paths...)
}

// Resolve returns the first candidate that exists and loads at size, then
// a system font with a candidate's file name, then the built-in default.
func (r *Resolver) Resolve(size float64) *Font {
	if size <= 0 {
		size = DefaultSize
	}

	for _, p := range r.paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		f, err := r.load(p, size)
		if err != nil {
			r.logger.Debug("font candidate failed to load", "path", p, "error", err)
			continue
		}
		return f
	}

	if r.SearchSystem {
		for _, p := range r.paths {
			found, err := findfont.Find(filepath.Base(p))
			if err != nil {
				continue
			}
			if f, err := r.load(found, size); err == nil {
				return f
			}
		}
	}

	r.logger.Debug("no font candidate usable, using built-in default", "size", size)
	return Default(size)
}

func (r *Resolver) load(path string, size float64) (*Font, error) {
	r.mu.Lock()
	parsed, ok := r.parsed[path]
	r.mu.Unlock()

	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		parsed, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		r.mu.Lock()
		r.parsed[path] = parsed
		r.mu.Unlock()
	}

	face, err := newFace(parsed, size)
	if err != nil {
		return nil, err
	}
	return &Font{Face: face, Name: filepath.Base(path), Path: path, Size: size, Sized: true}, nil
}

// Default returns the built-in font: Go Regular at size if it loads, the
// fixed 7x13 bitmap face otherwise.
func Default(size float64) *Font {
	if size <= 0 {
		size = DefaultSize
	}
	if parsed, err := opentype.Parse(goregular.TTF); err == nil {
		if face, err := newFace(parsed, size); err == nil {
			return &Font{Face: face, Name: "Go Regular", Size: size, Sized: true}
		}
	}
	return Bitmap()
}

// Bitmap returns the unsized built-in bitmap face.
func Bitmap() *Font {
	return &Font{Face: basicfont.Face7x13, Name: "basicfont 7x13", Size: 13}
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	return face, nil
}
