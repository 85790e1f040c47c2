// Package backend turns configuration into the ordered list of detector
// candidates the provider tries at start-up.
package backend

import (
	"context"
	"fmt"

	"github.com/ironsheep/object-annotate-mcp/internal/config"
	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/dnn"
	"github.com/ironsheep/object-annotate-mcp/internal/ocr"
	"github.com/ironsheep/object-annotate-mcp/internal/remote"
	"github.com/ironsheep/object-annotate-mcp/internal/shapes"
)

// Candidates returns the initialisers for cfg.Backend, most capable first.
//
//	remote  the HTTP endpoint (probed once)
//	dnn     OpenCV on CUDA, then on CPU
//	text    Tesseract with OCR_TESSDATA_DIR, then with the system data
//	shapes  the built-in shape detector (never fails)
//	auto    dnn, then remote, then shapes
func Candidates(cfg *config.Config) ([]detection.Candidate, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		return []detection.Candidate{remoteCandidate(cfg)}, nil
	case config.BackendDNN:
		return dnnCandidates(cfg), nil
	case config.BackendText:
		return textCandidates(cfg), nil
	case config.BackendShapes:
		return []detection.Candidate{shapesCandidate(cfg)}, nil
	case config.BackendAuto, "":
		c := dnnCandidates(cfg)
		c = append(c, remoteCandidate(cfg), shapesCandidate(cfg))
		return c, nil
	}
	return nil, fmt.Errorf("unknown detector backend %q", cfg.Backend)
}

func remoteCandidate(cfg *config.Config) detection.Candidate {
	return detection.Candidate{
		Name: "remote",
		Init: func(ctx context.Context) (detection.Detector, error) {
			c := remote.New(remote.Options{
				Endpoint:     cfg.Endpoint,
				Token:        cfg.Token,
				Model:        cfg.Model,
				WaitForModel: cfg.WaitForModel,
			})
			if err := c.Probe(ctx); err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

func dnnCandidates(cfg *config.Config) []detection.Candidate {
	opts := dnn.Options{ModelPath: cfg.DNNModelPath, ConfigPath: cfg.DNNConfigPath}
	open := func(target dnn.Target) func(context.Context) (detection.Detector, error) {
		return func(ctx context.Context) (detection.Detector, error) {
			d, err := dnn.Open(ctx, opts, target)
			if err != nil {
				return nil, err
			}
			return d, nil
		}
	}
	return []detection.Candidate{
		{Name: "dnn:cuda", Init: open(dnn.TargetCUDA)},
		{Name: "dnn:cpu", Init: open(dnn.TargetCPU)},
	}
}

func textCandidates(cfg *config.Config) []detection.Candidate {
	open := func(dir string) func(context.Context) (detection.Detector, error) {
		return func(ctx context.Context) (detection.Detector, error) {
			d, err := ocr.Open(ctx, ocr.Options{
				Language:    cfg.OCRLanguage,
				TessdataDir: dir,
				Scale:       cfg.OCRScale,
			})
			if err != nil {
				return nil, err
			}
			return d, nil
		}
	}

	var c []detection.Candidate
	if cfg.OCRTessdataDir != "" {
		c = append(c, detection.Candidate{Name: "text:" + cfg.OCRTessdataDir, Init: open(cfg.OCRTessdataDir)})
	}
	return append(c, detection.Candidate{Name: "text", Init: open("")})
}

func shapesCandidate(cfg *config.Config) detection.Candidate {
	return detection.Candidate{
		Name: "shapes",
		Init: func(context.Context) (detection.Detector, error) {
			opts := shapes.DefaultOptions()
			opts.MaxDimension = cfg.ShapesMaxDimension
			return shapes.New(opts), nil
		},
	}
}
