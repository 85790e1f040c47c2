package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/object-annotate-mcp/internal/annotate"
	"github.com/ironsheep/object-annotate-mcp/internal/backend"
	"github.com/ironsheep/object-annotate-mcp/internal/config"
	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/fonts"
	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
	"github.com/ironsheep/object-annotate-mcp/internal/pipeline"
	"github.com/ironsheep/object-annotate-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("object-annotate-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load(os.Getenv("ANNOTATE_ENV_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout is the MCP channel
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(2)
	}
	defer app.provider.Close()

	if len(os.Args) > 1 && os.Args[1] == "annotate" {
		if err := app.annotate(ctx, os.Args[2:]); err != nil {
			logger.Error("annotate failed", "error", err)
			os.Exit(1)
		}
		return
	}

	logger.Debug("starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit, "backend", cfg.Backend)
	if err := app.server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("object-annotate-mcp - MCP server for object detection and annotation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  object-annotate-mcp                 Serve MCP over stdin/stdout")
	fmt.Println("  object-annotate-mcp annotate [flags] Annotate one image and print the detections")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("annotate flags:")
	fmt.Println("  -url URL         Image to download")
	fmt.Println("  -file PATH       Local image file")
	fmt.Println("  -threshold N     Confidence threshold, 0.1 to 1.0 (default DEFAULT_THRESHOLD)")
	fmt.Println("  -out PATH        Where to write the annotated PNG (default annotated.png)")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env or $ANNOTATE_ENV_FILE):")
	fmt.Println("  ANNOTATE_LOG_LEVEL=debug|info|warn|error")
	fmt.Println("  DETECTOR_BACKEND=auto|remote|dnn|text|shapes")
	fmt.Println("  DETECTOR_ENDPOINT, DETECTOR_TOKEN, DETECTOR_MODEL   remote backend")
	fmt.Println("  DNN_MODEL_PATH, DNN_CONFIG_PATH                     dnn backend (build tag gocv)")
	fmt.Println("  OCR_LANGUAGE, OCR_TESSDATA_DIR, OCR_SCALE           text backend (cgo)")
	fmt.Println("  SHAPES_MAX_DIMENSION                                shapes backend")
	fmt.Println("  FETCH_TIMEOUT, FONT_SIZE, FONT_PATHS, BOX_COLOR, TEXT_COLOR, DEFAULT_THRESHOLD")
	fmt.Println()
	fmt.Println("Configure the server in your MCP client (e.g., Claude Desktop).")
}

// app holds the wired components shared by both modes.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider *detection.Provider
	pipeline *pipeline.Pipeline
	server   *server.Server
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	candidates, err := backend.Candidates(cfg)
	if err != nil {
		return nil, err
	}
	provider := detection.NewProvider(logger, candidates...)

	resolver := fonts.NewResolver(cfg.FontCandidates(), logger)
	resolver.SearchSystem = cfg.FontSearchSystem

	p := pipeline.New(
		provider,
		imaging.NewLoader(imaging.NewFetcher(cfg.FetchTimeout)),
		resolver,
		pipeline.Options{
			Style:    annotate.NewStyle(cfg.BoxColor, cfg.TextColor),
			FontSize: cfg.FontSize,
			Logger:   logger,
		},
	)

	srv := server.New(server.Options{
		Pipeline:         p,
		Status:           provider,
		Fonts:            resolver,
		Backend:          cfg.Backend,
		FontSize:         cfg.FontSize,
		DefaultThreshold: cfg.DefaultThreshold,
		Version:          Version,
		Logger:           logger,
	})

	return &app{cfg: cfg, logger: logger, provider: provider, pipeline: p, server: srv}, nil
}

// annotate is the one-shot command line mode.
func (a *app) annotate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	url := fs.String("url", "", "image URL")
	file := fs.String("file", "", "local image file")
	threshold := fs.Float64("threshold", a.cfg.DefaultThreshold, "confidence threshold (0.1 to 1.0)")
	out := fs.String("out", "annotated.png", "output PNG path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*url == "") == (*file == "") {
		return fmt.Errorf("give exactly one of -url or -file")
	}

	res, err := a.pipeline.Run(ctx, pipeline.Request{
		Source:    imaging.Source{URL: *url, Path: *file},
		Threshold: *threshold,
	})
	if err != nil {
		return err
	}

	if err := imaging.SavePNG(*out, res.Annotated.Image); err != nil {
		return err
	}

	fmt.Printf("Image %s, detector %s, threshold %.2f\n", res.Source, res.Backend, res.Threshold)
	fmt.Printf("Detection time: %.2fs\n", res.Elapsed.Seconds())
	if res.Empty() {
		fmt.Println(pipeline.EmptyMessage)
	} else if err := detection.WriteTable(os.Stdout, res.Records); err != nil {
		return err
	}
	fmt.Printf("Annotated image written to %s\n", *out)
	return nil
}
