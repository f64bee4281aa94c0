package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/wbrown/dotmatrix"
	"github.com/wbrown/dotmatrix/analysis"
)

func main() {
	os.Exit(run())
}

func run() int {
	defaults := dotmatrix.DefaultSettings()

	inputFile := flag.String("input", "",
		"Path to the input image file, or - for stdin (required). "+
			"A base64 data URL is accepted as well")
	pngFile := flag.String("png", "",
		"Path to save the PNG raster, or - for stdout")
	svgFile := flag.String("svg", "",
		"Path to save the SVG document, or - for stdout")
	outDir := flag.String("outdir", ".",
		"Directory for -export")
	export := flag.Bool("export", false,
		"Write dotmatrix-<millis>.png and .svg into -outdir")
	gridSize := flag.Float64("grid", defaults.GridSize,
		"Grid spacing in pixels (4-50)")
	maxScale := flag.Float64("max", defaults.MaxRadiusScale,
		"Maximum dot radius as a fraction of half the grid (0.1-1.5)")
	minScale := flag.Float64("min", defaults.MinRadius,
		"Minimum dot radius as a fraction of half the grid (0-1)")
	contrast := flag.Float64("contrast", defaults.Contrast,
		"Contrast multiplier around mid grey (0.5-3)")
	invert := flag.Bool("invert", defaults.Invert,
		"Bright areas get large dots")
	dotColor := flag.String("dot", defaults.DotColor,
		"Dot colour as #rrggbb")
	bgColor := flag.String("bg", defaults.BackgroundColor,
		"Background colour as #rrggbb")
	analyze := flag.Bool("analyze", false,
		"Ask Gemini for a title, description and tags "+
			"(needs GEMINI_API_KEY or API_KEY)")
	lang := flag.String("lang", "en",
		"Analysis language: en or zh")
	model := flag.String("model", analysis.DefaultModel,
		"Gemini model for -analyze")
	verbose := flag.Bool("v", false,
		"Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	dotmatrix.SetLogger(logger)

	// Validate required flags
	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Please provide the image using the -input flag")
		flag.PrintDefaults()
		return 2
	}
	if *pngFile == "" && *svgFile == "" && !*export && !*analyze {
		fmt.Fprintln(os.Stderr, "Nothing to do: pass -png, -svg, -export or -analyze")
		flag.PrintDefaults()
		return 2
	}
	if *pngFile == "-" && *svgFile == "-" {
		fmt.Fprintln(os.Stderr, "Only one of -png and -svg can write to stdout")
		return 2
	}
	if (*pngFile == "-" || *svgFile == "-") && *analyze {
		fmt.Fprintln(os.Stderr, "-analyze prints to stdout and cannot be combined with - outputs")
		return 2
	}
	if *pngFile == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Refusing to write PNG data to a terminal")
		return 2
	}
	language, err := analysis.ParseLanguage(*lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	settings := dotmatrix.NewSettings(
		dotmatrix.WithGridSize(*gridSize),
		dotmatrix.WithMaxRadiusScale(*maxScale),
		dotmatrix.WithMinRadius(*minScale),
		dotmatrix.WithContrast(*contrast),
		dotmatrix.WithInvert(*invert),
		dotmatrix.WithColors(*dotColor, *bgColor),
	).Clamp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	data, err := readInput(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return 1
	}

	start := time.Now()
	studio := dotmatrix.NewStudio(settings)
	frame, err := studio.LoadImage(ctx, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing image: %v\n", err)
		return 1
	}
	logger.Info("rendered",
		"width", frame.Width, "height", frame.Height,
		"dots", len(frame.Dots), "elapsed", time.Since(start))

	if err := writeOutputs(frame, *pngFile, *svgFile, *export, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 1
	}

	if *analyze {
		if err := runAnalysis(ctx, studio, language, *model, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
			if *pngFile == "" && *svgFile == "" && !*export {
				return 1
			}
		}
	}
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutputs(frame *dotmatrix.Frame, pngFile, svgFile string, export bool, outDir string) error {
	if pngFile == "-" {
		if err := frame.WritePNG(os.Stdout); err != nil {
			return err
		}
	} else if pngFile != "" {
		if err := frame.SavePNG(pngFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "PNG output written to %s\n", pngFile)
	}

	if svgFile == "-" {
		if err := frame.WriteSVG(os.Stdout); err != nil {
			return err
		}
	} else if svgFile != "" {
		if err := frame.SaveSVG(svgFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "SVG output written to %s\n", svgFile)
	}

	if export {
		pngPath, svgPath, err := frame.Export(outDir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %s and %s\n", pngPath, svgPath)
	}
	return nil
}

func runAnalysis(ctx context.Context, studio *dotmatrix.Studio, lang analysis.Language, model string, logger *slog.Logger) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}
	analyzer, err := analysis.NewGeminiAnalyzer(ctx, apiKey,
		analysis.WithModel(model),
		analysis.WithLogger(logger))
	if err != nil {
		if errors.Is(err, analysis.ErrMissingAPIKey) {
			err = fmt.Errorf("%w: set GEMINI_API_KEY", err)
		}
		return &dotmatrix.ExternalServiceError{Service: "gemini", Err: err}
	}

	result, err := studio.Analyze(ctx, analyzer, lang)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
