package main

import (
	"context"
	"flag"
	"image"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ivlev/textscrub/internal/analyzer"
	"github.com/ivlev/textscrub/internal/config"
	"github.com/ivlev/textscrub/internal/effects"
	"github.com/ivlev/textscrub/internal/engine"
	"github.com/ivlev/textscrub/internal/raster"
	"github.com/ivlev/textscrub/internal/report"
	"github.com/ivlev/textscrub/internal/source"
	"github.com/ivlev/textscrub/internal/system"
)

var version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	configPtr := flag.String("config", "textscrub.yaml", "Config file (optional)")
	inputPtr := flag.String("input", "", "Image, directory of images or PDF (default: most recent file in input/)")
	outputPtr := flag.String("output", "", "Output directory")
	maskPtr := flag.String("mask", "", "Brush selection image; replaces text detection")
	regionsPtr := flag.String("regions", "", "Region report to reuse instead of detection (\"latest\" picks the newest)")
	opPtr := flag.String("op", "", "Operation: remove, blur, detect")
	detectorPtr := flag.String("detector", "", "Detector: auto, model, heuristic")
	workersPtr := flag.Int("workers", 0, "Parallel images (0: CPU count, capped by free memory)")
	reportPtr := flag.String("report", "", "Write the region report to this path")
	dpiPtr := flag.Int("dpi", 0, "PDF render DPI")
	debugPtr := flag.Bool("debug", false, "Debug logging level")
	humanPtr := flag.Bool("human", false, "Human readable log output")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPtr).Msg("could not load config")
	}
	cfg.BuildVersion = version

	// Флаги перекрывают файл и окружение
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output":
			cfg.OutputDir = *outputPtr
		case "op":
			cfg.Operation = *opPtr
		case "detector":
			cfg.Detector = *detectorPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "human":
			cfg.HumanLog = *humanPtr
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}

	setupLogging(cfg.LogLevel, *debugPtr, cfg.HumanLog)
	log.Debug().Str("version", cfg.BuildVersion).Msg("textscrub")

	system.InitResourceLimits(log.Logger)

	inputPath, err := resolveInput(cfg.InputPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("put an image or PDF into %s/", config.DefaultInputDir)
	}
	if cfg.InputPath == "" {
		log.Info().Str("input", inputPath).Msg("picked most recent input")
	}

	mode := engine.ModeTransform
	var op effects.Operation
	if strings.EqualFold(cfg.Operation, "detect") {
		mode = engine.ModeDetect
	} else if op, err = effects.ParseOperation(cfg.Operation); err != nil {
		log.Fatal().Err(err).Msg("invalid -op")
	}

	var brush *image.Gray
	if *maskPtr != "" {
		if brush, err = raster.OpenGray(*maskPtr); err != nil {
			log.Fatal().Err(err).Str("mask", *maskPtr).Msg("could not load brush selection")
		}
	}

	var saved *report.Report
	if path := *regionsPtr; path != "" {
		if path == "latest" {
			if path, err = report.FindLatest(cfg.ReportDir); err != nil {
				log.Fatal().Err(err).Msg("no region report to reuse")
			}
		}
		if saved, err = report.Read(path); err != nil {
			log.Fatal().Err(err).Str("regions", path).Msg("could not read region report")
		}
		log.Info().Str("regions", path).Int("images", len(saved.Images)).Msg("reusing saved regions")
	}

	variant := cfg.Detector
	if brush != nil && mode == engine.ModeTransform {
		// Кисть заменяет детекцию, модель не нужна
		variant = analyzer.VariantHeuristic
	}
	handle, err := analyzer.Init(analyzer.Options{
		Variant:   variant,
		Languages: cfg.Languages,
		Log:       log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not set up text detector")
	}
	log.Info().Str("detector", handle.Detector().Name()).Stringer("model", handle.State()).Msg("detector ready")

	src, err := source.Open(inputPath, source.Options{MaxBytes: cfg.MaxImageBytes, DPI: cfg.DPI})
	if err != nil {
		log.Fatal().Err(err).Str("input", inputPath).Msg("could not open input")
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	batch := &engine.Batch{
		Pipeline:  engine.NewPipeline(handle, log.Logger),
		Source:    src,
		Mode:      mode,
		Op:        op,
		Brush:     brush,
		Saved:     saved,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		Log:       log.Logger,
	}
	rep, results, runErr := batch.Run(ctx)

	for _, r := range results {
		if r.Output != "" && r.Err == nil {
			log.Info().Str("output", r.Output).Int("regions", len(r.Regions)).Msg("saved")
		}
	}

	reportPath := *reportPtr
	if reportPath == "" && mode == engine.ModeDetect {
		reportPath = report.GeneratePath(cfg.ReportDir)
	}
	if rep != nil && reportPath != "" {
		if err := report.Write(rep, reportPath); err != nil {
			log.Error().Err(err).Str("report", reportPath).Msg("could not write region report")
		} else {
			log.Info().Str("report", reportPath).Msg("region report written")
		}
	}

	if runErr != nil {
		stop()
		src.Close()
		log.Fatal().Err(runErr).Msg("batch finished with errors")
	}
}

func setupLogging(level string, debug, human bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if human {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// resolveInput returns the configured path as is, so a directory is batched
// and a file or PDF is processed directly. With nothing configured it picks
// the newest supported file in DefaultInputDir.
func resolveInput(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if err := os.MkdirAll(config.DefaultInputDir, 0755); err != nil {
		return "", err
	}
	return system.FindLatestImage(config.DefaultInputDir, append([]string{".pdf"}, raster.Extensions...))
}
