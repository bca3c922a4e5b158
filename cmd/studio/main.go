package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"veostudio/internal/domain"
	"veostudio/internal/generation"
	"veostudio/internal/infra"
	"veostudio/internal/infra/credentials"
	"veostudio/internal/kv"
	"veostudio/internal/ledger"
	"veostudio/internal/providers/video"
	"veostudio/internal/storage"
)

type options struct {
	prompt       string
	preset       string
	restore      string
	aspect       string
	resolution   string
	duration     int
	angle        string
	mode         string
	startFrame   string
	endFrame     string
	enhance      bool
	keep         bool
	askKey       bool
	listHistory  bool
	listGallery  bool
	deleteID     string
	clearHistory bool
	exportPath   string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.prompt, "prompt", "", "Describe the video to generate")
	flag.StringVar(&o.preset, "preset", "", "Start from a preset (cinematic, viral, dreamy, cyberpunk, nature, minimal)")
	flag.StringVar(&o.restore, "restore", "", "Start from a history entry id")
	flag.StringVar(&o.aspect, "aspect", "", "Aspect ratio: 16:9 or 9:16")
	flag.StringVar(&o.resolution, "resolution", "", "Resolution: 720p or 1080p")
	flag.IntVar(&o.duration, "duration", 0, "Clip length in seconds (2, 4, 5, 8, 10)")
	flag.StringVar(&o.angle, "angle", "", "Camera angle tag, e.g. wide or low-angle")
	flag.StringVar(&o.mode, "mode", "", "Camera movement tag, e.g. dolly or orbital")
	flag.StringVar(&o.startFrame, "start", "", "Path to a start frame image")
	flag.StringVar(&o.endFrame, "end", "", "Path to an end frame image")
	flag.BoolVar(&o.enhance, "enhance", true, "Enhance the prompt with cinematic descriptors")
	flag.BoolVar(&o.keep, "save", true, "Save the finished video to the gallery")
	flag.BoolVar(&o.askKey, "ask-key", false, "Prompt for an API key on stdin when none is configured")
	flag.BoolVar(&o.listHistory, "history", false, "List generation history and exit")
	flag.BoolVar(&o.listGallery, "gallery", false, "List saved videos and exit")
	flag.StringVar(&o.deleteID, "delete", "", "Delete a saved video by id and exit")
	flag.BoolVar(&o.clearHistory, "clear-history", false, "Clear generation history and exit")
	flag.StringVar(&o.exportPath, "export", "", "Write the gallery to a zip archive and exit")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "studio").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := kv.Open(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("studio: key-value store unavailable")
	}
	defer closeStore()

	book := ledger.New(store, ledger.Options{HistoryLimit: cfg.HistoryLimit, Logger: &logger})
	if err := book.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("studio: failed to load ledger")
	}

	s := &studio{ledger: book, logger: logger, out: os.Stdout}
	if handled, err := s.runLedgerCommand(ctx, opts); handled {
		if err != nil {
			logger.Fatal().Err(err).Msg("studio: command failed")
		}
		return
	}

	var picker credentials.Picker
	if opts.askKey {
		picker = stdinPicker{in: os.Stdin, out: os.Stderr}
	}
	creds := credentials.NewProvider(cfg.GeminiAPIKey, credentials.NewStore(store), picker, &logger)

	assets, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("studio: failed to configure storage")
	}

	httpClient := infra.NewHTTPClient(cfg)
	var backend video.Backend
	switch cfg.VideoBackend {
	case infra.VideoBackendSynthetic:
		logger.Warn().Msg("studio: using synthetic video backend")
		backend = video.NewSyntheticBackend(2)
	default:
		backend, err = video.NewVeoBackend(video.VeoOptions{
			Keys:       creds,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
			Logger:     &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("studio: failed to configure veo backend")
		}
	}

	orch, err := generation.NewOrchestrator(generation.Options{
		Credentials:  creds,
		Backend:      backend,
		Downloader:   video.NewHTTPDownloader(creds, cfg.GeminiBaseURL, httpClient),
		Assets:       assets,
		Ledger:       book,
		Models:       video.Models{Standard: cfg.VeoModel, Fast: cfg.VeoFastModel},
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("studio: failed to configure orchestrator")
	}
	s.orch = orch
	s.creds = creds

	if err := s.generate(ctx, opts); err != nil {
		if errors.Is(err, domain.ErrEmptyRequest) {
			fmt.Fprintln(os.Stderr, "nothing to generate: pass -prompt, -preset, -restore, -start or -end")
			flag.Usage()
			os.Exit(2)
		}
		logger.Error().Err(err).Msg("studio: generation failed")
		os.Exit(1)
	}
}
