package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"veostudio/internal/infra"
	"veostudio/internal/infra/credentials"
	"veostudio/internal/kv"
)

func main() {
	var (
		keyFlag    string
		forgetFlag bool
		showFlag   bool
	)
	flag.StringVar(&keyFlag, "key", "", "Gemini API key (falls back to GEMINI_API_KEY)")
	flag.BoolVar(&forgetFlag, "forget", false, "Remove the stored key")
	flag.BoolVar(&showFlag, "show", false, "Print the masked active key")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "geminikey").Str("kv_backend", cfg.KVBackend).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, closeStore, err := kv.Open(ctx, cfg, &logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open key-value store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()
	credStore := credentials.NewStore(store)

	switch {
	case forgetFlag:
		if err := credStore.ForgetGeminiAPIKey(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to remove gemini api key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("GEMINI API key removed")
		return
	case showFlag:
		masked := credentials.NewProvider(cfg.GeminiAPIKey, credStore, nil, &logger).Masked(ctx)
		if masked == "" {
			fmt.Println("no GEMINI API key configured")
			return
		}
		fmt.Println(masked)
		return
	}

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = cfg.GeminiAPIKey
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "GEMINI API key is required via -key or environment")
		os.Exit(1)
	}
	if err := credStore.SetGeminiAPIKey(ctx, key); err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist gemini api key: %v\n", err)
		os.Exit(1)
	}
	logger.Info().Msg("geminikey: key stored")
	fmt.Printf("GEMINI API key stored successfully (%s)\n", credentials.MaskKey(key))
}
