package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bfhl/api/internal/ai"
	"bfhl/api/internal/ai/gemini"
	"bfhl/api/internal/bfhl"
	"bfhl/api/internal/config"
	"bfhl/api/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string
	root := &cobra.Command{
		Use:           "bfhl",
		Short:         "Single-endpoint computation gateway (fibonacci, prime, lcm, hcf, AI)",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load before the environment")

	load := func() (*config.Config, *zap.Logger, error) {
		cfg, err := config.Load(envFiles...)
		if err != nil {
			return nil, nil, err
		}
		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return nil, nil, err
		}
		return cfg, log, nil
	}

	root.AddCommand(newServeCmd(load), newEvalCmd(load))
	return root
}

type loader func() (*config.Config, *zap.Logger, error)

func newDispatcher(cfg *config.Config, log *zap.Logger) (*bfhl.Dispatcher, error) {
	engines := &ai.Engines{
		REST: gemini.NewREST(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL),
		SDK:  gemini.NewSDK(cfg.GeminiAPIKey, cfg.GeminiModel),
	}
	engine, err := engines.Get(cfg.GeminiTransport)
	if err != nil {
		return nil, fmt.Errorf("ai engine: %w", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is empty; AI requests will fail")
	}
	delegate := ai.NewDelegate(engine, cfg.AITimeout, log.Named("ai"))
	limits := bfhl.Limits{MaxFibonacci: cfg.MaxFibonacci}
	return bfhl.NewDispatcher(cfg.OfficialEmail, limits, delegate, log.Named("bfhl")), nil
}
