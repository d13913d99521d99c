package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shouni/leaf-doctor-kit/pkg/config"
	"github.com/shouni/leaf-doctor-kit/pkg/diagnosis"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"github.com/shouni/leaf-doctor-kit/pkg/generator"
	"github.com/shouni/leaf-doctor-kit/pkg/imageloader"
	"github.com/shouni/leaf-doctor-kit/pkg/metrics"
	"github.com/shouni/leaf-doctor-kit/pkg/prompts"
	"github.com/shouni/leaf-doctor-kit/pkg/server"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "leafdoctor",
		Short: "Plant leaf disease diagnosis with a hosted Gemini model",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to an optional .env file")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newDiagnoseCmd(opts),
		newLanguagesCmd(opts),
	)
	return rootCmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the upload form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.cfg
			if addr != "" {
				cfg.Addr = addr
			}

			catalogue, orch, err := buildOrchestrator(ctx, cfg)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			srv, err := server.New(orch, catalogue, metrics.New(reg), reg, server.Options{
				MaxUploadBytes: cfg.MaxUploadBytes,
				RateLimit:      cfg.RateLimit,
				RateBurst:      cfg.RateBurst,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx, cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "host:port to listen on (overrides LEAFDOCTOR_ADDR)")
	cmd.SetUsageTemplate(cmd.UsageTemplate() + `
Environment Variables:

    GOOGLE_API_KEY               API key for the Gemini API (required)
    GEMINI_MODEL                 Model name (default "gemini-1.5-flash")
    LEAFDOCTOR_ADDR              The host:port to bind to (default ":7860")
    LEAFDOCTOR_PROMPTS_FILE      YAML file extending or overriding the prompt catalogue
    LEAFDOCTOR_REQUEST_TIMEOUT   Timeout per model call (default "60s")
    LEAFDOCTOR_MAX_RETRIES       Retries for transient model failures (default 0)
    LEAFDOCTOR_MAX_UPLOAD_MB     Upload size limit in MiB (default 20)
    LEAFDOCTOR_RATE_LIMIT        Diagnoses allowed per second (default 1, 0 disables)
    LEAFDOCTOR_RATE_BURST        Rate limiter burst (default 5)
`)
	return cmd
}

func newDiagnoseCmd(opts *rootOptions) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "diagnose IMAGE...",
		Short: "Diagnose a leaf image (only the first image is sent)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orch, err := buildOrchestrator(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}

			d, err := orch.Handle(cmd.Context(), domain.LocalFiles(args...), language)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if d == nil {
				fmt.Fprintln(out, "no image given")
				return nil
			}
			fmt.Fprintf(out, "File Path: %s\n\n%s\n", d.Path, strings.TrimSpace(d.Text))
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", prompts.LanguageEnglish, "response language")
	return cmd
}

func newLanguagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the prompt languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := loadCatalogue(opts.cfg)
			if err != nil {
				return err
			}
			for _, lang := range catalogue.Languages() {
				marker := ""
				if lang == catalogue.DefaultLanguage() {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", lang, marker)
			}
			return nil
		},
	}
}

func loadCatalogue(cfg *config.Config) (*prompts.Catalogue, error) {
	if cfg.PromptsFile == "" {
		return prompts.Default(), nil
	}
	return prompts.LoadFile(cfg.PromptsFile)
}

// buildOrchestrator は設定から実サービスに接続する Orchestrator を組み立てます。
func buildOrchestrator(ctx context.Context, cfg *config.Config) (*prompts.Catalogue, *diagnosis.Orchestrator, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	catalogue, err := loadCatalogue(cfg)
	if err != nil {
		return nil, nil, err
	}

	gen, err := generator.NewFromAPIKey(ctx, cfg.APIKey, cfg.Generator)
	if err != nil {
		return nil, nil, err
	}

	orch, err := diagnosis.NewOrchestrator(imageloader.NewFileLoader(), catalogue, gen)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("Geminiクライアントを初期化しました", "model", cfg.Generator.Model, "languages", catalogue.Languages())
	return catalogue, orch, nil
}
