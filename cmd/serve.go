package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobdeck/jobdeck-assistant/internal/ai"
	"github.com/jobdeck/jobdeck-assistant/internal/ai/gemini"
	"github.com/jobdeck/jobdeck-assistant/internal/ai/openai"
	"github.com/jobdeck/jobdeck-assistant/internal/dialog"
	"github.com/jobdeck/jobdeck-assistant/internal/knowledge"
	"github.com/jobdeck/jobdeck-assistant/internal/logger"
	"github.com/jobdeck/jobdeck-assistant/internal/secrets"
	"github.com/jobdeck/jobdeck-assistant/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant HTTP server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", defaultPort, "port to listen on")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.allow-all-origins", serveCmd.Flags().Lookup("allow-all-origins"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the "+app, zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	engine, kb, err := buildEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the dialog engine", zap.Error(err))
	}

	srv := server.New(server.Config{
		Port:     config.Server.Port,
		AllowAll: config.Server.AllowAllOrigins,
	}, engine, kb, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		logger.Fatal("server stopped", zap.Error(err))
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", zap.Error(err))
	}
}

// buildEngine assembles the knowledge base, the resolver, and the dialog
// engine. The model client is constructed here, once, before any request is
// served; nothing initializes it lazily.
func buildEngine(ctx context.Context, config *Config, log *zap.Logger) (*dialog.Engine, *knowledge.Base, error) {
	kb, err := knowledge.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading the knowledge base: %w", err)
	}
	log.Info("knowledge base loaded", zap.Int("entries", kb.Len()))

	resolver, err := newResolver(ctx, config.AI, log)
	if err != nil {
		return nil, nil, err
	}

	if resolver == nil {
		log.Info("model path disabled, running rule-based only")
	} else {
		log.Info("model path enabled", logger.CommonFields(resolver.Provider(), resolver.Model())...)
	}

	return dialog.NewEngine(resolver, kb, log), kb, nil
}

// newResolver builds the intent resolver for the configured provider. A nil
// resolver (with nil error) means the model path is intentionally off.
func newResolver(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*ai.Resolver, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	var completer ai.Completer
	switch provider {
	case "", "openai":
		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: providerKeyFile(cfg.OpenAI, "ai.openai.api-key-file"),
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}

		completer, err = openai.NewClient(apiKey, providerModel(cfg.OpenAI))
		if err != nil {
			return nil, err
		}

	case "gemini":
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: providerKeyFile(cfg.Gemini, "ai.gemini.api-key-file"),
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		completer, err = gemini.NewClient(ctx, apiKey, providerModel(cfg.Gemini))
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	resolverLog := logger.WithCommonFields(log, completer.Provider(), completer.Model())
	return ai.NewResolver(completer, resolverLog, cfg.MaxLogLength), nil
}

func providerKeyFile(cfg *ProviderConfig, viperKey string) string {
	if cfg != nil && strings.TrimSpace(cfg.APIKeyFile) != "" {
		return cfg.APIKeyFile
	}
	return viper.GetString(viperKey)
}

func providerModel(cfg *ProviderConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.Model
}
