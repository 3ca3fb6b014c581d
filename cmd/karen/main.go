package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/api"
	"github.com/LadiesMan0217/Projeto-Karen/internal/assistant"
	"github.com/LadiesMan0217/Projeto-Karen/internal/calendar"
	"github.com/LadiesMan0217/Projeto-Karen/internal/classifier"
	"github.com/LadiesMan0217/Projeto-Karen/internal/config"
	"github.com/LadiesMan0217/Projeto-Karen/internal/logging"
	"github.com/LadiesMan0217/Projeto-Karen/internal/memory"
	"github.com/LadiesMan0217/Projeto-Karen/internal/store"
	"github.com/LadiesMan0217/Projeto-Karen/internal/tts"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "karen",
		Short: "Assistente pessoal Karen",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(memoryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires every collaborator from the environment. Optional
// services (Groq, TTS, calendar) come up nil when unconfigured and the
// assistant degrades gracefully around them.
func buildServices(cfg config.Config, logger *zap.Logger) (assistant.Services, *store.Store, error) {
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return assistant.Services{}, nil, fmt.Errorf("opening database: %w", err)
	}

	var clf *classifier.Classifier
	if cfg.GroqAPIKey != "" {
		clf, err = classifier.New(classifier.Options{
			APIKey:     cfg.GroqAPIKey,
			BaseURL:    cfg.GroqBaseURL,
			Model:      cfg.GroqModel,
			PromptPath: cfg.PromptPath,
		}, logger)
		if err != nil {
			logger.Warn("classifier unavailable, keyword fallback only", zap.Error(err))
		}
	} else {
		logger.Warn("GROQ_API_KEY not set, keyword fallback only")
	}

	return assistant.Services{
		Classifier: clf,
		Store:      st,
		Memory:     memory.NewLog(cfg.MemoryPath, logger),
		Calendar:   calendar.New(cfg.CalendarBaseURL, cfg.CalendarToken),
		Speech:     tts.New(cfg.HFToken, cfg.TTSModelURL),
		Location:   cfg.Location(),
		Logger:     logger,
	}, st, nil
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.Addr = addr
			}
			logger := logging.New(cfg.Debug)
			defer logger.Sync()

			svc, st, err := buildServices(cfg, logger)
			if err != nil {
				return err
			}
			// The store stays open for the lifetime of the server.

			status := api.ServiceStatus{
				Groq:        svc.Classifier != nil,
				Database:    st != nil,
				HuggingFace: svc.Speech != nil,
				Calendar:    svc.Calendar.Enabled(),
			}

			server := api.New(assistant.New(svc), st, status, cfg.APIToken, cfg.Addr, logger)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides KAREN_ADDR)")
	return cmd
}

func askCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "ask [texto]",
		Short: "Process one utterance and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Debug)
			defer logger.Sync()

			svc, st, err := buildServices(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			text := strings.Join(args, " ")
			result := assistant.New(svc).Process(context.Background(), userID, text)

			fmt.Printf("[%s] %s\n", result.Intent, result.ResponseText)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "cli", "user identifier")
	return cmd
}

func memoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect or clear the long-term memory log",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored memory entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := memory.NewLog(cfg.MemoryPath, zap.NewNop())

			ctx := log.ReadContext(0)
			if ctx == "" {
				fmt.Println("Memória vazia.")
				return nil
			}
			fmt.Println(ctx)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Erase the memory log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := memory.NewLog(cfg.MemoryPath, zap.NewNop())

			if err := log.Clear(); err != nil {
				return err
			}
			fmt.Println("Memória apagada.")
			return nil
		},
	})

	return cmd
}
