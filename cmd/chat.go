package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobdeck/jobdeck-assistant/internal/filters"
	"github.com/jobdeck/jobdeck-assistant/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant from the terminal",
	Long: "Starts an interactive loop against the dialog engine. Filter state " +
		"lives in this process and is passed back in on every turn, the same " +
		"way an API client would hold it.",
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chat() {
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

	engine, _, err := buildEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the dialog engine", zap.Error(err))
	}

	fmt.Println("Type a message, or \"exit\" to quit.")

	current := filters.Defaults()
	input := promptui.Prompt{Label: "you"}

	for {
		line, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}

		result := engine.Run(ctx, line, current)
		fmt.Println(result.Message)

		if result.Filters != nil {
			current = result.Filters.Clone()
		}
	}
}
