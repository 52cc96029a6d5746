package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/picobot-ai/picobot"
	"github.com/picobot-ai/picobot/config"
	"github.com/picobot-ai/picobot/messages"
	"github.com/picobot-ai/picobot/pkg/slogx"
	"github.com/picobot-ai/picobot/provider"
)

var log zerolog.Logger

func setupLogging(verbose bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}),
	))
}

func main() {
	var (
		configPath string
		message    string
		model      string
		verbose    bool
	)
	flag.StringVarP(&configPath, "config", "c", "", "configuration file (json or yaml)")
	flag.StringVarP(&message, "message", "m", "", "message to send")
	flag.StringVar(&model, "model", "", "override the configured model")
	flag.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flag.Parse()

	setupLogging(verbose)

	if message == "" {
		fmt.Fprintln(os.Stderr, "nothing to send, pass -m \"your message\"")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			slog.Error("loading configuration", slogx.Error(err))
			os.Exit(1)
		}
		cfg = loaded
	}
	if model != "" {
		cfg.Agents.Defaults.Model = model
	}

	p, err := picobot.NewProvider(cfg)
	if err != nil {
		slog.Error("building provider", slogx.Error(err))
		os.Exit(1)
	}

	defaults := cfg.Agents.Defaults
	resp := p.Chat(context.Background(), provider.CompletionRequest{
		Model:       defaults.Model,
		Messages:    []messages.Message{messages.User(message)},
		MaxTokens:   defaults.MaxTokens,
		Temperature: &defaults.Temperature,
	})

	if resp.IsError() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", color.RedString("error"), resp.Content)
		os.Exit(1)
	}

	if resp.Reasoning != "" && verbose {
		fmt.Printf("%s: %s\n", color.YellowString("reasoning"), resp.Reasoning)
	}
	for _, tc := range resp.ToolCalls {
		fmt.Printf("%s: %s(%v)\n", color.YellowString("tool call"), tc.Name, tc.Arguments)
	}
	fmt.Printf("%s: %s\n", color.MagentaString(cfg.GetProviderName(defaults.Model)), resp.Content)
	if verbose {
		fmt.Printf("%s: %d prompt, %d completion, %d total\n",
			color.CyanString("tokens"),
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	}
}
