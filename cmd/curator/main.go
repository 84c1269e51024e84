// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/curator"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/curation"
	"github.com/poiesic/curator/warmup"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func embeddingFlags(modelRequired bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: modelRequired,
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Bearer token for the embedding service",
			EnvVars: []string{"CURATOR_API_TOKEN"},
		},
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "curator",
		Usage:     "Rank ingested messages against user preferences",
		Writer:    stdout,
		ErrWriter: stderr,

		// Preferences are free text and may contain commas.
		DisableSliceFlagSeparator: true,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "curate",
				Usage:  "Split a JSON message file into important and regular sections",
				Action: curateCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "messages",
						Aliases:  []string{"m"},
						Usage:    "Path to a JSON array of messages, or - for stdin",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "preference",
						Aliases: []string{"p"},
						Usage:   "User preference (repeatable)",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML curation config, optionally listing preferences",
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "Override the curation method (hybrid, semantic, keyword)",
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to a BadgerDB embedding cache directory",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Log each curation stage",
					},
				}, embeddingFlags(false)...),
			},
			{
				Name:   "warm",
				Usage:  "Pre-embed a JSON message file into the embedding cache",
				Action: warmCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "messages",
						Aliases:  []string{"m"},
						Usage:    "Path to a JSON array of messages, or - for stdin",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "cache",
						Usage:    "Path to a BadgerDB embedding cache directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of messages to embed per request",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N messages",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, embeddingFlags(true)...),
			},
			{
				Name:   "purge-cache",
				Usage:  "Delete cached embeddings for one model, or all of them",
				Action: purgeCacheCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "cache",
						Usage:    "Path to a BadgerDB embedding cache directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Purge every model instead of --embedding-model",
					},
				}, embeddingFlags(false)...),
			},
		},
	}
}

func curateCommand(c *cli.Context) error {
	cfg := curation.DefaultConfig()
	var preferences []string
	if path := c.String("config"); path != "" {
		loaded, filePrefs, err := loadCurateConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
		preferences = filePrefs
	}
	preferences = append(preferences, c.StringSlice("preference")...)

	if method := c.String("method"); method != "" {
		cfg.Method = core.Method(method)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	messages, err := readMessages(c, c.String("messages"))
	if err != nil {
		return err
	}

	var opts []curator.Option
	if c.String("embedding-model") != "" {
		opts = append(opts, curator.WithAIConfig(aiConfig(c)))
		if path := c.String("cache"); path != "" {
			opts = append(opts, curator.WithCachePath(path))
		}
	} else if c.String("cache") != "" {
		slog.Warn("--cache ignored without --embedding-model")
	}

	if c.Bool("verbose") {
		opts = append(opts, curator.WithMonitor(newLogMonitor(slog.Default())))
	}

	engine, err := curator.Open(opts...)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Curate(c.Context, messages, preferences, cfg)
	if err != nil {
		return fmt.Errorf("curation failed: %w", err)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func warmCommand(c *cli.Context) error {
	messages, err := readMessages(c, c.String("messages"))
	if err != nil {
		return err
	}

	engine, err := curator.Open(
		curator.WithAIConfig(aiConfig(c)),
		curator.WithCachePath(c.String("cache")),
	)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	warmConfig := &warmup.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	out := c.App.ErrWriter
	fmt.Fprintf(out, "Cache: %s\n", c.String("cache"))
	fmt.Fprintf(out, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(out, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(out)

	if _, err := engine.Warm(c.Context, messages, warmConfig, out); err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}
	return nil
}

func purgeCacheCommand(c *cli.Context) error {
	all := c.Bool("all")
	if !all && c.String("embedding-model") == "" {
		return errors.New("either --embedding-model or --all is required")
	}

	opts := []curator.Option{curator.WithCachePath(c.String("cache"))}
	if !all {
		opts = append(opts, curator.WithAIConfig(aiConfig(c)))
	}
	engine, err := curator.Open(opts...)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	before, err := engine.CachedEmbeddings(c.Context, all)
	if err != nil {
		return err
	}
	if err := engine.PurgeCache(c.Context, all); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Purged %d cached embeddings\n", before)
	return nil
}

func aiConfig(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	}
	if token := c.String("api-token"); token != "" {
		opts = append(opts, ai.WithAPIToken(token))
	}
	return ai.NewConfig(opts...)
}

// curateFile is the YAML layout accepted by --config: curation settings
// plus an optional preference list.
type curateFile struct {
	Preferences []string `yaml:"preferences"`
}

func loadCurateConfig(path string) (*curation.Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := curation.ParseConfig(data)
	if err != nil {
		return nil, nil, err
	}
	var file curateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return cfg, file.Preferences, nil
}

// readMessages decodes a message file. Malformed elements are logged and
// skipped; a payload that is not a JSON array is an error.
func readMessages(c *cli.Context, path string) ([]*core.Message, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	messages, errs := core.DecodeMessages(data)
	for _, decodeErr := range errs {
		if errors.Is(decodeErr, core.ErrNotArray) {
			return nil, decodeErr
		}
		slog.Warn("skipping message", "err", decodeErr)
	}
	return messages, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
