// Copyright 2025 Finsight Labs
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/finsight/newsintel"
	"github.com/finsight/newsintel/config"
	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/ingest"
)

func main() {
	app := &cli.App{
		Name:  "newsintel",
		Usage: "Financial news consolidation and enrichment workflow",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch configured feeds and process them into the story catalogue",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent feed fetches",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a free-text question over the story catalogue",
				ArgsUsage: "<question>",
				Action:    queryCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the vector catalogue from the structured store",
				Action: reindexCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if len(cfg.Sources.Feeds) == 0 {
		return fmt.Errorf("no feeds configured: add sources.feeds to the config file")
	}

	sources := make([]ingest.Source, 0, len(cfg.Sources.Feeds))
	for _, feed := range cfg.Sources.Feeds {
		source, err := ingest.NewRSSSource(feed.Name, feed.URL)
		if err != nil {
			return fmt.Errorf("bad feed %q: %w", feed.Name, err)
		}
		sources = append(sources, source)
	}

	fetcherOpts := []ingest.Option{
		ingest.WithMinContentRunes(cfg.Sources.MinContentRunes),
	}
	if size := c.Int("pool-size"); size > 0 {
		fetcherOpts = append(fetcherOpts, ingest.WithPoolSize(size))
	}

	fetcher, err := ingest.NewFetcher(sources, fetcherOpts...)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer fetcher.Close()

	batch, err := fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetching feeds: %w", err)
	}
	if len(batch) == 0 {
		fmt.Fprintln(os.Stderr, "No items fetched, nothing to do")
		return nil
	}

	system, err := newsintel.NewSystem(cfg)
	if err != nil {
		return fmt.Errorf("failed to create system: %w", err)
	}
	defer system.Close()

	state := system.RunBatch(ctx, batch)
	if state.Status == core.StageError {
		return fmt.Errorf("batch failed: %s", state.ErrMessage)
	}

	fmt.Fprintf(os.Stderr, "Processed %d items into %d stories\n",
		len(batch), len(state.Completed))
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("query text is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	system, err := newsintel.NewSystem(cfg)
	if err != nil {
		return fmt.Errorf("failed to create system: %w", err)
	}
	defer system.Close()

	response := system.Query(ctx, question)

	out, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	system, err := newsintel.NewSystem(cfg)
	if err != nil {
		return fmt.Errorf("failed to create system: %w", err)
	}
	defer system.Close()

	if err := system.Reindex(ctx, os.Stderr); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
