// Copyright 2025 Planweave
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

	"github.com/planweave/recall"
	"github.com/planweave/recall/ai"
	"github.com/planweave/recall/core"
	"github.com/planweave/recall/ingest"
	"github.com/planweave/recall/redact"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "recall",
		Usage: "Memory ingestion and retrieval pipeline",
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
				Name:  "ingest",
				Usage: "Ingest source material into project memory",
				Subcommands: []*cli.Command{
					{
						Name:   "chat",
						Usage:  "Ingest a chat log export (JSON payload)",
						Action: ingestChatCommand,
						Flags:  ingestFlags(),
					},
					{
						Name:   "meeting",
						Usage:  "Ingest a meeting transcript (JSON payload)",
						Action: ingestMeetingCommand,
						Flags:  ingestFlags(),
					},
					{
						Name:   "document",
						Usage:  "Ingest a document (JSON payload)",
						Action: ingestDocumentCommand,
						Flags:  ingestFlags(),
					},
					{
						Name:   "tabular",
						Usage:  "Ingest tabular data (CSV file, or JSON rows)",
						Action: ingestTabularCommand,
						Flags:  ingestFlags(),
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Search project memory by semantic similarity",
				Action: searchCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 5,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "project",
			Aliases:  []string{"p"},
			Usage:    "Project identifier scoping all rows",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the embedded store directory",
		},
		&cli.StringFlag{
			Name:  "postgres",
			Usage: "Postgres connection URL (takes precedence over --db)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func ingestFlags() []cli.Flag {
	return append(storeFlags(),
		&cli.StringFlag{
			Name:     "payload",
			Aliases:  []string{"f"},
			Usage:    "Path to the payload file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "policy",
			Usage: "Redaction policy (off, standard, strict)",
			Value: "standard",
		},
	)
}

func newService(c *cli.Context) (*recall.Service, error) {
	config := ai.ConfigFromEnv()
	if host := c.String("embedding-host"); host != "" {
		ai.WithEmbeddingHost(host)(config)
	}
	if model := c.String("embedding-model"); model != "" {
		ai.WithEmbeddingModel(model)(config)
	}
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	opts := []recall.ServiceOption{recall.WithAIConfig(config)}
	switch {
	case c.String("postgres") != "":
		opts = append(opts, recall.WithPostgresURL(c.String("postgres")))
	case c.String("db") != "":
		opts = append(opts, recall.WithStorePath(c.String("db")))
	default:
		return nil, fmt.Errorf("either --db or --postgres is required")
	}

	return recall.NewService(opts...)
}

func parsePolicy(c *cli.Context) (redact.Policy, error) {
	return redact.ParsePolicy(c.String("policy"))
}

func loadJSONPayload(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading payload file: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing payload file %s: %w", path, err)
	}
	return nil
}

func runIngest(c *cli.Context, run func(ctx context.Context, pipeline *ingest.Pipeline, projectID string, policy redact.Policy) (core.IngestStats, error)) error {
	policy, err := parsePolicy(c)
	if err != nil {
		return err
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	stats, err := run(context.Background(), pipeline, c.String("project"), policy)
	if err != nil {
		return err
	}

	return printStats(stats)
}

func printStats(stats core.IngestStats) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{
		"inserted": stats.Inserted,
		"chunks":   stats.ChunkCount,
		"tokens":   stats.TokenCount,
		"pii_tags": stats.PIITags,
		"warnings": stats.Warnings,
	})
}

func ingestChatCommand(c *cli.Context) error {
	return runIngest(c, func(ctx context.Context, pipeline *ingest.Pipeline, projectID string, policy redact.Policy) (core.IngestStats, error) {
		var payload ingest.ChatPayload
		if err := loadJSONPayload(c.String("payload"), &payload); err != nil {
			return core.IngestStats{}, err
		}
		return pipeline.IngestChat(ctx, projectID, payload, policy)
	})
}

func ingestMeetingCommand(c *cli.Context) error {
	return runIngest(c, func(ctx context.Context, pipeline *ingest.Pipeline, projectID string, policy redact.Policy) (core.IngestStats, error) {
		var payload ingest.MeetingPayload
		if err := loadJSONPayload(c.String("payload"), &payload); err != nil {
			return core.IngestStats{}, err
		}
		return pipeline.IngestMeeting(ctx, projectID, payload, policy)
	})
}

func ingestDocumentCommand(c *cli.Context) error {
	return runIngest(c, func(ctx context.Context, pipeline *ingest.Pipeline, projectID string, policy redact.Policy) (core.IngestStats, error) {
		var payload ingest.DocumentPayload
		if err := loadJSONPayload(c.String("payload"), &payload); err != nil {
			return core.IngestStats{}, err
		}
		return pipeline.IngestDocument(ctx, projectID, payload, policy)
	})
}

// loadTabularPayload builds the tabular payload from a file path. A .json
// payload carries pre-parsed rows; anything else is treated as CSV. A JSON
// file decoding to zero rows yields an empty payload, so ingestion reports
// no-rows instead of re-reading the file as CSV.
func loadTabularPayload(path string) (ingest.TabularPayload, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return ingest.TabularPayload{File: path}, nil
	}

	var rows []map[string]string
	if err := loadJSONPayload(path, &rows); err != nil {
		return ingest.TabularPayload{}, err
	}
	if len(rows) == 0 {
		return ingest.TabularPayload{}, nil
	}
	return ingest.TabularPayload{File: path, Rows: rows}, nil
}

func ingestTabularCommand(c *cli.Context) error {
	return runIngest(c, func(ctx context.Context, pipeline *ingest.Pipeline, projectID string, policy redact.Policy) (core.IngestStats, error) {
		payload, err := loadTabularPayload(c.String("payload"))
		if err != nil {
			return core.IngestStats{}, err
		}
		return pipeline.IngestTabular(ctx, projectID, payload, policy)
	})
}

func searchCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	matches, err := service.Search(context.Background(), c.String("project"), c.String("query"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	for _, match := range matches {
		result := map[string]any{
			"score":   match.Score,
			"text":    match.Row.Text,
			"lineage": match.Row.Lineage,
		}
		if len(match.Row.PIITags) > 0 {
			result["pii_tags"] = match.Row.PIITags
		}
		if err := encoder.Encode(result); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "%d results\n", len(matches))
	return nil
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
