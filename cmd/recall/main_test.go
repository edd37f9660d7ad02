package main

import (
	"flag"
	"log/slog"
	"os"
	"testing"

	"github.com/planweave/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestIngestFlags(t *testing.T) {
	flags := ingestFlags()

	names := map[string]bool{}
	for _, f := range flags {
		names[f.Names()[0]] = true
	}

	for _, name := range []string{"project", "db", "postgres", "payload", "policy", "embedding-host", "embedding-model"} {
		assert.True(t, names[name], "missing flag %s", name)
	}
}

func TestIngestFlags_Required(t *testing.T) {
	app := &cli.App{
		Name: "recall",
		Commands: []*cli.Command{
			{
				Name: "ingest",
				Subcommands: []*cli.Command{
					{
						Name:   "chat",
						Action: func(c *cli.Context) error { return nil },
						Flags:  ingestFlags(),
					},
				},
			},
		},
	}

	t.Run("project is required", func(t *testing.T) {
		err := app.Run([]string{"recall", "ingest", "chat", "--payload", "/tmp/x.json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project")
	})

	t.Run("payload is required", func(t *testing.T) {
		err := app.Run([]string{"recall", "ingest", "chat", "--project", "p1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payload")
	})
}

func TestIngestFlags_PolicyDefault(t *testing.T) {
	var policyFlag *cli.StringFlag
	for _, f := range ingestFlags() {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "policy" {
			policyFlag = sf
			break
		}
	}
	require.NotNil(t, policyFlag)
	assert.Equal(t, "standard", policyFlag.Value)
}

func TestNewService_RequiresStoreLocation(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("db", "", "")
	set.String("postgres", "", "")
	set.String("embedding-host", "", "")
	set.String("embedding-model", "", "")
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	_, err := newService(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db or --postgres")
}

func TestSetupLogger(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"WARN", false},
		{"error", false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			set := flag.NewFlagSet("test", flag.ContinueOnError)
			set.String("log-level", "", "")
			require.NoError(t, set.Set("log-level", tt.level))
			ctx := cli.NewContext(cli.NewApp(), set, nil)

			err := setupLogger(ctx)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadTabularPayload(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv path passes through as file reference", func(t *testing.T) {
		payload, err := loadTabularPayload(dir + "/export.csv")
		require.NoError(t, err)
		assert.Equal(t, dir+"/export.csv", payload.File)
		assert.Nil(t, payload.Rows)
	})

	t.Run("json rows are decoded", func(t *testing.T) {
		path := dir + "/rows.json"
		require.NoError(t, os.WriteFile(path, []byte(`[{"name":"alice"}]`), 0644))

		payload, err := loadTabularPayload(path)
		require.NoError(t, err)
		require.Len(t, payload.Rows, 1)
		assert.Equal(t, "alice", payload.Rows[0]["name"])
		assert.Equal(t, path, payload.File)
	})

	t.Run("empty json rows yield an empty payload", func(t *testing.T) {
		path := dir + "/empty.json"
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

		payload, err := loadTabularPayload(path)
		require.NoError(t, err)
		assert.Empty(t, payload.Rows)
		assert.Empty(t, payload.File, "must not fall back to parsing the JSON file as CSV")
	})

	t.Run("unreadable json file errors", func(t *testing.T) {
		_, err := loadTabularPayload(dir + "/missing.json")
		require.Error(t, err)
	})
}

func TestPrintStats(t *testing.T) {
	// printStats writes to stdout; just make sure it does not error on a
	// fully-populated stats value.
	old := os.Stdout
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	os.Stdout = devNull
	defer func() {
		os.Stdout = old
		devNull.Close()
	}()

	err = printStats(core.IngestStats{
		Inserted:   2,
		ChunkCount: 3,
		TokenCount: 40,
		PIITags:    map[string]int{"EMAIL": 1},
		Warnings:   []string{"no-rows"},
	})
	assert.NoError(t, err)
}
