package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambubot-be/internal/config"
)

func TestIngestOptionsResolve(t *testing.T) {
	cfg := &config.Config{Rag: config.RagConfig{CorpusPath: "/data/remedies.pdf", CorpusSource: "home-remedies", ChunkSize: 1000, ChunkOverlap: 200}}

	opts := &ingestOptions{chunkOverlap: -1}
	require.NoError(t, opts.resolve(cfg))
	assert.Equal(t, "/data/remedies.pdf", opts.path)
	assert.Equal(t, "home-remedies", opts.source)
	assert.Equal(t, 1000, opts.chunkSize)
	assert.Equal(t, 200, opts.chunkOverlap)

	opts = &ingestOptions{path: "x.txt", chunkSize: 100, chunkOverlap: 100}
	assert.Error(t, opts.resolve(cfg))

	assert.Error(t, (&ingestOptions{chunkOverlap: -1}).resolve(&config.Config{}))
}

func TestDryRunCountsPassages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remedies.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("Drink warm water with honey. ", 40)), 0o600))
	t.Setenv("LOG_FILE_PATH", filepath.Join(t.TempDir(), "ingest.log"))

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", path, "--chunk-size", "200", "--chunk-overlap", "20", "--dry-run"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "passages (dry run)")
}
