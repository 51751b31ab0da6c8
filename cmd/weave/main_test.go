package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/weave"
	"github.com/aretw0/weave/pkg/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with fresh flag state and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, logLevel = "", ""
	samplesPath, eventsPath, sessionID, mergeName = "", "", "", "first"
	traceInput = 0
	reset := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "weave version "+weave.Version+"\n", out)
}

func TestCatalog(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "| seq | seq | 2 | associativity, identity, interchange | base |")
	assert.Contains(t, out, "| branch | branch | 3 | - | base |")
	assert.Contains(t, out, "| twice | domain | 1 | - | arith |")
}

func TestVerify_DefaultSamples(t *testing.T) {
	out, err := run(t, "verify")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "PASS"))
	assert.NotContains(t, out, "FAIL")
	assert.Contains(t, out, "6 laws, 3 samples")
}

func TestVerify_SamplesFile(t *testing.T) {
	path := writeFile(t, "samples.yaml", "samples:\n  - [5, 6]\n  - [-1]\n")
	out, err := run(t, "verify", "--samples", path)
	require.NoError(t, err)
	assert.Contains(t, out, "6 laws, 2 samples")

	_, err = run(t, "verify", "--samples", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := writeFile(t, "empty.yaml", "samples: []\n")
	_, err = run(t, "verify", "--samples", empty)
	assert.ErrorContains(t, err, "no samples")
}

func TestGlue_Events(t *testing.T) {
	path := writeFile(t, "events.yaml", "events:\n  - meters: 1000\n  - unit: km\n")
	out, err := run(t, "glue", "--events", path, "--session", "trip")
	require.NoError(t, err)
	assert.Contains(t, out, "session trip")
	assert.Contains(t, out, "-> 1000\n")
	assert.Contains(t, out, "-> 1\n")
}

func TestGlue_UnknownMerge(t *testing.T) {
	_, err := run(t, "glue", "--merge", "loudest")
	assert.ErrorContains(t, err, "unknown merge strategy")
}

func TestGlue_ResumesRedisSession(t *testing.T) {
	mr := miniredis.RunT(t)
	config := writeFile(t, "weave.yaml", "redis:\n  addr: "+mr.Addr()+"\n")
	events := writeFile(t, "events.yaml", "events:\n  - meters: 250\n")

	out, err := run(t, "--config", config, "glue", "--events", events, "--session", "trip")
	require.NoError(t, err)
	assert.Contains(t, out, "-> 250\n")

	out, err = run(t, "--config", config, "glue", "--events", events, "--session", "trip")
	require.NoError(t, err)
	assert.Contains(t, out, "-> 500\n")
}

func TestGraph(t *testing.T) {
	out, err := run(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "n0[[\"pipeline\"]]")
	assert.NotContains(t, out, "classDef")

	out, err = run(t, "graph", "pipeline", "--input", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "visited;")
	assert.Contains(t, out, "current;")

	out, err = run(t, "graph", "distance")
	require.NoError(t, err)
	assert.Contains(t, out, "n0{{\"glue(imperial, metric)\"}}")

	_, err = run(t, "graph", "nowhere")
	assert.Error(t, err)
}

func TestConfig_InvalidFixCap(t *testing.T) {
	config := writeFile(t, "weave.yaml", "engine:\n  fix_cap: 0\n")
	_, err := run(t, "--config", config, "catalog")
	assert.ErrorContains(t, err, "fix_cap")
}

func TestGlue_EncryptedRedisSession(t *testing.T) {
	mr := miniredis.RunT(t)
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	config := writeFile(t, "weave.yaml", "redis:\n  addr: "+mr.Addr()+"\nstore:\n  encryption_key: "+key+"\n")
	events := writeFile(t, "events.yaml", "events:\n  - meters: 42\n")

	out, err := run(t, "--config", config, "glue", "--events", events, "--session", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "-> 42\n")

	raw, err := mr.Get("weave:session:secret")
	require.NoError(t, err)
	var snap ports.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Equal(t, "glue(imperial, metric)", snap.Agent)
	assert.False(t, json.Valid(snap.Position), "position is stored sealed")

	bad := writeFile(t, "bad.yaml", "store:\n  encryption_key: c2hvcnQ=\n")
	_, err = run(t, "--config", bad, "glue", "--events", events)
	assert.ErrorContains(t, err, "32 bytes")
}
