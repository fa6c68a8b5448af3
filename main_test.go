package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestSolveCommand(t *testing.T) {
	path := writeInput(t, sampleWordSearch+"\n")

	out, err := runCLI(t, "", "solve", "--day", "4", "--part", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "18\n", out)

	out, err = runCLI(t, "", "solve", "-d", "4", "-p", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)
}

func TestSolveCommandStdin(t *testing.T) {
	out, err := runCLI(t, "xmul(2,4)%&mul[3,7]!@^do_not_mul(5,5)+mul(32,64]then(mul(11,8)mul(8,5))", "solve", "--day", "3", "-")
	require.NoError(t, err)
	assert.Equal(t, "161\n", out)
}

func TestSolveCommandErrors(t *testing.T) {
	_, err := runCLI(t, "", "solve", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "read input")

	_, err = runCLI(t, "", "solve", "--day", "9", writeInput(t, "XMAS"))
	assert.ErrorContains(t, err, "no solver for day 9")

	_, err = runCLI(t, "", "solve")
	assert.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	path := writeInput(t, sampleCross)

	out, err := runCLI(t, "", "search", "--cross", path)
	require.NoError(t, err)
	assert.Equal(t, "9\n", out)

	out, err = runCLI(t, "", "search", "--word", "MAS", path)
	require.NoError(t, err)
	assert.NotEqual(t, "0\n", out)

	out, err = runCLI(t, "", "search", "-w", "XMAS", "-v", path)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &Config{Port: "0", CORSOrigins: []string{"*"}, Limits: testLimits}
	assert.NoError(t, serve(ctx, cfg, zerolog.Nop()))
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "bogus")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Debug().Msg("hidden")
	log.Info().Str("word", XmasWord).Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Equal(t, zerolog.DebugLevel, newLogger(&buf, "debug").GetLevel())
}

func TestServeLogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}

	assert.Equal(t, "warn", (&cli{}).logLevel(cfg))
	assert.Equal(t, "debug", (&cli{verbose: true}).logLevel(cfg))

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"-v"}))
	verbose, err := root.PersistentFlags().GetBool("verbose")
	require.NoError(t, err)
	assert.True(t, verbose)
}
