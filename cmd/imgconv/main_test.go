package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestParseAddress(t *testing.T) {
	tables := []struct {
		in   string
		want uint32
	}{
		{"0x00402000", 0x00402000},
		{"0X200000", 0x00200000},
		{"4096", 4096},
		{"0xffffffff", 0xffffffff},
	}

	for _, table := range tables {
		v, err := parseAddress(table.in)
		require.NoError(t, err, table.in)
		assert.Equal(t, table.want, v)
	}

	for _, in := range []string{"", "0x100000000", "-1", "zero"} {
		_, err := parseAddress(in)
		assert.Error(t, err, in)
	}
}

// run executes the app with exiting captured, returning the exit code
// passed to the exiter, anything written to stderr and the error
func run(t *testing.T, args ...string) (int, string, error) {
	t.Helper()

	code := -1
	stderr := new(bytes.Buffer)

	exiter, errWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(c int) { code = c }
	cli.ErrWriter = stderr
	defer func() {
		cli.OsExiter, cli.ErrWriter = exiter, errWriter
	}()

	app := newApp()
	app.Writer = ioutil.Discard

	err := app.Run(append([]string{"imgconv"}, args...))

	return code, stderr.String(), err
}

func TestConvertMissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.bin")

	code, stderr, err := run(t, "convert", filepath.Join(dir, "missing.png"), output)
	require.Error(t, err)

	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), "input not found")
	assert.Contains(t, stderr, "missing.png")

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestConvertUnsupportedColors(t *testing.T) {
	dir := t.TempDir()

	code, _, err := run(t, "convert", "--colors", "8", filepath.Join(dir, "in.png"), filepath.Join(dir, "out.bin"))
	require.Error(t, err)

	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Equal(t, 1, code)
	assert.Contains(t, err.Error(), "unsupported palette size")
}

func TestProfilesCommand(t *testing.T) {
	out := new(bytes.Buffer)

	app := newApp()
	app.Writer = out
	require.NoError(t, app.Run([]string{"imgconv", "profiles"}))

	assert.Contains(t, out.String(), "rt68-16")
	assert.Contains(t, out.String(), "0x00402000")
}
