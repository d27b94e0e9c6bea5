package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/yq/query"
	"github.com/arnodel/yq/which"
)

func fakeJQ(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported")
	}
	path := filepath.Join(t.TempDir(), "jq")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// run executes the root command with a configuration file that does not
// exist, so only defaults and args apply.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("YQ_CONFIG", "")
	t.Setenv("YQ_JQ", "")
	t.Setenv("YQ_TIMEOUT", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryYAML(t *testing.T) {
	jq := fakeJQ(t, "cat")
	out, err := run(t, "a: 1\nb: {c: true}\n", "--jq", jq, ".")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb:\n  c: true\n", out)
}

func TestQueryYAMLDocStart(t *testing.T) {
	jq := fakeJQ(t, "cat")
	out, err := run(t, "a: 1\n", "--jq", jq, "--doc-start", ".")
	require.NoError(t, err)
	assert.Equal(t, "---\na: 1\n", out)
}

func TestQueryJSON(t *testing.T) {
	jq := fakeJQ(t, "cat")
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "pretty", args: nil, expected: "{\n  \"a\": [1, 2]\n}\n"},
		{name: "compact", args: []string{"-c"}, expected: "{\"a\":[1,2]}\n"},
		{name: "indent", args: []string{"--indent", "4"}, expected: "{\n    \"a\": [1, 2]\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--jq", jq}, tt.args...)
			out, err := run(t, `{"a": [1, 2]}`, append(args, ".")...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestQueryFiles(t *testing.T) {
	jq := fakeJQ(t, "cat")
	dir := t.TempDir()
	f1 := filepath.Join(dir, "one.json")
	f2 := filepath.Join(dir, "two.json")
	require.NoError(t, os.WriteFile(f1, []byte(`"foo"`), 0o644))
	require.NoError(t, os.WriteFile(f2, []byte("\"bar\"\n\"baz\""), 0o644))

	out, err := run(t, "", "--jq", jq, "-o", "yaml", ".", f1, f2)
	require.NoError(t, err)
	assert.Equal(t, "- foo\n- bar\n- baz\n", out)

	_, err = run(t, "", "--jq", jq, ".", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestQueryInputFormats(t *testing.T) {
	jq := fakeJQ(t, "cat")

	// Flow YAML that is not JSON is detected as YAML.
	out, err := run(t, "{a: 1}", "--jq", jq, "-c", "-o", "json", ".")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", out)

	_, err = run(t, "{a: 1}", "--jq", jq, "-i", "json", ".")
	assert.Error(t, err)

	_, err = run(t, "a: 1", "--jq", jq, "-i", "xml", ".")
	assert.ErrorContains(t, err, "invalid input format")

	_, err = run(t, "a: 1", "--jq", jq, "-o", "xml", ".")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestQueryErrors(t *testing.T) {
	t.Run("jq fails", func(t *testing.T) {
		jq := fakeJQ(t, "echo 'jq: error: boom' >&2; exit 3")
		_, err := run(t, "{}", "--jq", jq, ".foobar")
		var stderr bytes.Buffer
		assert.Equal(t, 3, handleError(err, &stderr))
		assert.Equal(t, "jq: error: boom\n", stderr.String())
	})
	t.Run("jq not found", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		_, err := run(t, "{}", ".")
		var stderr bytes.Buffer
		assert.Equal(t, 127, handleError(err, &stderr))
		assert.Contains(t, stderr.String(), "yq: ")
	})
	t.Run("timeout", func(t *testing.T) {
		jq := fakeJQ(t, "exec sleep 10")
		_, err := run(t, "{}", "--jq", jq, "--timeout", "100ms", ".")
		assert.Equal(t, 124, handleError(err, io.Discard))
	})
	t.Run("missing query", func(t *testing.T) {
		_, err := run(t, "{}")
		assert.Error(t, err)
	})
	t.Run("bad color", func(t *testing.T) {
		_, err := run(t, "{}", "--color", "sometimes", ".")
		assert.ErrorContains(t, err, "invalid color")
	})
}

func TestConvert(t *testing.T) {
	out, err := run(t, "a: 1\n---\nb: 2\n", "convert", "-c")
	require.NoError(t, err)
	assert.Equal(t, "[{\"a\":1},{\"b\":2}]\n", out)

	out, err = run(t, "{\"a\": 1}", "convert")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", out)

	out, err = run(t, "a: 1\n", "convert")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out)
}

func TestWhich(t *testing.T) {
	jq := fakeJQ(t, "cat")
	out, err := run(t, "", "--jq", jq, "which")
	require.NoError(t, err)
	assert.Equal(t, jq+"\n", out)

	t.Setenv("PATH", filepath.Dir(jq))
	out, err = run(t, "", "which")
	require.NoError(t, err)
	assert.Equal(t, jq+"\n", out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("yq version %s\n", version), out)
}

func TestConfig(t *testing.T) {
	out, err := run(t, "", "--indent", "4", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "indent = 4")

	path := filepath.Join(t.TempDir(), "yq", "config.toml")
	out, err = run(t, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)
	assert.FileExists(t, path)

	_, err = run(t, "", "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")
	_, err = run(t, "", "--config", path, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stderr string
	}{
		{name: "success", err: nil, code: 0},
		{name: "broken pipe", err: fmt.Errorf("write: %w", syscall.EPIPE), code: 0},
		{name: "jq exit", err: &query.ExitError{ExitCode: 5, Stderr: []byte("bad\n")}, code: 5, stderr: "bad\n"},
		{name: "jq killed", err: &query.ExitError{ExitCode: -1}, code: 1},
		{name: "not found", err: fmt.Errorf("resolve: %w", which.ErrNotFound), code: 127, stderr: "yq: resolve: "},
		{name: "timeout", err: &query.TimeoutError{Timeout: time.Second}, code: 124, stderr: "yq: "},
		{name: "other", err: errors.New("oops"), code: 1, stderr: "yq: oops\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.code, handleError(tt.err, &stderr))
			assert.True(t, strings.HasPrefix(stderr.String(), tt.stderr), "stderr: %q", stderr.String())
		})
	}
}
