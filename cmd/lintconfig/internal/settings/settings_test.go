package settings

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("format", "", "")
	flags.String("parser-policy", "", "")
	flags.Int("concurrency", 0, "")
	flags.BoolP("verbose", "v", false, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoad_Defaults_Success(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err, "an explicit settings file must exist")
	assert.Nil(t, s)

	s, err = Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, s.Config)
	assert.Equal(t, ".", s.Root)
	assert.Equal(t, DefaultFormat, s.Format)
	assert.True(t, s.Package)
	assert.Equal(t, runtime.GOMAXPROCS(0), s.Concurrency)
	assert.False(t, s.Verbose)
}

func TestLoad_File_Success(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config: configs/lint.yaml\nformat: json\nparser_policy: strict\nconcurrency: 2\n"), 0o600))

	s, err := Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "configs/lint.yaml", s.Config)
	assert.Equal(t, "json", s.Format)
	assert.Equal(t, "strict", s.ParserPolicy)
	assert.Equal(t, 2, s.Concurrency)
	assert.Equal(t, path, s.File)

	// flags win over the file
	s, err = Load(path, newFlags(t, "--format", "yaml", "--concurrency", "0"))
	require.NoError(t, err)
	assert.Equal(t, "yaml", s.Format)
	assert.Equal(t, 1, s.Concurrency)
}

func TestLoad_Env_Success(t *testing.T) { //nolint:paralleltest
	t.Setenv("LINTCONFIG_PARSER_POLICY", "strict")
	t.Setenv("LINTCONFIG_FORMAT", "json")
	t.Setenv("LINTCONFIG_PACKAGE", "false")

	s, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "strict", s.ParserPolicy)
	assert.Equal(t, "json", s.Format)
	assert.False(t, s.Package)

	s, err = Load("", newFlags(t, "--parser-policy", "last-wins"))
	require.NoError(t, err)
	assert.Equal(t, "last-wins", s.ParserPolicy)
}

func TestLoad_Error(t *testing.T) {
	t.Parallel()

	_, err := Load("", newFlags(t, "--format", "toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "toml"`)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: [yaml\n"), 0o600))
	_, err = Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading settings file")
}

func TestLogger_Success(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	l := NewLogger(&Settings{Verbose: true}, &buf)
	ctx := WithLogger(context.Background(), l)
	GetLogger(ctx).Debug("composed", "file", "a.js")
	assert.Contains(t, buf.String(), "file=a.js")

	buf.Reset()
	NewLogger(&Settings{}, &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}
