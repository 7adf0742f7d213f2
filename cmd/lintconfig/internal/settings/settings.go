// Package settings loads the lintconfig CLI's own runtime settings.
//
// Precedence, highest first: flags, LINTCONFIG_* environment variables, the settings file
// (.lintconfig.yaml in the working directory or --settings), defaults.
package settings

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// EnvPrefix prefixes every environment variable read as a setting
const EnvPrefix = "LINTCONFIG_"

// DefaultSettingsFile is read from the working directory when --settings is not given
const DefaultSettingsFile = ".lintconfig.yaml"

const (
	DefaultConfig = "lint.yaml"
	DefaultFormat = "yaml"
)

// Settings are the CLI's runtime settings, not to be confused with the composition
// documents it loads.
type Settings struct {
	// Config is the composition document, relative to Root
	Config string `koanf:"config"`
	// Root is the project directory file paths are matched relative to
	Root         string `koanf:"root"`
	Format       string `koanf:"format"`
	Engine       string `koanf:"engine"`
	ParserPolicy string `koanf:"parser_policy"`
	// Package reads package.json from Root when it exists
	Package     bool `koanf:"package"`
	Concurrency int  `koanf:"concurrency"`
	Verbose     bool `koanf:"verbose"`

	// File is the settings file that was read, if any
	File string `koanf:"-"`
}

// Load merges defaults, the settings file, the environment and explicitly set flags.
func Load(settingsFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"config":        DefaultConfig,
		"root":          ".",
		"format":        DefaultFormat,
		"engine":        "",
		"parser_policy": "",
		"package":       true,
		"concurrency":   runtime.GOMAXPROCS(0),
		"verbose":       false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Settings file
	used := settingsFile
	if used == "" {
		if _, err := os.Stat(DefaultSettingsFile); err == nil {
			used = DefaultSettingsFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", used, err)
		}
	}

	// 3. Environment: LINTCONFIG_PARSER_POLICY -> parser_policy
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	s.File = used

	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	switch s.Format {
	case "yaml", "json":
	default:
		return nil, fmt.Errorf("unsupported format %q, expected yaml or json", s.Format)
	}

	return &s, nil
}

// NewLogger builds the CLI logger: text to w, debug level when verbose.
func NewLogger(s *Settings, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if s.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
